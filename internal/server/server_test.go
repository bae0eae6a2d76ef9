package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	reg := NewRegistry(nil)
	t.Cleanup(reg.Close)
	return New(reg, "test-version")
}

// do sends a request and decodes a JSON response body into a map.
func do(t *testing.T, srv *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	}
	return w.Code, resp
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	code, body := do(t, srv, "GET", "/api/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test-version", body["version"])
	assert.Equal(t, float64(1), body["spaces"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t)
	do(t, srv, "POST", "/api/spaces/default/nodes", `{"type":"ConceptNode","name":"Cat"}`)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "atomspace_atoms_created_total")
}

func TestSpaceLifecycle(t *testing.T) {
	srv := testServer(t)

	code, body := do(t, srv, "POST", "/api/spaces", "")
	require.Equal(t, http.StatusCreated, code)
	id, _ := body["space_id"].(string)
	require.NotEmpty(t, id)

	code, _ = do(t, srv, "POST", "/api/spaces/"+id+"/nodes", `{"type":"ConceptNode","name":"Cat"}`)
	assert.Equal(t, http.StatusOK, code)

	// Spaces are independent.
	_, stats := do(t, srv, "GET", "/api/spaces/default/stats", "")
	assert.Equal(t, float64(0), stats["size"])
	_, stats = do(t, srv, "GET", "/api/spaces/"+id+"/stats", "")
	assert.Equal(t, float64(1), stats["size"])

	code, _ = do(t, srv, "DELETE", "/api/spaces/"+id, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, srv, "GET", "/api/spaces/"+id+"/stats", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUnknownSpace(t *testing.T) {
	srv := testServer(t)
	code, body := do(t, srv, "GET", "/api/spaces/nope/stats", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, body["error"])
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	defer reg.Close()

	_, ok := reg.Get(DefaultSpaceID)
	assert.True(t, ok)

	a, b := reg.Create(), reg.Create()
	assert.NotEqual(t, a, b)
	assert.ElementsMatch(t, []string{DefaultSpaceID, a, b}, reg.IDs())

	e, ok := reg.Get(a)
	require.True(t, ok)
	assert.True(t, reg.Destroy(a))
	assert.False(t, reg.Destroy(a))
	assert.Zero(t, e.Space.Size())
	_, ok = reg.Get(a)
	assert.False(t, ok)
}
