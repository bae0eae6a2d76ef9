package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "/api/spaces/default"

func addNode(t *testing.T, srv *Server, typ, name string) int {
	t.Helper()
	code, body := do(t, srv, "POST", base+"/nodes", fmt.Sprintf(`{"type":%q,"name":%q}`, typ, name))
	require.Equal(t, http.StatusOK, code, "body: %v", body)
	return int(body["handle"].(float64))
}

func addLink(t *testing.T, srv *Server, typ string, out ...int) int {
	t.Helper()
	outJSON := "["
	for i, h := range out {
		if i > 0 {
			outJSON += ","
		}
		outJSON += fmt.Sprint(h)
	}
	outJSON += "]"
	code, body := do(t, srv, "POST", base+"/links", fmt.Sprintf(`{"type":%q,"outgoing":%s}`, typ, outJSON))
	require.Equal(t, http.StatusOK, code, "body: %v", body)
	return int(body["handle"].(float64))
}

func TestAddNodeDedup(t *testing.T) {
	srv := testServer(t)
	a := addNode(t, srv, "ConceptNode", "Cat")
	b := addNode(t, srv, "ConceptNode", "Cat")
	assert.Equal(t, a, b)

	// Types may also be given by value.
	code, body := do(t, srv, "POST", base+"/nodes", `{"type":2,"name":"Cat"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(a), body["handle"])
}

func TestAddNodeInvalid(t *testing.T) {
	srv := testServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"empty name", `{"type":"ConceptNode","name":""}`},
		{"link type", `{"type":"ListLink","name":"x"}`},
		{"unknown type", `{"type":"BananaNode","name":"x"}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, srv, "POST", base+"/nodes", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAddLinkInvalid(t *testing.T) {
	srv := testServer(t)
	cat := addNode(t, srv, "ConceptNode", "Cat")

	for _, body := range []string{
		`{"type":"ListLink","outgoing":[]}`,
		fmt.Sprintf(`{"type":"ConceptNode","outgoing":[%d]}`, cat),
		fmt.Sprintf(`{"type":"ListLink","outgoing":[%d,999]}`, cat),
	} {
		code, _ := do(t, srv, "POST", base+"/links", body)
		assert.Equal(t, http.StatusBadRequest, code, body)
	}
}

func TestGetAtom(t *testing.T) {
	srv := testServer(t)
	cat := addNode(t, srv, "ConceptNode", "Cat")
	animal := addNode(t, srv, "ConceptNode", "Animal")
	link := addLink(t, srv, "InheritanceLink", cat, animal)

	code, body := do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d", base, cat), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ConceptNode", body["type"])
	assert.Equal(t, "Cat", body["name"])
	assert.Equal(t, map[string]any{"strength": 0.5, "confidence": 0.1}, body["truth"])

	code, body = do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d", base, link), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "InheritanceLink", body["type"])
	assert.Equal(t, []any{float64(cat), float64(animal)}, body["outgoing"])

	code, _ = do(t, srv, "GET", base+"/atoms/999", "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, srv, "GET", base+"/atoms/0", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, "GET", base+"/atoms/cat", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSetValues(t *testing.T) {
	srv := testServer(t)
	cat := addNode(t, srv, "ConceptNode", "Cat")
	path := fmt.Sprintf("%s/atoms/%d", base, cat)

	code, body := do(t, srv, "PUT", path+"/truth", `{"strength":1.5,"confidence":0.25}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["strength"])
	assert.Equal(t, 0.25, body["confidence"])

	code, body = do(t, srv, "PUT", path+"/attention", `{"sti":-2,"lti":0.5,"vlti":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(-2), body["sti"])

	code, _ = do(t, srv, "PUT", base+"/atoms/999/truth", `{"strength":1,"confidence":1}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOutgoingTruncates(t *testing.T) {
	srv := testServer(t)
	a := addNode(t, srv, "ConceptNode", "A")
	b := addNode(t, srv, "ConceptNode", "B")
	c := addNode(t, srv, "ConceptNode", "C")
	link := addLink(t, srv, "ListLink", a, b, c)
	path := fmt.Sprintf("%s/atoms/%d/outgoing", base, link)

	code, body := do(t, srv, "GET", path, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["outgoing"], 3)
	assert.Equal(t, false, body["truncated"])

	code, body = do(t, srv, "GET", path+"?max=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{float64(a), float64(b)}, body["outgoing"])
	assert.Equal(t, true, body["truncated"])

	code, body = do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d/outgoing", base, a), "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["outgoing"])

	code, _ = do(t, srv, "GET", path+"?max=-1", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPatternMatchAndInference(t *testing.T) {
	srv := testServer(t)
	cat := addNode(t, srv, "ConceptNode", "Cat")
	dog := addNode(t, srv, "ConceptNode", "Dog")
	addNode(t, srv, "PredicateNode", "Red")
	animal := addNode(t, srv, "ConceptNode", "Animal")
	addLink(t, srv, "ImplicationLink", cat, animal)

	code, body := do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d/matches?max=1", base, cat), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{float64(dog)}, body["matches"])

	code, body = do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d/conclusions", base, cat), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{float64(animal)}, body["conclusions"])

	code, body = do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d/conclusions", base, animal), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["conclusions"])

	code, _ = do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d/conclusions?max=-1", base, cat), "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestConsolidateAndTombstone(t *testing.T) {
	srv := testServer(t)
	a := addNode(t, srv, "ConceptNode", "A")
	b := addNode(t, srv, "ConceptNode", "B")

	code, _ := do(t, srv, "POST", base+"/consolidate", `{"threshold":1.5}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, "POST", base+"/consolidate", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, srv, "POST", base+"/consolidate", `{"threshold":0.5}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["merged"])

	code, body = do(t, srv, "GET", fmt.Sprintf("%s/atoms/%d", base, b), "")
	assert.Equal(t, http.StatusGone, code)
	assert.Equal(t, float64(a), body["merged_into"])
}

func TestStateRoundTrip(t *testing.T) {
	srv := testServer(t)

	code, body := do(t, srv, "POST", base+"/state", `{"state":[0.3,0,0,0]}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["written"])

	code, body = do(t, srv, "GET", base+"/types/ConceptNode", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = do(t, srv, "GET", base+"/state?len=4", "")
	require.Equal(t, http.StatusOK, code)
	state := body["state"].([]any)
	require.Len(t, state, 4)
	assert.InDelta(t, 0.3, state[0], 1e-6)
	assert.Equal(t, float64(0), state[3])

	code, _ = do(t, srv, "GET", base+"/state", "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, srv, "GET", base+"/types/Nope", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
