package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lazypower/atomspace/internal/atom"
)

func TestSignatureDistinguishesShape(t *testing.T) {
	cases := []struct {
		typ atom.Type
		out []atom.Handle
	}{
		{atom.ListLink, []atom.Handle{1, 2}},
		{atom.ListLink, []atom.Handle{2, 1}},
		{atom.ListLink, []atom.Handle{1, 2, 3}},
		{atom.ListLink, []atom.Handle{12, 3}},
		{atom.ListLink, []atom.Handle{1, 23}},
		{atom.AndLink, []atom.Handle{1, 2}},
		{atom.ListLink, []atom.Handle{256}},
		{atom.ListLink, []atom.Handle{1 << 40}},
	}
	seen := make(map[signature]int)
	for i, c := range cases {
		sig := signatureOf(c.typ, c.out)
		if prev, dup := seen[sig]; dup {
			t.Fatalf("case %d collides with case %d", i, prev)
		}
		seen[sig] = i
	}
	assert.Equal(t, signatureOf(atom.ListLink, []atom.Handle{1, 2}), signatureOf(atom.ListLink, []atom.Handle{1, 2}))
}

func TestNodeIndexRemove(t *testing.T) {
	ix := make(nodeIndex)
	ix.add("cat", 1)
	ix.add("cat", 2)
	ix.add("cat", 3)

	ix.remove("cat", 2)
	assert.Equal(t, []atom.Handle{1, 3}, ix["cat"])

	ix.remove("cat", 99)
	assert.Equal(t, []atom.Handle{1, 3}, ix["cat"])

	ix.remove("cat", 1)
	ix.remove("cat", 3)
	_, ok := ix["cat"]
	assert.False(t, ok)
}
