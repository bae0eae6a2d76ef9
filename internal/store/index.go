package store

import (
	"encoding/binary"

	"github.com/lazypower/atomspace/internal/atom"
)

// signature is the structural identity of a link: uvarint type tag,
// uvarint arity, then each outgoing handle as 8 big-endian bytes. Every
// part is either prefix-free or fixed width, so two different
// (type, outgoing) pairs can never encode to the same key.
type signature string

func signatureOf(t atom.Type, outgoing []atom.Handle) signature {
	buf := make([]byte, 0, 2*binary.MaxVarintLen64+8*len(outgoing))
	buf = binary.AppendUvarint(buf, uint64(t))
	buf = binary.AppendUvarint(buf, uint64(len(outgoing)))
	for _, h := range outgoing {
		buf = binary.BigEndian.AppendUint64(buf, uint64(h))
	}
	return signature(buf)
}

// nodeIndex maps a node name to every live node carrying it, across types.
// It locates nodes; it does not own them.
type nodeIndex map[string][]atom.Handle

func (ix nodeIndex) add(name string, h atom.Handle) {
	ix[name] = append(ix[name], h)
}

func (ix nodeIndex) remove(name string, h atom.Handle) {
	hs := ix[name]
	for i, x := range hs {
		if x == h {
			hs = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	if len(hs) == 0 {
		delete(ix, name)
		return
	}
	ix[name] = hs
}

// linkIndex maps a structural signature to the live link holding it.
type linkIndex map[signature]atom.Handle
