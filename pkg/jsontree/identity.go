package jsontree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ID is the stable identity token for one node within one tree. It is
// derived from the tree id and a length-prefixed structural encoding of the
// path, so two distinct paths can only share an ID through a 64-bit xxhash
// collision. That risk is treated as negligible for interactive documents; a
// colliding pair would merely share collapse state.
//
// IDs are stable across frames exactly when the tree id and path are stable,
// and tree ids namespace the hash so the same path in two trees never keys
// the same state.
type ID uint64

// TreeID derives the identity namespace for a tree from its caller-chosen
// name. The name must be unique among trees sharing one Store.
func TreeID(name string) ID {
	return ID(xxhash.Sum64String(name))
}

// nodeID computes the identity of the node at path within the given tree.
// Each segment is encoded as a kind byte, a little-endian length, and the
// segment bytes, so "ab"+"c" and "a"+"bc" hash differently.
func nodeID(tree ID, path Path) ID {
	var d xxhash.Digest
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(tree))
	_, _ = d.Write(buf[:])

	for _, seg := range path {
		if seg.IsKey() {
			key := seg.Key()
			_, _ = d.Write([]byte{'k'})
			binary.LittleEndian.PutUint64(buf[:], uint64(len(key)))
			_, _ = d.Write(buf[:])
			_, _ = d.WriteString(key)
		} else {
			_, _ = d.Write([]byte{'i'})
			binary.LittleEndian.PutUint64(buf[:], uint64(seg.Index()))
			_, _ = d.Write(buf[:])
		}
	}
	return ID(d.Sum64())
}
