// Package hash provides a position-independent 256-bit hash. It is used to
// give stable identities to interned symbols and native function handlers.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

// Size is the size of a Hash value, in bytes.
const Size = 32

// Hash is a 256-bit hash value. The zero value is reserved as an identity
// element for Add; no data hashes to it.
type Hash [Size]byte

// Seeds fed to murmur3 for the two 128-bit halves. They are arbitrary but must
// be nonzero so that empty input does not hash to the zero value.
const (
	seed0 uint32 = 0x9e3779b9
	seed1 uint32 = 0x85ebca6b
)

// Bytes computes the hash of the given bytes.
func Bytes(data []byte) Hash {
	var h Hash
	h0, h1 := murmur3.Sum128WithSeed(data, seed0)
	h2, h3 := murmur3.Sum128WithSeed(data, seed1)
	binary.LittleEndian.PutUint64(h[0:], h0)
	binary.LittleEndian.PutUint64(h[8:], h1)
	binary.LittleEndian.PutUint64(h[16:], h2)
	binary.LittleEndian.PutUint64(h[24:], h3)
	return h
}

// String computes the hash of the given string.
func String(s string) Hash {
	return Bytes([]byte(s))
}

// Int computes the hash of the given integer.
func Int(v int64) Hash {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return Bytes(buf[:])
}

// Float computes the hash of the given float. -0.0 and 0.0 hash equally.
func Float(v float64) Hash {
	if v == 0 {
		v = 0
	}
	return Int(int64(math.Float64bits(v)))
}

// Bool computes the hash of the given bool.
func Bool(v bool) Hash {
	if v {
		return Int(1)
	}
	return Int(0)
}

// Merge combines two hashes in an order-dependent way.
func (h Hash) Merge(other Hash) Hash {
	var buf [2 * Size]byte
	copy(buf[0:], h[:])
	copy(buf[Size:], other[:])
	return Bytes(buf[:])
}

// Add combines two hashes commutatively. Hash{} is the identity element.
func (h Hash) Add(other Hash) Hash {
	var r Hash
	for i := 0; i < Size; i += 8 {
		v := binary.LittleEndian.Uint64(h[i:]) + binary.LittleEndian.Uint64(other[i:])
		binary.LittleEndian.PutUint64(r[i:], v)
	}
	return r
}
