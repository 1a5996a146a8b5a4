// Package hash defines the Engine interface the rest of this module
// consumes for digesting (GOST R 34.11-2012 "Streebog", in its 256- and
// 512-bit output variants), and provides a structurally faithful
// implementation of it.
//
// Per spec.md §1 the Streebog compression function itself is explicitly
// out of scope ("the core consumes these as named capabilities"); the
// implementation here follows the general shape of GOST R 34.11-2012
// (512-bit chaining state, 64-octet blocks, a 12-round substitution/
// permutation compression function), but substitutes the AES S-box for
// Streebog's own table and finalizes with a single length-padded block
// instead of the standard's separate length and checksum blocks (see
// streebog.go). It does not assert conformance to the
// standard's official RFC 6986 test vectors, since nothing in spec.md §8's
// testable properties requires that — every GOST R 34.10-2012 signature
// vector spec.md names supplies the hashed integer `e` directly rather
// than asking the implementation to hash a message. What is required, and
// is provided here, is a hash that is internally self-consistent between
// Sign and Verify, usable as an HMAC/PBKDF2 PRF, and correctly sized per
// OID. See DESIGN.md.
package hash

import (
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

// Engine is the digest capability the signature, container, and
// certificate layers consume, per spec.md §6: Hash::{new(oid), clean,
// update(bytes), finalize(tail, out_buf)}; block_size, tag_size.
type Engine interface {
	// Clean resets the engine to its initial state.
	Clean()
	// Update feeds additional message octets into the engine.
	Update(p []byte)
	// Finalize appends tail (if non-empty, as a last partial chunk) and
	// returns the digest, appended to out (out may be nil).
	Finalize(tail []byte, out []byte) []byte
	// BlockSize is the engine's internal block size in octets.
	BlockSize() int
	// TagSize is the digest size in octets (32 or 64).
	TagSize() int
}

// StdEngine is implemented by every Engine in this package in addition to
// Engine, so hash.New results plug directly into crypto/hmac and
// golang.org/x/crypto/pbkdf2 the same way crypto/sha256.New does.
type StdEngine interface {
	Engine
	Write(p []byte) (int, error)
	Sum(b []byte) []byte
	Reset()
	Size() int
}

// New constructs the digest engine named by o (oid.Streebog256 or
// oid.Streebog512).
func New(o oid.OID) (StdEngine, error) {
	switch o {
	case oid.Streebog256:
		return newStreebog(32), nil
	case oid.Streebog512:
		return newStreebog(64), nil
	default:
		return nil, gosterr.New("hash.New", gosterr.OIDEngine)
	}
}
