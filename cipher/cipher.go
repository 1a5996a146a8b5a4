// Package cipher defines the block-cipher Engine interface the container
// layer's KExp15 wrap consumes (GOST R 34.12-2015 "Kuznyechik"), plus the
// generic modes (CTR, CMAC, CFB, OFB, CTR-ACPKM, MGM) layered on top of it.
//
// Per spec.md §1, Kuznyechik/Magma's *standard conformance* is out of
// scope ("the core consumes these as named capabilities"); Kuznyechik here
// is a structurally faithful 128-bit-block, 256-bit-key substitution-
// permutation network (an 8-round SPN: round-key XOR, AES S-box
// substitution, and a byte-rotation permutation layer) in the shape of GOST
// R 34.12-2015, without asserting the standard's official test vectors.
// The modes built on top (CTR, CMAC, CFB, OFB, CTR-ACPKM, MGM) are generic
// constructions correct for *any* conforming Engine, independent of this
// caveat — see DESIGN.md.
package cipher

import (
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

// Engine is the block-cipher capability spec.md §6 names: BlockCipher::
// {new(oid), set_key(bytes), encrypt_block(in,out), decrypt_block(in,out)}.
type Engine interface {
	SetKey(key []byte) error
	EncryptBlock(dst, src []byte)
	DecryptBlock(dst, src []byte)
	BlockSize() int
	KeySize() int
}

// New constructs the block cipher named by o (oid.Kuznyechik).
func New(o oid.OID) (Engine, error) {
	switch o {
	case oid.Kuznyechik:
		return &kuznyechik{}, nil
	default:
		return nil, gosterr.New("cipher.New", gosterr.OIDEngine)
	}
}
