package field

import (
	"github.com/holiman/uint256"

	"github.com/gostcrypto/gost/gosterr"
)

// LimbsFromUint256LE decodes a 32-octet little-endian buffer into a
// *uint256.Int. Its only caller is FromUint256LE, which FromLimbsLE uses
// for 4-limb moduli (signature hash and masked-key import, and the
// SubjectPublicKeyInfo point decode). Grounded on parsdao-pars/dex's use of
// uint256.NewInt/uint256.FromBig for fixed-width 256-bit arithmetic.
func LimbsFromUint256LE(b []byte) (*uint256.Int, error) {
	if len(b) != 32 {
		return nil, gosterr.New("field.LimbsFromUint256LE", gosterr.WrongLength)
	}
	be := make([]byte, 32)
	for i, c := range b {
		be[31-i] = c
	}
	var u uint256.Int
	u.SetBytes(be)
	return &u, nil
}

// Uint256ToLimbsLE encodes a *uint256.Int back into a 32-octet
// little-endian buffer.
func Uint256ToLimbsLE(u *uint256.Int) []byte {
	be := u.Bytes32()
	out := make([]byte, 32)
	for i, c := range be {
		out[31-i] = c
	}
	return out
}

// FromUint256LE reduces a 32-octet little-endian buffer modulo m (m must be
// a 4-limb/256-bit modulus) using the uint256 fast path for the decode,
// then handing off to the big.Int-backed Residue for the reduction itself.
func FromUint256LE(m *Modulus, b []byte) (*Residue, error) {
	if m.Limbs != 4 {
		return nil, gosterr.New("field.FromUint256LE", gosterr.InvalidValue)
	}
	u, err := LimbsFromUint256LE(b)
	if err != nil {
		return nil, err
	}
	return FromBig(m, u.ToBig()), nil
}
