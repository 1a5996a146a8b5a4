// Package curve implements short-Weierstrass elliptic curve arithmetic in
// Montgomery form over prime fields of 256 or 512 bits ("WCurve"/"WPoint"
// in the originating specification), as used by GOST R 34.10-2012.
package curve

import (
	"math/big"

	"github.com/gostcrypto/gost/field"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

// Curve is an immutable short-Weierstrass curve: y^2 = x^3 + a*x + b mod p,
// with a group of order q generated by P. a, b are held in Montgomery form
// mod p; everything required to do arithmetic over the curve and its scalar
// field lives here so WPoint operations never need extra context.
type Curve struct {
	OID       oid.OID
	Limbs     int // 4 or 8
	Cofactor  uint64
	P         *field.Modulus // prime field modulus
	Q         *field.Modulus // group order modulus
	A, B      *field.Residue // Montgomery form, mod p
	Generator *Point
}

// New constructs and self-tests a curve, as spec.md §4.1 requires ("invoked
// once at curve-object construction for library self-test").
func New(o oid.OID, limbs int, cofactor uint64, p, a, b, q, gx, gy *big.Int) (*Curve, error) {
	pm, err := field.NewModulus(p, limbs)
	if err != nil {
		return nil, gosterr.Wrap("curve.New", gosterr.CurveNotSupported, err)
	}
	qm, err := field.NewModulus(q, limbs)
	if err != nil {
		return nil, gosterr.Wrap("curve.New", gosterr.CurveNotSupported, err)
	}
	am := field.FromBig(pm, a).ToMontgomery()
	bm := field.FromBig(pm, b).ToMontgomery()

	c := &Curve{OID: o, Limbs: limbs, Cofactor: cofactor, P: pm, Q: qm, A: am, B: bm}

	gxm := field.FromBig(pm, gx).ToMontgomery()
	gym := field.FromBig(pm, gy).ToMontgomery()
	g := &Point{X: gxm, Y: gym, Z: field.FromBig(pm, big.NewInt(1)).ToMontgomery()}
	c.Generator = g

	if !discriminantOK(c) {
		return nil, gosterr.New("curve.New", gosterr.CurveDiscriminant)
	}
	if !c.IsOnCurve(g) {
		return nil, gosterr.New("curve.New", gosterr.CurvePoint)
	}
	if !c.CheckOrder(g) {
		return nil, gosterr.New("curve.New", gosterr.CurvePointOrder)
	}
	return c, nil
}

// discriminantOK verifies 4a^3 + 27b^2 != 0 mod p.
func discriminantOK(c *Curve) bool {
	a3 := field.MontMul(field.MontMul(c.A, c.A), c.A)
	four := field.FromBig(c.P, big.NewInt(4)).ToMontgomery()
	lhs := field.MontMul(four, a3)

	b2 := field.MontMul(c.B, c.B)
	twentySeven := field.FromBig(c.P, big.NewInt(27)).ToMontgomery()
	rhs := field.MontMul(twentySeven, b2)

	sum := field.Add(lhs, rhs)
	return !sum.IsZero()
}
