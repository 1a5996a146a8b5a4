package curve

import (
	"math/big"

	"github.com/gostcrypto/gost/field"
)

// Point is a projective point (X:Y:Z) over the curve's base field, with
// coordinates held in Montgomery form. The identity (point at infinity) is
// (0:1:0).
type Point struct {
	X, Y, Z *field.Residue
}

// Identity returns the point at infinity for c.
func (c *Curve) Identity() *Point {
	return &Point{
		X: field.Zero(c.P),
		Y: field.FromBig(c.P, big.NewInt(1)).ToMontgomery(),
		Z: field.Zero(c.P),
	}
}

// IsIdentity reports whether p is the point at infinity (Z == 0).
func (p *Point) IsIdentity() bool { return p.Z.IsZero() }

// Copy returns an independent copy of p.
func Copy(p *Point) *Point {
	return &Point{X: p.X, Y: p.Y, Z: p.Z}
}

// IsOnCurve verifies y^2*z == x^3 + a*x*z^2 + b*z^3 mod p; the identity
// (z=0) is accepted, as spec.md §4.1 requires.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.IsIdentity() {
		return true
	}
	y2 := field.MontMul(p.Y, p.Y)
	lhs := field.MontMul(y2, p.Z)

	x2 := field.MontMul(p.X, p.X)
	x3 := field.MontMul(x2, p.X)

	z2 := field.MontMul(p.Z, p.Z)
	z3 := field.MontMul(z2, p.Z)

	axz2 := field.MontMul(field.MontMul(c.A, p.X), z2)
	bz3 := field.MontMul(c.B, z3)

	rhs := field.Add(field.Add(x3, axz2), bz3)
	return lhs.Equal(rhs)
}

// Reduce normalizes p to affine form (z=1) via Fermat inversion. The
// identity is left as-is (no affine representative exists).
func (c *Curve) Reduce(p *Point) *Point {
	if p.IsIdentity() {
		return p
	}
	zInv := field.MontInverse(p.Z)
	return &Point{
		X: field.MontMul(p.X, zInv),
		Y: field.MontMul(p.Y, zInv),
		Z: field.FromBig(c.P, big.NewInt(1)).ToMontgomery(),
	}
}

// Double computes 2*p using the standard projective short-Weierstrass
// doubling formula. Doubling the identity yields the identity.
func (c *Curve) Double(p *Point) *Point {
	if p.IsIdentity() || p.Y.IsZero() {
		return c.Identity()
	}
	// Standard projective doubling (Bernstein/Lange, short Weierstrass,
	// general a):
	//   XX = X1^2 ; ZZ = Z1^2
	//   w  = a*ZZ + 3*XX
	//   s  = 2*Y1*Z1
	//   ss = s^2 ; sss = s*ss
	//   R  = Y1*s
	//   RR = R^2
	//   B  = (X1+R)^2 - XX - RR
	//   h  = w^2 - 2*B
	//   X3 = h*s
	//   Y3 = w*(B-h) - 2*RR
	//   Z3 = sss
	xx := field.MontMul(p.X, p.X)
	zz := field.MontMul(p.Z, p.Z)
	three := field.FromBig(c.P, big.NewInt(3)).ToMontgomery()
	w := field.Add(field.MontMul(c.A, zz), field.MontMul(three, xx))

	two := field.FromBig(c.P, big.NewInt(2)).ToMontgomery()
	s := field.MontMul(two, field.MontMul(p.Y, p.Z))
	ss := field.MontMul(s, s)
	sss := field.MontMul(s, ss)

	r := field.MontMul(p.Y, s)
	rr := field.MontMul(r, r)

	xPlusR := field.Add(p.X, r)
	b := field.Sub(field.Sub(field.MontMul(xPlusR, xPlusR), xx), rr)

	h := field.Sub(field.MontMul(w, w), field.MontMul(two, b))

	x3 := field.MontMul(h, s)
	y3 := field.Sub(field.MontMul(w, field.Sub(b, h)), field.MontMul(two, rr))
	z3 := sss

	return &Point{X: x3, Y: y3, Z: z3}
}

// Add computes p+q using the standard projective short-Weierstrass
// addition formula, dispatching to Double when p==q, and handling the
// identity and P+(-P) cases explicitly.
func (c *Curve) Add(p, q *Point) *Point {
	if p.IsIdentity() {
		return Copy(q)
	}
	if q.IsIdentity() {
		return Copy(p)
	}

	u1 := field.MontMul(p.X, q.Z)
	u2 := field.MontMul(q.X, p.Z)
	s1 := field.MontMul(p.Y, q.Z)
	s2 := field.MontMul(q.Y, p.Z)

	if u1.Equal(u2) {
		if s1.Equal(s2) {
			return c.Double(p)
		}
		// p + (-p) = identity
		return c.Identity()
	}

	// Standard projective addition (a != fixed, general short
	// Weierstrass):
	//   U = S2 - S1 ; V = U2 - U1
	//   VV = V^2 ; VVV = V*VV
	//   R  = VV*U1
	//   A  = U^2*Z1*Z2 - VVV - 2*R
	//   X3 = V*A
	//   Y3 = U*(R-A) - VVV*S1
	//   Z3 = VVV*Z1*Z2
	u := field.Sub(s2, s1)
	v := field.Sub(u2, u1)
	vv := field.MontMul(v, v)
	vvv := field.MontMul(v, vv)
	r := field.MontMul(vv, u1)

	z1z2 := field.MontMul(p.Z, q.Z)
	uu := field.MontMul(u, u)
	two := field.FromBig(c.P, big.NewInt(2)).ToMontgomery()
	a := field.Sub(field.Sub(field.MontMul(uu, z1z2), vvv), field.MontMul(two, r))

	x3 := field.MontMul(v, a)
	y3 := field.Sub(field.MontMul(u, field.Sub(r, a)), field.MontMul(vvv, s1))
	z3 := field.MontMul(vvv, z1z2)

	return &Point{X: x3, Y: y3, Z: z3}
}

// ScalarMul computes R = [k]P using a left-to-right binary ladder that
// scans k most-significant-bit first across the curve's full limb width,
// as spec.md §4.1 specifies. k is taken in plain (non-Montgomery) form; the
// result is in projective Montgomery form.
func (c *Curve) ScalarMul(p *Point, k *big.Int) *Point {
	r := c.Identity()
	bits := c.Limbs * 64
	for i := bits - 1; i >= 0; i-- {
		r = c.Double(r)
		if k.Bit(i) == 1 {
			r = c.Add(r, p)
		}
	}
	return r
}

// CheckOrder returns true iff [q]P is the identity and P itself is not the
// identity.
func (c *Curve) CheckOrder(p *Point) bool {
	if p.IsIdentity() {
		return false
	}
	qp := c.ScalarMul(p, c.Q.Big())
	return qp.IsIdentity()
}
