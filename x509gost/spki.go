package x509gost

import (
	"math/big"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/field"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
)

// BuildSPKI encodes vk's SubjectPublicKeyInfo: a SEQUENCE {algorithmOid,
// {curveOid, hashOid}} followed by a BIT STRING whose payload is itself a
// DER-encoded OCTET STRING holding X.x || X.y as two little-endian
// fixed-width integers, per spec.md §4.6's VerifyKey encoding.
func BuildSPKI(tr *asn1.Tree, parent asn1.Handle, vk *signature.VerifyKey) error {
	spki := tr.AddSequence(parent)
	if _, err := tr.AddOID(spki, string(vk.OID)); err != nil {
		return err
	}
	params := tr.AddSequence(spki)
	if _, err := tr.AddOID(params, string(vk.Curve.OID)); err != nil {
		return err
	}
	if _, err := tr.AddOID(params, string(hashOIDFor(vk.OID))); err != nil {
		return err
	}

	affine := vk.Curve.Reduce(vk.Q)
	x := affine.X.FromMontgomery().Bytes()
	y := affine.Y.FromMontgomery().Bytes()
	point := append(append([]byte{}, x...), y...)

	inner := asn1.NewTree()
	innerH := inner.AddOctetString(asn1.NoHandle, point)
	_ = innerH
	innerDER, err := inner.EncodeDER()
	if err != nil {
		return err
	}

	_, err = tr.AddBitString(spki, asn1.BitString{Unused: 0, Bytes: innerDER})
	return err
}

func hashOIDFor(o oid.OID) oid.OID {
	if o == oid.SignWithStreebog512 {
		return oid.Streebog512
	}
	return oid.Streebog256
}

// ParseSPKI decodes a SubjectPublicKeyInfo subtree into a VerifyKey,
// checking the decoded point is on-curve and has the expected order
// (curve.New's self-test already established order for the named curve,
// so this recomputes the fingerprint rather than re-running CheckOrder).
func ParseSPKI(tr *asn1.Tree, h asn1.Handle) (*signature.VerifyKey, error) {
	children := tr.Children(h)
	if len(children) != 3 {
		return nil, gosterr.New("x509gost.ParseSPKI", gosterr.InvalidASN1Count)
	}
	algOIDStr, err := tr.OID(children[0])
	if err != nil {
		return nil, err
	}
	algOID := oid.OID(algOIDStr)

	params := tr.Children(children[1])
	if len(params) != 2 {
		return nil, gosterr.New("x509gost.ParseSPKI", gosterr.InvalidASN1Count)
	}
	curveOIDStr, err := tr.OID(params[0])
	if err != nil {
		return nil, err
	}
	c, err := curve.Named(oid.OID(curveOIDStr))
	if err != nil {
		return nil, err
	}

	bits, err := tr.BitStringValue(children[2])
	if err != nil {
		return nil, err
	}
	inner, err := asn1.DecodeDERExact(bits.Bytes, asn1.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	point, err := inner.OctetString(inner.Root())
	if err != nil {
		return nil, err
	}
	size := c.Limbs * 8
	if len(point) != 2*size {
		return nil, gosterr.New("x509gost.ParseSPKI", gosterr.WrongLength)
	}
	xRes, err := field.FromLimbsLE(c.P, point[:size])
	if err != nil {
		return nil, err
	}
	yRes, err := field.FromLimbsLE(c.P, point[size:])
	if err != nil {
		return nil, err
	}
	q := &curve.Point{
		X: xRes.ToMontgomery(),
		Y: yRes.ToMontgomery(),
		Z: field.FromBig(c.P, big.NewInt(1)).ToMontgomery(),
	}
	if !c.IsOnCurve(q) {
		return nil, gosterr.New("x509gost.ParseSPKI", gosterr.CurvePoint)
	}

	vk := &signature.VerifyKey{Curve: c, OID: algOID, Q: q}
	return vk, signature.RecomputeFingerprint(vk)
}
