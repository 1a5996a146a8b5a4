package signature

import (
	"math/big"

	"github.com/gostcrypto/gost/field"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/hash"
	"github.com/gostcrypto/gost/oid"
)

// Signature is a parsed (s, r) pair, both in [1, q-1].
type Signature struct {
	S, R *big.Int
}

// sizeFor returns the per-integer octet width (curve.size in spec.md's
// terms: Limbs*8) used to serialize r and s.
func sizeFor(limbs int) int { return limbs * 8 }

// hashToInt digests message with the hash engine bound to sk/vk's
// algorithm OID and interprets the digest as a little-endian-limb integer
// reduced mod q, per spec.md §4.3 step 1.
func hashToInt(q *field.Modulus, hashOID oid.OID, message []byte) (*big.Int, error) {
	h, err := hash.New(hashOID)
	if err != nil {
		return nil, err
	}
	h.Update(message)
	digest := h.Finalize(nil, nil)
	r, err := field.FromLimbsLE(q, digest[:min(len(digest), q.Limbs*8)])
	if err != nil {
		return nil, err
	}
	return r.Big(), nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Sign computes a GOST R 34.10-2012 signature over message using sk and
// an internally sampled per-signature nonce k. It recovers the unmasked
// scalar for a single Montgomery product and refreshes the mask before
// returning, per the masking discipline.
func Sign(sk *SignKey, message []byte) (*Signature, error) {
	if err := sk.checkICode(); err != nil {
		return nil, err
	}
	c := sk.Curve
	hashOID := hashOIDFor(sk.OID)

	e, err := hashToInt(c.Q, hashOID, message)
	if err != nil {
		return nil, gosterr.Wrap("signature.Sign", gosterr.Signature, err)
	}

	for {
		k, err := field.RandMod(c.Q)
		if err != nil {
			return nil, gosterr.Wrap("signature.Sign", gosterr.Signature, err)
		}
		sig, err := signWithK(sk, e, k.Big())
		if err == errRetryNonce {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := sk.RefreshMask(); err != nil {
			return nil, err
		}
		return sig, nil
	}
}

// errRetryNonce signals that kBig produced a degenerate (identity point,
// r=0 or s=0) signature and the caller should resample k, per GOST R 34.10-2012's
// signature generation procedure steps 3 and 5.
var errRetryNonce = gosterr.New("signature.signWithK", gosterr.Signature)

// signWithK computes a single GOST R 34.10-2012 signature attempt for a
// literal nonce k and pre-reduced hash value e (both already reduced mod
// the curve's order). It exists as its own seam, separate from Sign's
// random-nonce sampling loop, so test code can reproduce the standard's
// published worked examples (GOST R 34.10-2012 Appendix A.1/A.2), which
// pin k and assert r/s against known constants — Sign itself never
// accepts an external k, since doing so in the signing path would defeat
// the point of the masking discipline.
func signWithK(sk *SignKey, e *big.Int, kBig *big.Int) (*Signature, error) {
	c := sk.Curve
	if e.Sign() == 0 {
		e = big.NewInt(1)
	}

	cpt := c.ScalarMul(c.Generator, kBig)
	cpt = c.Reduce(cpt)
	if cpt.IsIdentity() {
		return nil, errRetryNonce
	}
	rBig := new(big.Int).Mod(cpt.X.FromMontgomery().Big(), c.Q.Big())
	if rBig.Sign() == 0 {
		return nil, errRetryNonce
	}
	r := field.FromBig(c.Q, rBig).ToMontgomery()

	dMont := sk.unmask()
	rd := field.MontMul(r, dMont)

	kMont := field.FromBig(c.Q, kBig).ToMontgomery()
	eMont := field.FromBig(c.Q, e).ToMontgomery()
	ke := field.MontMul(kMont, eMont)

	sMont := field.Add(rd, ke)
	if sMont.IsZero() {
		return nil, errRetryNonce
	}

	return &Signature{
		S: sMont.FromMontgomery().Big(),
		R: rBig,
	}, nil
}

// Verify checks sig against message under vk, per spec.md §4.3's Verify
// procedure. It returns (true, nil) iff the signature is valid, and
// (false, nil) for a well-formed but non-matching signature; a non-nil
// error indicates malformed input (out-of-range components) rather than a
// verification failure.
func Verify(vk *VerifyKey, message []byte, sig *Signature) (bool, error) {
	c := vk.Curve
	qBig := c.Q.Big()
	if sig.S.Sign() <= 0 || sig.S.Cmp(qBig) >= 0 {
		return false, gosterr.New("signature.Verify", gosterr.Signature)
	}
	if sig.R.Sign() <= 0 || sig.R.Cmp(qBig) >= 0 {
		return false, gosterr.New("signature.Verify", gosterr.Signature)
	}

	hashOID := hashOIDFor(vk.OID)
	e, err := hashToInt(c.Q, hashOID, message)
	if err != nil {
		return false, gosterr.Wrap("signature.Verify", gosterr.Signature, err)
	}
	if e.Sign() == 0 {
		e = big.NewInt(1)
	}

	eMont := field.FromBig(c.Q, e).ToMontgomery()
	v := field.MontInverse(eMont)

	sMont := field.FromBig(c.Q, sig.S).ToMontgomery()
	z1Mont := field.MontMul(sMont, v)
	z1 := z1Mont.FromMontgomery().Big()

	rMont := field.FromBig(c.Q, sig.R).ToMontgomery()
	negRMont := field.Neg(rMont)
	z2Mont := field.MontMul(negRMont, v)
	z2 := z2Mont.FromMontgomery().Big()

	p1 := c.ScalarMul(c.Generator, z1)
	p2 := c.ScalarMul(vk.Q, z2)
	rPoint := c.Reduce(c.Add(p1, p2))
	if rPoint.IsIdentity() {
		return false, nil
	}

	gotR := new(big.Int).Mod(rPoint.X.FromMontgomery().Big(), qBig)
	return gotR.Cmp(sig.R) == 0, nil
}

// Bytes serializes sig as (s || r), each a big-endian fixed-width integer
// of sizeFor(limbs) octets, per spec.md §4.3 step 5.
func (sig *Signature) Bytes(limbs int) []byte {
	sz := sizeFor(limbs)
	out := make([]byte, 2*sz)
	sig.S.FillBytes(out[:sz])
	sig.R.FillBytes(out[sz:])
	return out
}

// ParseSignature decodes (s || r) from its fixed-width octet
// representation, given the curve's limb width.
func ParseSignature(limbs int, b []byte) (*Signature, error) {
	sz := sizeFor(limbs)
	if len(b) != 2*sz {
		return nil, gosterr.New("signature.ParseSignature", gosterr.WrongLength)
	}
	return &Signature{
		S: new(big.Int).SetBytes(b[:sz]),
		R: new(big.Int).SetBytes(b[sz:]),
	}, nil
}
