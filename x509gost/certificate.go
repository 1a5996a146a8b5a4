package x509gost

import (
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/hash"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
)

// Options collects everything BuildCertificate needs beyond the issuer's
// signing key, per spec.md §3's "Certificate options".
type Options struct {
	Subject    Name
	Issuer     Name
	NotBefore  time.Time
	NotAfter   time.Time
	SerialLen  int // octets of the derived serial to keep, <=hash length
	Extensions Extensions
}

// Certificate is a parsed or built TBSCertificate v3, per spec.md §4.6.
// Public is the SUBJECT's verifying key carried in the SubjectPublicKeyInfo
// field; the certificate's own signature was produced by the ISSUER's
// signing key, which ParseCertificate has no way to resolve on its own
// (see Validate, which takes a key resolver and performs the check).
type Certificate struct {
	Serial        []byte
	SignatureOID  oid.OID
	Issuer        Name
	Subject       Name
	NotBefore     time.Time
	NotAfter      time.Time
	Public        *signature.VerifyKey
	Extensions    Extensions

	Signature *signature.Signature
	TBSDER    []byte
}

// DeriveSerial computes serial = LSB_k(Hash_iss(verifyKeyNumber ||
// signingKeyNumber)), per spec.md §4.6's Serial-number derivation.
func DeriveSerial(issuerSignOID oid.OID, verifyKeyNumber, signingKeyNumber [32]byte, k int) ([]byte, error) {
	h, err := hash.New(hashOIDFor(issuerSignOID))
	if err != nil {
		return nil, err
	}
	h.Update(verifyKeyNumber[:])
	h.Update(signingKeyNumber[:])
	digest := h.Finalize(nil, nil)
	if k > len(digest) {
		k = len(digest)
	}
	return digest[len(digest)-k:], nil
}

// BuildCertificate encodes, signs, and returns a TBSCertificate v3 tree
// for subjectVK under issuerSK. It does not check the signing
// preconditions (issuer CA flag, issuer validity window, issuer key
// fingerprint against the issuer certificate), and no function in this
// package checks them; BuildCertificate only encodes and signs.
func BuildCertificate(issuerSK *signature.SignKey, subjectVK *signature.VerifyKey, opts Options) (*asn1.Tree, error) {
	tbsTree := asn1.NewTree()
	tbs := tbsTree.AddSequence(asn1.NoHandle)

	versionCtx := tbsTree.AddContextConstructed(tbs, 0)
	tbsTree.AddUint32(versionCtx, 2)

	serial, err := DeriveSerial(issuerSK.OID, subjectVK.Fingerprint, issuerSK.KeyNumber, opts.serialLen())
	if err != nil {
		return nil, err
	}
	tbsTree.AddBigInt(tbs, serial)

	sigAlg := tbsTree.AddSequence(tbs)
	if _, err := tbsTree.AddOID(sigAlg, string(issuerSK.OID)); err != nil {
		return nil, err
	}

	if _, err := opts.Issuer.Build(tbsTree, tbs); err != nil {
		return nil, err
	}

	validity := tbsTree.AddSequence(tbs)
	tbsTree.AddUTCTime(validity, opts.NotBefore)
	tbsTree.AddUTCTime(validity, opts.NotAfter)

	if _, err := opts.Subject.Build(tbsTree, tbs); err != nil {
		return nil, err
	}

	if err := BuildSPKI(tbsTree, tbs, subjectVK); err != nil {
		return nil, err
	}

	extCtx := tbsTree.AddContextConstructed(tbs, 3)
	extSeq := tbsTree.AddSequence(extCtx)
	if err := opts.Extensions.Build(tbsTree, extSeq); err != nil {
		return nil, err
	}

	tbsDER, err := tbsTree.EncodeDER()
	if err != nil {
		return nil, err
	}

	sig, err := signature.Sign(issuerSK, tbsDER)
	if err != nil {
		return nil, err
	}

	out := asn1.NewTree()
	root := out.AddSequence(asn1.NoHandle)
	if err := embedTBS(out, root, tbsTree); err != nil {
		return nil, err
	}
	outerSigAlg := out.AddSequence(root)
	if _, err := out.AddOID(outerSigAlg, string(issuerSK.OID)); err != nil {
		return nil, err
	}
	if _, err := out.AddBitString(root, asn1.BitString{Unused: 0, Bytes: sig.Bytes(issuerSK.Curve.Limbs)}); err != nil {
		return nil, err
	}
	return out, nil
}

func (o Options) serialLen() int {
	if o.SerialLen <= 0 {
		return 20
	}
	return o.SerialLen
}

// ParseCertificate decodes a Certificate tree built by BuildCertificate
// (or an external compatible encoder) without verifying its signature;
// use Validate for the full parsing/validation state machine spec.md
// §4.6 describes.
func ParseCertificate(tr *asn1.Tree) (*Certificate, error) {
	root := tr.Root()
	children := tr.Children(root)
	if len(children) != 3 {
		return nil, gosterr.New("x509gost.ParseCertificate", gosterr.InvalidASN1Count)
	}
	tbsHandle := children[0]
	tbsChildren := tr.Children(tbsHandle)
	// version, serial, signatureAlgorithm, issuer, validity, subject,
	// subjectPublicKeyInfo, extensions — in that order, per BuildCertificate.
	if len(tbsChildren) != 8 {
		return nil, gosterr.New("x509gost.ParseCertificate", gosterr.InvalidASN1Count)
	}

	versionCtxChildren := tr.Children(tbsChildren[0])
	if len(versionCtxChildren) != 1 {
		return nil, gosterr.New("x509gost.ParseCertificate", gosterr.InvalidASN1Count)
	}
	version, err := tr.Uint32(versionCtxChildren[0])
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, gosterr.New("x509gost.ParseCertificate", gosterr.InvalidValue)
	}

	serial, err := tr.BigInt(tbsChildren[1], 32)
	if err != nil {
		return nil, err
	}

	issuer, err := ParseName(tr, tbsChildren[3])
	if err != nil {
		return nil, err
	}

	validityChildren := tr.Children(tbsChildren[4])
	if len(validityChildren) != 2 {
		return nil, gosterr.New("x509gost.ParseCertificate", gosterr.InvalidASN1Count)
	}
	notBefore, err := tr.UTCTime(validityChildren[0])
	if err != nil {
		return nil, err
	}
	notAfter, err := tr.UTCTime(validityChildren[1])
	if err != nil {
		return nil, err
	}

	subject, err := ParseName(tr, tbsChildren[5])
	if err != nil {
		return nil, err
	}

	vk, err := ParseSPKI(tr, tbsChildren[6])
	if err != nil {
		return nil, err
	}

	extCtxChildren := tr.Children(tbsChildren[7])
	var extensions Extensions
	if len(extCtxChildren) == 1 {
		extensions, err = ParseExtensions(tr, extCtxChildren[0])
		if err != nil {
			return nil, err
		}
	}

	sigAlgChildren := tr.Children(children[1])
	if len(sigAlgChildren) != 1 {
		return nil, gosterr.New("x509gost.ParseCertificate", gosterr.InvalidASN1Count)
	}
	sigAlgOID, err := tr.OID(sigAlgChildren[0])
	if err != nil {
		return nil, err
	}

	cert := &Certificate{
		Serial: serial, SignatureOID: oid.OID(sigAlgOID),
		Issuer: issuer, Subject: subject,
		NotBefore: notBefore, NotAfter: notAfter,
		Public: vk, Extensions: extensions,
	}

	sigBits, err := tr.BitStringValue(children[2])
	if err != nil {
		return cert, err
	}
	sig, err := signature.ParseSignature(vk.Curve.Limbs, sigBits.Bytes)
	if err != nil {
		return cert, err
	}
	cert.Signature = sig

	tbsDER, err := reencodeSubtree(tr, tbsHandle)
	if err != nil {
		return cert, err
	}
	cert.TBSDER = tbsDER

	return cert, nil
}
