package x509gost_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
	"github.com/gostcrypto/gost/x509gost"
)

func testCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)
	return c
}

func newTestKey(t *testing.T, c *curve.Curve, d int64, label string) *signature.SignKey {
	t.Helper()
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(d), label)
	require.NoError(t, err)
	return sk
}

func TestRequestRoundTrip(t *testing.T) {
	c := testCurve(t)
	sk := newTestKey(t, c, 12345, "alice")
	subject := x509gost.CommonName("alice.example")

	tr, err := x509gost.BuildRequest(sk, subject)
	require.NoError(t, err)

	der, err := tr.EncodeDER()
	require.NoError(t, err)

	parsedTree, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	req, err := x509gost.ParseRequest(parsedTree)
	require.NoError(t, err)
	require.True(t, req.SignatureValid)
	require.True(t, req.Subject.Equal(subject))
}

func TestRequestRejectsTamperedSignature(t *testing.T) {
	c := testCurve(t)
	sk := newTestKey(t, c, 54321, "bob")
	tr, err := x509gost.BuildRequest(sk, x509gost.CommonName("bob.example"))
	require.NoError(t, err)

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	der[len(der)-1] ^= 0xFF

	parsedTree, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	if err != nil {
		return // corrupting the final octet may break DER framing itself
	}
	req, err := x509gost.ParseRequest(parsedTree)
	if err == nil {
		require.True(t, req.SignatureValid)
		return
	}
	require.NotNil(t, req)
	require.False(t, req.SignatureValid)
}

// TestSelfSignedCARoundTrip reproduces scenario 5: a self-signed CA
// certificate carrying BasicConstraints(cA=true, pathLen=0),
// KeyUsage(keyCertSign|cRLSign), a SubjectKeyIdentifier, and an
// AuthorityKeyIdentifier pointing at itself.
func TestSelfSignedCARoundTrip(t *testing.T) {
	c := testCurve(t)
	caKey := newTestKey(t, c, 999983, "root-ca")
	caVK, err := caKey.VerifyKey()
	require.NoError(t, err)

	pathLen := 0
	ku := x509gost.KeyUsageKeyCertSign | x509gost.KeyUsageCRLSign
	ext := x509gost.Extensions{
		SubjectKeyIdentifier: &caVK.Fingerprint,
		BasicConstraints:     &x509gost.BasicConstraints{CA: true, PathLen: &pathLen},
		KeyUsage:             &ku,
		AuthorityKeyIdentifier: &x509gost.AuthorityKeyIdentifier{
			Fingerprint: caVK.Fingerprint,
		},
	}

	name := x509gost.CommonName("Root CA")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := x509gost.Options{
		Subject:    name,
		Issuer:     name,
		NotBefore:  now.Add(-24 * time.Hour),
		NotAfter:   now.Add(365 * 24 * time.Hour),
		Extensions: ext,
	}

	tr, err := x509gost.BuildCertificate(caKey, caVK, opts)
	require.NoError(t, err)

	der, err := tr.EncodeDER()
	require.NoError(t, err)

	parsedTree, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	cert, status, err := x509gost.Validate(parsedTree, now, nil)
	require.NoError(t, err)
	require.Equal(t, x509gost.Imported, status)
	require.True(t, cert.Issuer.Equal(name))
	require.True(t, cert.Subject.Equal(name))
	require.NotNil(t, cert.Extensions.BasicConstraints)
	require.True(t, cert.Extensions.BasicConstraints.CA)
	require.Equal(t, 0, *cert.Extensions.BasicConstraints.PathLen)
	require.Equal(t, ku, *cert.Extensions.KeyUsage)
}

func TestValidateRejectsExpiredCertificate(t *testing.T) {
	c := testCurve(t)
	caKey := newTestKey(t, c, 112233, "root-ca-2")
	caVK, err := caKey.VerifyKey()
	require.NoError(t, err)

	name := x509gost.CommonName("Root CA 2")
	validFrom := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := x509gost.Options{
		Subject:   name,
		Issuer:    name,
		NotBefore: validFrom,
		NotAfter:  validFrom.Add(24 * time.Hour),
		Extensions: x509gost.Extensions{
			AuthorityKeyIdentifier: &x509gost.AuthorityKeyIdentifier{Fingerprint: caVK.Fingerprint},
		},
	}
	tr, err := x509gost.BuildCertificate(caKey, caVK, opts)
	require.NoError(t, err)
	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsedTree, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	_, status, err := x509gost.Validate(parsedTree, validFrom.Add(48*time.Hour), nil)
	require.Error(t, err)
	require.Equal(t, x509gost.Failed, status)
}

func TestValidateReturnsImportedUnverifiedWithoutResolver(t *testing.T) {
	c := testCurve(t)
	issuerKey := newTestKey(t, c, 2468, "issuer")
	subjectKey := newTestKey(t, c, 13579, "leaf")
	subjectVK, err := subjectKey.VerifyKey()
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := x509gost.Options{
		Subject:   x509gost.CommonName("leaf.example"),
		Issuer:    x509gost.CommonName("Intermediate CA"),
		NotBefore: now.Add(-time.Hour),
		NotAfter:  now.Add(time.Hour),
		Extensions: x509gost.Extensions{
			AuthorityKeyIdentifier: &x509gost.AuthorityKeyIdentifier{Fingerprint: [32]byte{0x01}},
		},
	}
	tr, err := x509gost.BuildCertificate(issuerKey, subjectVK, opts)
	require.NoError(t, err)
	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsedTree, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	cert, status, err := x509gost.Validate(parsedTree, now, nil)
	require.NoError(t, err)
	require.Equal(t, x509gost.ImportedUnverified, status)
	require.False(t, cert.Subject.Equal(cert.Issuer))
}

// TestValidateVerifiesLeafThroughRealResolver builds a non-self-signed
// leaf certificate issued by a CA key, and validates it through an
// IssuerResolver that actually resolves the CA's Name/key/extensions by
// fingerprint, exercising the full resolved-issuer path (verify_names
// check, CA flag check, signature check) rather than just the
// ImportedUnverified fallback.
func TestValidateVerifiesLeafThroughRealResolver(t *testing.T) {
	c := testCurve(t)
	caKey := newTestKey(t, c, 31415, "intermediate-ca")
	caVK, err := caKey.VerifyKey()
	require.NoError(t, err)
	caName := x509gost.CommonName("Intermediate CA")
	pathLen := 0
	caExt := x509gost.Extensions{
		SubjectKeyIdentifier: &caVK.Fingerprint,
		BasicConstraints:     &x509gost.BasicConstraints{CA: true, PathLen: &pathLen},
	}

	leafKey := newTestKey(t, c, 27182, "leaf")
	leafVK, err := leafKey.VerifyKey()
	require.NoError(t, err)
	leafName := x509gost.CommonName("leaf.example")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := x509gost.Options{
		Subject:   leafName,
		Issuer:    caName,
		NotBefore: now.Add(-time.Hour),
		NotAfter:  now.Add(time.Hour),
		Extensions: x509gost.Extensions{
			AuthorityKeyIdentifier: &x509gost.AuthorityKeyIdentifier{Fingerprint: caVK.Fingerprint},
		},
	}
	tr, err := x509gost.BuildCertificate(caKey, leafVK, opts)
	require.NoError(t, err)
	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsedTree, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	resolve := func(fp [32]byte) (x509gost.Name, *signature.VerifyKey, x509gost.Extensions, bool) {
		if fp != caVK.Fingerprint {
			return nil, nil, x509gost.Extensions{}, false
		}
		return caName, caVK, caExt, true
	}

	cert, status, err := x509gost.Validate(parsedTree, now, resolve)
	require.NoError(t, err)
	require.Equal(t, x509gost.Imported, status)
	require.True(t, cert.Subject.Equal(leafName))
	require.True(t, cert.Issuer.Equal(caName))

	// A resolver that returns a Name other than the certificate's actual
	// issuer must fail the verify_names check, never reaching the
	// signature check.
	wrongName := func(fp [32]byte) (x509gost.Name, *signature.VerifyKey, x509gost.Extensions, bool) {
		return x509gost.CommonName("Some Other CA"), caVK, caExt, true
	}
	_, status, err = x509gost.Validate(parsedTree, now, wrongName)
	require.Error(t, err)
	require.Equal(t, x509gost.Failed, status)
}
