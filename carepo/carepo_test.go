package carepo_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/carepo"
	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
	"github.com/gostcrypto/gost/x509gost"
)

func selfSignedRoot(t *testing.T, label string, d int64) *asn1.Tree {
	t.Helper()
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(d), label)
	require.NoError(t, err)
	vk, err := sk.VerifyKey()
	require.NoError(t, err)

	name := x509gost.CommonName(label)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := x509gost.Options{
		Subject:   name,
		Issuer:    name,
		NotBefore: now.Add(-time.Hour),
		NotAfter:  now.Add(365 * 24 * time.Hour),
		Extensions: x509gost.Extensions{
			SubjectKeyIdentifier:   &vk.Fingerprint,
			BasicConstraints:       &x509gost.BasicConstraints{CA: true},
			AuthorityKeyIdentifier: &x509gost.AuthorityKeyIdentifier{Fingerprint: vk.Fingerprint},
		},
	}
	tr, err := x509gost.BuildCertificate(sk, vk, opts)
	require.NoError(t, err)
	return tr
}

func TestStoreAndLookupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := carepo.Open(dir)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := selfSignedRoot(t, "Root A", 77)
	require.NoError(t, repo.Store(tr, now))

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)
	built, _, err := x509gost.Validate(parsed, now, nil)
	require.NoError(t, err)

	got, err := repo.Lookup(built.Serial, now)
	require.NoError(t, err)
	require.True(t, got.Subject.Equal(built.Subject))
}

func TestStoreRefusesNonCACertificate(t *testing.T) {
	dir := t.TempDir()
	repo, err := carepo.Open(dir)
	require.NoError(t, err)

	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)
	issuerSK, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(321), "issuer")
	require.NoError(t, err)
	leafSK, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(654), "leaf")
	require.NoError(t, err)
	leafVK, err := leafSK.VerifyKey()
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := x509gost.Options{
		Subject:   x509gost.CommonName("leaf"),
		Issuer:    x509gost.CommonName("issuer"),
		NotBefore: now.Add(-time.Hour),
		NotAfter:  now.Add(time.Hour),
	}
	tr, err := x509gost.BuildCertificate(issuerSK, leafVK, opts)
	require.NoError(t, err)

	err = repo.Store(tr, now)
	require.Error(t, err)
}

func TestLookupMissingSerialFails(t *testing.T) {
	dir := t.TempDir()
	repo, err := carepo.Open(dir)
	require.NoError(t, err)
	_, err = repo.Lookup([]byte{0xde, 0xad, 0xbe, 0xef}, time.Now().UTC())
	require.Error(t, err)
}

func TestListReflectsStoredSerials(t *testing.T) {
	dir := t.TempDir()
	repo, err := carepo.Open(dir)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := selfSignedRoot(t, "Root B", 88)
	require.NoError(t, repo.Store(tr, now))

	names, err := repo.List()
	require.NoError(t, err)
	require.Len(t, names, 1)
}
