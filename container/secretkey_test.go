package container_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/container"
	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
	"github.com/stretchr/testify/require"
)

func TestSecretKeyContainerRoundTrip(t *testing.T) {
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(424242), "stored key")
	require.NoError(t, err)
	wantVK, err := sk.VerifyKey()
	require.NoError(t, err)

	salt, err := container.NewSalt()
	require.NoError(t, err)

	var keyNumber [32]byte
	copy(keyNumber[:], []byte("secret-key-number-0000000000000"))

	opts := container.Options{Iterations: 2000}
	meta := container.SecretKeyContainer{
		KeyNumber: keyNumber,
		Label:     "test secret key",
		Resource: container.Resource{
			Type:      2,
			Counter:   10,
			NotBefore: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			NotAfter:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	tr, err := container.BuildSecretKey([]byte("correct horse"), salt, opts, sk, meta)
	require.NoError(t, err)

	der, err := tr.EncodeDER()
	require.NoError(t, err)
	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	gotSK, gotMeta, err := container.ParseSecretKey([]byte("correct horse"), container.Options{}, parsed)
	require.NoError(t, err)
	require.Equal(t, keyNumber, gotMeta.KeyNumber)
	require.Equal(t, "test secret key", gotMeta.Label)
	require.Equal(t, oid.CurveTC26GOST341012256ParamSetTest, gotMeta.CurveOID)
	require.Equal(t, oid.SignWithStreebog256, gotMeta.SignOID)

	gotVK, err := gotSK.VerifyKey()
	require.NoError(t, err)
	require.Equal(t, wantVK.Fingerprint, gotVK.Fingerprint)
	require.Equal(t, 0, wantVK.Q.X.FromMontgomery().Big().Cmp(gotVK.Q.X.FromMontgomery().Big()))

	msg := []byte("sign this with the reloaded key")
	sig, err := signature.Sign(gotSK, msg)
	require.NoError(t, err)
	ok, err := signature.Verify(wantVK, msg, sig)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = container.ParseSecretKey([]byte("wrong horse"), container.Options{}, parsed)
	require.Error(t, err)
}
