package signature_test

import (
	"math/big"
	"testing"

	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
	"github.com/stretchr/testify/require"
)

func testCurve(t *testing.T) *curve.Curve {
	t.Helper()
	c, err := curve.Named(oid.CurveTC26GOST341012256ParamSetTest)
	require.NoError(t, err)
	return c
}

func TestSignVerifyRoundTrip(t *testing.T) {
	c := testCurve(t)
	d := big.NewInt(0x123456789ABCDEF)
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, d, "test key")
	require.NoError(t, err)

	vk, err := sk.VerifyKey()
	require.NoError(t, err)
	require.True(t, c.IsOnCurve(vk.Q))

	msg := []byte("sign this message")
	sig, err := signature.Sign(sk, msg)
	require.NoError(t, err)

	ok, err := signature.Verify(vk, msg, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	c := testCurve(t)
	d := big.NewInt(777)
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, d, "")
	require.NoError(t, err)
	vk, err := sk.VerifyKey()
	require.NoError(t, err)

	sig, err := signature.Sign(sk, []byte("original message"))
	require.NoError(t, err)

	ok, err := signature.Verify(vk, []byte("tampered message"), sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	c := testCurve(t)
	sk1, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(42), "")
	require.NoError(t, err)
	sk2, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(43), "")
	require.NoError(t, err)
	vk2, err := sk2.VerifyKey()
	require.NoError(t, err)

	msg := []byte("message")
	sig, err := signature.Sign(sk1, msg)
	require.NoError(t, err)

	ok, err := signature.Verify(vk2, msg, sig)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignatureRoundTripsThroughBytes(t *testing.T) {
	c := testCurve(t)
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(9001), "")
	require.NoError(t, err)
	vk, err := sk.VerifyKey()
	require.NoError(t, err)

	sig, err := signature.Sign(sk, []byte("serialize me"))
	require.NoError(t, err)

	raw := sig.Bytes(c.Limbs)
	require.Len(t, raw, 2*c.Limbs*8)

	parsed, err := signature.ParseSignature(c.Limbs, raw)
	require.NoError(t, err)

	ok, err := signature.Verify(vk, []byte("serialize me"), parsed)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMaskRefreshPreservesValidity(t *testing.T) {
	c := testCurve(t)
	sk, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(55555), "")
	require.NoError(t, err)
	vk, err := sk.VerifyKey()
	require.NoError(t, err)

	require.NoError(t, sk.RefreshMask())

	msg := []byte("signed after manual refresh")
	sig, err := signature.Sign(sk, msg)
	require.NoError(t, err)

	ok, err := signature.Verify(vk, msg, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewSignKeyRejectsOutOfRangeScalar(t *testing.T) {
	c := testCurve(t)
	_, err := signature.NewSignKey(c, oid.SignWithStreebog256, big.NewInt(0), "")
	require.Error(t, err)

	_, err = signature.NewSignKey(c, oid.SignWithStreebog256, c.Q.Big(), "")
	require.Error(t, err)
}
