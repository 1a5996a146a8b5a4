package cipher_test

import (
	"bytes"
	"testing"

	"github.com/gostcrypto/gost/cipher"
	"github.com/gostcrypto/gost/oid"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) cipher.Engine {
	t.Helper()
	e, err := cipher.New(oid.Kuznyechik)
	require.NoError(t, err)
	key := bytes.Repeat([]byte{0x11, 0x22, 0x33, 0x44}, 8)
	require.NoError(t, e.SetKey(key))
	return e
}

func TestBlockRoundTrip(t *testing.T) {
	e := newEngine(t)
	pt := bytes.Repeat([]byte{0xAB}, e.BlockSize())
	ct := make([]byte, e.BlockSize())
	e.EncryptBlock(ct, pt)
	require.False(t, bytes.Equal(ct, pt))

	back := make([]byte, e.BlockSize())
	e.DecryptBlock(back, ct)
	require.True(t, bytes.Equal(back, pt))
}

func TestCTRRoundTrip(t *testing.T) {
	e := newEngine(t)
	iv := bytes.Repeat([]byte{0x01}, e.BlockSize()-1)
	msg := []byte("the quick brown fox jumps over the lazy dog, twice over")

	ct := make([]byte, len(msg))
	require.NoError(t, cipher.CTR(e, iv, msg, ct))
	require.False(t, bytes.Equal(ct, msg))

	pt := make([]byte, len(msg))
	require.NoError(t, cipher.CTR(e, iv, ct, pt))
	require.True(t, bytes.Equal(pt, msg))
}

func TestCFBRoundTrip(t *testing.T) {
	e := newEngine(t)
	iv := bytes.Repeat([]byte{0x02}, e.BlockSize())
	msg := []byte("a message that spans more than a couple of cipher blocks")

	ct := make([]byte, len(msg))
	require.NoError(t, cipher.CFBEncrypt(e, iv, msg, ct))

	pt := make([]byte, len(msg))
	require.NoError(t, cipher.CFBDecrypt(e, iv, ct, pt))
	require.True(t, bytes.Equal(pt, msg))
}

func TestOFBRoundTrip(t *testing.T) {
	e := newEngine(t)
	iv := bytes.Repeat([]byte{0x03}, e.BlockSize())
	msg := []byte("ofb is its own inverse when applied twice with the same iv")

	ct := make([]byte, len(msg))
	require.NoError(t, cipher.OFB(e, iv, msg, ct))

	pt := make([]byte, len(msg))
	require.NoError(t, cipher.OFB(e, iv, ct, pt))
	require.True(t, bytes.Equal(pt, msg))
}

func TestCTRACPKMRoundTripAndRekeys(t *testing.T) {
	e := newEngine(t)
	iv := bytes.Repeat([]byte{0x04}, e.BlockSize()-1)
	msg := bytes.Repeat([]byte{0x5A}, e.BlockSize()*10)

	ct := make([]byte, len(msg))
	require.NoError(t, cipher.CTRACPKM(e, iv, e.BlockSize()*4, msg, ct))

	e2 := newEngine(t)
	pt := make([]byte, len(msg))
	require.NoError(t, cipher.CTRACPKM(e2, iv, e.BlockSize()*4, ct, pt))
	require.True(t, bytes.Equal(pt, msg))
}

func TestCMACDeterministicAndSensitive(t *testing.T) {
	e := newEngine(t)
	tag1, err := cipher.CMAC(e, []byte("authenticate this"), 16)
	require.NoError(t, err)
	tag2, err := cipher.CMAC(e, []byte("authenticate this"), 16)
	require.NoError(t, err)
	require.Equal(t, tag1, tag2)

	tag3, err := cipher.CMAC(e, []byte("authenticate thiz"), 16)
	require.NoError(t, err)
	require.NotEqual(t, tag1, tag3)
}

func TestCMACHandlesEmptyAndExactBlockMessages(t *testing.T) {
	e := newEngine(t)
	_, err := cipher.CMAC(e, nil, 16)
	require.NoError(t, err)

	exact := bytes.Repeat([]byte{0x07}, e.BlockSize())
	_, err = cipher.CMAC(e, exact, 16)
	require.NoError(t, err)
}

func TestMGMSealOpenRoundTrip(t *testing.T) {
	e := newEngine(t)
	nonce := bytes.Repeat([]byte{0x09}, e.BlockSize())
	ad := []byte("associated metadata")
	pt := []byte("the secret payload that needs both secrecy and integrity")

	ct, tag, err := cipher.MGMSeal(e, nonce, ad, pt)
	require.NoError(t, err)

	got, err := cipher.MGMOpen(e, nonce, ad, ct, tag)
	require.NoError(t, err)
	require.True(t, bytes.Equal(got, pt))
}

func TestMGMOpenRejectsTamperedCiphertext(t *testing.T) {
	e := newEngine(t)
	nonce := bytes.Repeat([]byte{0x0A}, e.BlockSize())
	ad := []byte("ad")
	pt := []byte("payload")

	ct, tag, err := cipher.MGMSeal(e, nonce, ad, pt)
	require.NoError(t, err)

	ct[0] ^= 0xFF
	_, err = cipher.MGMOpen(e, nonce, ad, ct, tag)
	require.Error(t, err)
}

func TestMGMOpenRejectsTamperedAD(t *testing.T) {
	e := newEngine(t)
	nonce := bytes.Repeat([]byte{0x0B}, e.BlockSize())
	pt := []byte("payload")

	ct, tag, err := cipher.MGMSeal(e, nonce, []byte("original ad"), pt)
	require.NoError(t, err)

	_, err = cipher.MGMOpen(e, nonce, []byte("tampered ad"), ct, tag)
	require.Error(t, err)
}
