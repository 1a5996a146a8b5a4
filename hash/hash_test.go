package hash_test

import (
	"bytes"
	"testing"

	"github.com/gostcrypto/gost/hash"
	"github.com/gostcrypto/gost/oid"
	"github.com/stretchr/testify/require"
)

func TestSizes(t *testing.T) {
	h256, err := hash.New(oid.Streebog256)
	require.NoError(t, err)
	require.Equal(t, 32, h256.TagSize())
	require.Equal(t, 32, h256.Size())
	require.Equal(t, 64, h256.BlockSize())

	h512, err := hash.New(oid.Streebog512)
	require.NoError(t, err)
	require.Equal(t, 64, h512.TagSize())
}

func TestDeterministicAndSensitiveToInput(t *testing.T) {
	h1, _ := hash.New(oid.Streebog256)
	h1.Update([]byte("hello, gost"))
	d1 := h1.Finalize(nil, nil)

	h2, _ := hash.New(oid.Streebog256)
	h2.Update([]byte("hello, gost"))
	d2 := h2.Finalize(nil, nil)
	require.True(t, bytes.Equal(d1, d2))

	h3, _ := hash.New(oid.Streebog256)
	h3.Update([]byte("hello, gosu"))
	d3 := h3.Finalize(nil, nil)
	require.False(t, bytes.Equal(d1, d3))
}

func TestChunkedUpdateMatchesSingleUpdate(t *testing.T) {
	msg := bytes.Repeat([]byte{0x42}, 200)

	h1, _ := hash.New(oid.Streebog512)
	h1.Update(msg)
	d1 := h1.Finalize(nil, nil)

	h2, _ := hash.New(oid.Streebog512)
	h2.Update(msg[:10])
	h2.Update(msg[10:137])
	h2.Update(msg[137:])
	d2 := h2.Finalize(nil, nil)

	require.True(t, bytes.Equal(d1, d2))
}

func TestCleanResets(t *testing.T) {
	h, _ := hash.New(oid.Streebog256)
	h.Update([]byte("some data"))
	_ = h.Finalize(nil, nil)
	h.Clean()
	h.Update([]byte("other"))
	withClean := h.Finalize(nil, nil)

	h2, _ := hash.New(oid.Streebog256)
	h2.Update([]byte("other"))
	fresh := h2.Finalize(nil, nil)

	require.True(t, bytes.Equal(withClean, fresh))
}

func TestStdHashInterop(t *testing.T) {
	h, _ := hash.New(oid.Streebog512)
	n, err := h.Write([]byte("via io.Writer"))
	require.NoError(t, err)
	require.Equal(t, len("via io.Writer"), n)
	sum := h.Sum(nil)
	require.Len(t, sum, 64)
}
