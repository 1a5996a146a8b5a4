package container_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/container"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	salt, err := container.NewSalt()
	require.NoError(t, err)
	kp := container.DeriveKeyPair([]byte("correct horse"), salt, 2000)

	key := bytes.Repeat([]byte{0x5A}, 32)
	mask := bytes.Repeat([]byte{0xA5}, 32)
	plaintext := append(append([]byte{}, key...), mask...)

	wrapped, err := container.Wrap(kp, plaintext)
	require.NoError(t, err)

	recovered, err := container.Unwrap(kp, wrapped)
	require.NoError(t, err)
	require.True(t, bytes.Equal(recovered, plaintext))
}

func TestUnwrapFailsOnWrongPassword(t *testing.T) {
	salt, err := container.NewSalt()
	require.NoError(t, err)
	kpRight := container.DeriveKeyPair([]byte("correct horse"), salt, 2000)
	kpWrong := container.DeriveKeyPair([]byte("wrong horse"), salt, 2000)

	plaintext := bytes.Repeat([]byte{0x11}, 64)
	wrapped, err := container.Wrap(kpRight, plaintext)
	require.NoError(t, err)

	_, err = container.Unwrap(kpWrong, wrapped)
	require.Error(t, err)
}

func TestContainerRoundTripThroughASN1(t *testing.T) {
	salt, err := container.NewSalt()
	require.NoError(t, err)

	key := bytes.Repeat([]byte{0x42}, 32)
	mask := bytes.Repeat([]byte{0x24}, 32)
	plaintext := append(append([]byte{}, key...), mask...)

	var keyNumber [32]byte
	copy(keyNumber[:], bytes.Repeat([]byte{0x01}, 32))

	opts := container.Options{Iterations: 2000}
	c := container.SymmetricKeyContainer{
		KeyNumber: keyNumber,
		Label:     "test symmetric key",
		Resource: container.Resource{
			Type:      1,
			Counter:   100,
			NotBefore: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			NotAfter:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Wrapped: plaintext,
	}

	tr, err := container.BuildSymmetric([]byte("correct horse"), salt, opts, c)
	require.NoError(t, err)

	der, err := tr.EncodeDER()
	require.NoError(t, err)

	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{})
	require.NoError(t, err)

	out, err := container.ParseSymmetric([]byte("correct horse"), container.Options{}, parsed)
	require.NoError(t, err)
	require.Equal(t, keyNumber, out.KeyNumber)
	require.Equal(t, "test symmetric key", out.Label)
	require.True(t, bytes.Equal(out.Wrapped, plaintext))

	_, err = container.ParseSymmetric([]byte("wrong horse"), container.Options{}, parsed)
	require.Error(t, err)
}

func TestDevelopmentKeyPairRoundTrip(t *testing.T) {
	salt, err := container.NewSalt()
	require.NoError(t, err)
	kp := container.DevelopmentKeyPair(salt)

	plaintext := bytes.Repeat([]byte{0x33}, 64)
	wrapped, err := container.Wrap(kp, plaintext)
	require.NoError(t, err)

	recovered, err := container.Unwrap(kp, wrapped)
	require.NoError(t, err)
	require.True(t, bytes.Equal(recovered, plaintext))
}
