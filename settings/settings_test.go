package settings_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gostcrypto/gost/settings"
)

func TestDefaultsApplyWithoutOptions(t *testing.T) {
	lib := settings.New()
	cur := lib.Current()
	require.Equal(t, "./ca-repository", cur.CARepositoryPath)
	require.False(t, cur.OpenSSLCompat)
	require.Equal(t, 2000, cur.PBKDF2Iterations)

	_, err := cur.ReadPassword("unused")
	require.Error(t, err)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	lib := settings.New(
		settings.WithCARepositoryPath("/var/lib/gost/ca"),
		settings.WithOpenSSLCompat(true),
		settings.WithPBKDF2Iterations(100000),
		settings.WithPasswordReader(func(prompt string) ([]byte, error) {
			return []byte("secret"), nil
		}),
	)
	cur := lib.Current()
	require.Equal(t, "/var/lib/gost/ca", cur.CARepositoryPath)
	require.True(t, cur.OpenSSLCompat)
	require.Equal(t, 100000, cur.PBKDF2Iterations)

	pw, err := cur.ReadPassword("enter password")
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), pw)
}

func TestReplacePreservesUnspecifiedFields(t *testing.T) {
	lib := settings.New(settings.WithCARepositoryPath("/a"))
	lib.Replace(settings.WithOpenSSLCompat(true))
	cur := lib.Current()
	require.Equal(t, "/a", cur.CARepositoryPath)
	require.True(t, cur.OpenSSLCompat)
}

func TestDefaultLibraryIsUsable(t *testing.T) {
	require.NotNil(t, settings.Default())
	cur := settings.Default().Current()
	require.Equal(t, 2000, cur.PBKDF2Iterations)
}
