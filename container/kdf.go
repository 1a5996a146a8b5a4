// Package container implements the password-protected secret-key
// container: PBKDF2-Streebog512 key derivation, the KExp15 authenticated
// wrap/unwrap construction, and the ASN.1 container schema binding them
// together.
package container

import (
	stdhash "hash"

	"github.com/gostcrypto/gost/hash"
	"github.com/gostcrypto/gost/oid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	kekSize = 32
	kimSize = 32

	// developmentPassphrase and developmentIterations are the fixed
	// recovery parameters of the unencrypted development path, per
	// spec.md §4.5. This path exists so containers can round-trip in a
	// test/development environment without requiring the caller to
	// supply a real password; it is gated by AllowInsecureDevelopmentKEK.
	developmentPassphrase = "libakrypt-container-unencrypted-development-passphrase"
	developmentIterations = 2000
)

// KeyPair is the derived KEK (key-encrypting key) / KIM (key-integrity
// mac key), each kekSize/kimSize octets, sized for Kuznyechik.
type KeyPair struct {
	KEK [kekSize]byte
	KIM [kimSize]byte
}

// DeriveKeyPair computes basicKey = PBKDF2(HMAC-Streebog512, password,
// salt, iterations, 64) and splits it into KEK = basicKey[0:32], KIM =
// basicKey[32:64], per spec.md §4.5.
func DeriveKeyPair(password []byte, salt []byte, iterations int) KeyPair {
	basicKey := pbkdf2.Key(password, salt, iterations, kekSize+kimSize, newStreebog512)
	var kp KeyPair
	copy(kp.KEK[:], basicKey[:kekSize])
	copy(kp.KIM[:], basicKey[kekSize:])
	return kp
}

// DevelopmentKeyPair derives the fixed unencrypted-development KEK/KIM
// pair. Callers must set AllowInsecureDevelopmentKEK on the Container
// options before this path is used for wrap or unwrap.
func DevelopmentKeyPair(salt []byte) KeyPair {
	return DeriveKeyPair([]byte(developmentPassphrase), salt, developmentIterations)
}

func newStreebog512() stdhash.Hash {
	h, _ := hash.New(oid.Streebog512)
	return h
}
