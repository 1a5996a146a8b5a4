package container

import (
	"crypto/rand"

	"github.com/gostcrypto/gost/cipher"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

// Wrap implements the KExp15 authenticated wrap construction (R
// 1323565.1.017-2018) over plaintext = key || mask, exactly as spec.md
// §4.5 specifies: a half-block random IV, a CMAC over IV||plaintext keyed
// by KIM, and CTR encryption (keyed by KEK) of plaintext||mac.
func Wrap(kp KeyPair, plaintext []byte) ([]byte, error) {
	e, err := cipher.New(oid.Kuznyechik)
	if err != nil {
		return nil, gosterr.Wrap("container.Wrap", gosterr.OIDEngine, err)
	}
	blockSize := e.BlockSize()

	iv := make([]byte, blockSize/2)
	if _, err := rand.Read(iv); err != nil {
		return nil, gosterr.Wrap("container.Wrap", gosterr.KeyValue, err)
	}

	if err := e.SetKey(kp.KIM[:]); err != nil {
		return nil, gosterr.Wrap("container.Wrap", gosterr.WrongKeyLength, err)
	}
	macInput := append(append([]byte{}, iv...), plaintext...)
	mac, err := cipher.CMAC(e, macInput, blockSize)
	if err != nil {
		return nil, gosterr.Wrap("container.Wrap", gosterr.Signature, err)
	}

	if err := e.SetKey(kp.KEK[:]); err != nil {
		return nil, gosterr.Wrap("container.Wrap", gosterr.WrongKeyLength, err)
	}
	tail := append(append([]byte{}, plaintext...), mac...)
	ciphertext := make([]byte, len(tail))
	if err := cipher.CTR(e, iv, tail, ciphertext); err != nil {
		return nil, gosterr.Wrap("container.Wrap", gosterr.Signature, err)
	}

	return append(append([]byte{}, iv...), ciphertext...), nil
}

// Unwrap inverts Wrap: decrypt the tail under CTR(KEK, iv), recompute
// CMAC(KIM, iv||decrypted_body), and constant-time-compare it against the
// trailing block. On mismatch it fails with not_equal_data, per spec.md
// §4.5.
func Unwrap(kp KeyPair, wrapped []byte) ([]byte, error) {
	e, err := cipher.New(oid.Kuznyechik)
	if err != nil {
		return nil, gosterr.Wrap("container.Unwrap", gosterr.OIDEngine, err)
	}
	blockSize := e.BlockSize()
	ivSize := blockSize / 2
	if len(wrapped) < ivSize+blockSize {
		return nil, gosterr.New("container.Unwrap", gosterr.WrongLength)
	}
	iv := wrapped[:ivSize]
	ciphertext := wrapped[ivSize:]

	if err := e.SetKey(kp.KEK[:]); err != nil {
		return nil, gosterr.Wrap("container.Unwrap", gosterr.WrongKeyLength, err)
	}
	tail := make([]byte, len(ciphertext))
	if err := cipher.CTR(e, iv, ciphertext, tail); err != nil {
		return nil, gosterr.Wrap("container.Unwrap", gosterr.Signature, err)
	}

	plaintext := tail[:len(tail)-blockSize]
	gotMAC := tail[len(tail)-blockSize:]

	if err := e.SetKey(kp.KIM[:]); err != nil {
		return nil, gosterr.Wrap("container.Unwrap", gosterr.WrongKeyLength, err)
	}
	macInput := append(append([]byte{}, iv...), plaintext...)
	wantMAC, err := cipher.CMAC(e, macInput, blockSize)
	if err != nil {
		return nil, gosterr.Wrap("container.Unwrap", gosterr.Signature, err)
	}

	if !constantTimeEqual(wantMAC, gotMAC) {
		return nil, gosterr.New("container.Unwrap", gosterr.NotEqualData)
	}
	return plaintext, nil
}

func constantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
