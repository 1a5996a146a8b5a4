package container

import (
	"crypto/rand"
	"time"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

// Options configures a Wrap/Unwrap call at the container layer (as
// opposed to the raw KExp15 primitives in kexp15.go).
type Options struct {
	Iterations int // PBKDF2 iteration count; ignored if AllowInsecureDevelopmentKEK

	// AllowInsecureDevelopmentKEK opts into the fixed-passphrase
	// development path (spec.md §4.5); it must be set explicitly, never
	// defaulted to true.
	AllowInsecureDevelopmentKEK bool
}

// SymmetricKeyContainer is the decoded content of a Container holding a
// wrapped symmetric key.
type SymmetricKeyContainer struct {
	KeyNumber [32]byte
	Label     string
	Resource  Resource
	Wrapped   []byte // plaintext key material: BuildSymmetric wraps it, ParseSymmetric returns it unwrapped
}

// Resource is the {type, counter, validity} structure spec.md §4.5 names.
type Resource struct {
	Type      int32
	Counter   int32
	NotBefore time.Time
	NotAfter  time.Time
}

// BuildSymmetric encodes a Container SEQUENCE wrapping a symmetric key,
// per spec.md §4.5's outer-structure and content-body layout.
func BuildSymmetric(password []byte, salt []byte, opts Options, c SymmetricKeyContainer) (*asn1.Tree, error) {
	kp, err := keyPairFor(password, salt, opts)
	if err != nil {
		return nil, err
	}
	wrapped, err := Wrap(kp, c.Wrapped)
	if err != nil {
		return nil, err
	}
	c.Wrapped = wrapped

	tr := asn1.NewTree()
	root := tr.AddSequence(asn1.NoHandle)
	if _, err := tr.AddOID(root, string(oid.Container)); err != nil {
		return nil, err
	}

	basicKey := tr.AddSequence(root)
	basicKeyOID := oid.PBKDF2BasicKey
	if opts.AllowInsecureDevelopmentKEK {
		basicKeyOID = oid.NoBasicKey
	}
	if _, err := tr.AddOID(basicKey, string(basicKeyOID)); err != nil {
		return nil, err
	}
	tr.AddOctetString(basicKey, salt)
	tr.AddUint32(basicKey, uint32(opts.Iterations))

	content := tr.AddSequence(root)
	if _, err := tr.AddOID(content, string(oid.SymmetricKeyContent)); err != nil {
		return nil, err
	}
	body := tr.AddSequence(content)
	tr.AddOctetString(body, c.KeyNumber[:])
	tr.AddUTF8String(body, c.Label)

	res := tr.AddSequence(body)
	tr.AddUint32(res, uint32(c.Resource.Type))
	tr.AddUint32(res, uint32(c.Resource.Counter))
	validity := tr.AddSequence(res)
	tr.AddUTCTime(validity, c.Resource.NotBefore)
	tr.AddUTCTime(validity, c.Resource.NotAfter)

	tr.AddOctetString(body, c.Wrapped)

	return tr, nil
}

// ParseSymmetric decodes a Container tree built by BuildSymmetric and
// unwraps its content with the given password.
func ParseSymmetric(password []byte, opts Options, tr *asn1.Tree) (SymmetricKeyContainer, error) {
	var out SymmetricKeyContainer
	root := tr.Root()
	children := tr.Children(root)
	if len(children) != 3 {
		return out, gosterr.New("container.ParseSymmetric", gosterr.InvalidASN1Count)
	}

	basicKey := children[1]
	bkChildren := tr.Children(basicKey)
	if len(bkChildren) != 3 {
		return out, gosterr.New("container.ParseSymmetric", gosterr.InvalidASN1Count)
	}
	salt, err := tr.OctetString(bkChildren[1])
	if err != nil {
		return out, err
	}
	iterations, err := tr.Uint32(bkChildren[2])
	if err != nil {
		return out, err
	}
	localOpts := opts
	localOpts.Iterations = int(iterations)

	kp, err := keyPairFor(password, salt, localOpts)
	if err != nil {
		return out, err
	}

	content := children[2]
	contentChildren := tr.Children(content)
	if len(contentChildren) != 2 {
		return out, gosterr.New("container.ParseSymmetric", gosterr.InvalidASN1Count)
	}
	body := contentChildren[1]
	bodyChildren := tr.Children(body)
	if len(bodyChildren) != 4 {
		return out, gosterr.New("container.ParseSymmetric", gosterr.InvalidASN1Count)
	}

	keyNumber, err := tr.OctetString(bodyChildren[0])
	if err != nil {
		return out, err
	}
	copy(out.KeyNumber[:], keyNumber)

	label, err := tr.UTF8String(bodyChildren[1])
	if err != nil {
		return out, err
	}
	out.Label = label

	resChildren := tr.Children(bodyChildren[2])
	if len(resChildren) != 3 {
		return out, gosterr.New("container.ParseSymmetric", gosterr.InvalidASN1Count)
	}
	resType, err := tr.Uint32(resChildren[0])
	if err != nil {
		return out, err
	}
	counter, err := tr.Uint32(resChildren[1])
	if err != nil {
		return out, err
	}
	validityChildren := tr.Children(resChildren[2])
	if len(validityChildren) != 2 {
		return out, gosterr.New("container.ParseSymmetric", gosterr.InvalidASN1Count)
	}
	notBefore, err := tr.UTCTime(validityChildren[0])
	if err != nil {
		return out, err
	}
	notAfter, err := tr.UTCTime(validityChildren[1])
	if err != nil {
		return out, err
	}
	out.Resource = Resource{
		Type: int32(resType), Counter: int32(counter),
		NotBefore: notBefore, NotAfter: notAfter,
	}

	wrapped, err := tr.OctetString(bodyChildren[3])
	if err != nil {
		return out, err
	}
	plaintext, err := Unwrap(kp, wrapped)
	if err != nil {
		return out, err
	}
	out.Wrapped = plaintext
	return out, nil
}

func keyPairFor(password, salt []byte, opts Options) (KeyPair, error) {
	if opts.AllowInsecureDevelopmentKEK {
		return DevelopmentKeyPair(salt), nil
	}
	if opts.Iterations <= 0 {
		return KeyPair{}, gosterr.New("container.keyPairFor", gosterr.InvalidValue)
	}
	return DeriveKeyPair(password, salt, opts.Iterations), nil
}

// NewSalt returns a fresh random 32-octet salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}
