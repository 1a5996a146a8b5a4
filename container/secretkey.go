package container

import (
	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/curve"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
	"github.com/gostcrypto/gost/signature"
)

// SecretKeyContainer is the decoded content of a Container holding a
// wrapped GOST R 34.10-2012 masked secret key, the asymmetric counterpart
// to SymmetricKeyContainer. spec.md §4.5 names secret-key-content
// alongside symmetric-key-content as a required container OID marker;
// this schema mirrors the symmetric one field-for-field, substituting the
// masked-scalar triple (maskedD || invMask || icode) for a raw key as the
// wrapped payload.
type SecretKeyContainer struct {
	CurveOID  oid.OID
	SignOID   oid.OID // oid.SignWithStreebog256 or oid.SignWithStreebog512
	KeyNumber [32]byte
	Label     string
	Resource  Resource
	ICodeLen  int // octet length of the stored icode, needed to split the unwrapped payload
}

// BuildSecretKey encodes a Container SEQUENCE wrapping sk's masked
// scalar, per spec.md §4.5's outer-structure and content-body layout,
// generalized from BuildSymmetric to the secret-key-content schema. sk's
// own Label/KeyNumber/Resource fields are not read from sk directly;
// callers supply them via meta so this function stays a pure encoder.
func BuildSecretKey(password []byte, salt []byte, opts Options, sk *signature.SignKey, meta SecretKeyContainer) (*asn1.Tree, error) {
	kp, err := keyPairFor(password, salt, opts)
	if err != nil {
		return nil, err
	}

	maskedD, invMask, icode := sk.MaskedScalar()
	plaintext := append(append(append([]byte{}, maskedD...), invMask...), icode...)
	wrapped, err := Wrap(kp, plaintext)
	if err != nil {
		return nil, err
	}
	meta.ICodeLen = len(icode)

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
	if _, err := tr.AddOID(content, string(oid.SecretKeyContent)); err != nil {
		return nil, err
	}
	body := tr.AddSequence(content)
	if _, err := tr.AddOID(body, string(sk.Curve.OID)); err != nil {
		return nil, err
	}
	if _, err := tr.AddOID(body, string(sk.OID)); err != nil {
		return nil, err
	}
	tr.AddOctetString(body, meta.KeyNumber[:])
	tr.AddUTF8String(body, meta.Label)
	tr.AddUint32(body, uint32(meta.ICodeLen))

	res := tr.AddSequence(body)
	tr.AddUint32(res, uint32(meta.Resource.Type))
	tr.AddUint32(res, uint32(meta.Resource.Counter))
	validity := tr.AddSequence(res)
	tr.AddUTCTime(validity, meta.Resource.NotBefore)
	tr.AddUTCTime(validity, meta.Resource.NotAfter)

	tr.AddOctetString(body, wrapped)

	return tr, nil
}

// ParseSecretKey decodes a Container tree built by BuildSecretKey and
// unwraps it, resolving the named curve from the embedded curve OID and
// reconstructing the masked SignKey via signature.ImportMaskedSignKey
// (which re-validates the integrity code before returning).
func ParseSecretKey(password []byte, opts Options, tr *asn1.Tree) (*signature.SignKey, SecretKeyContainer, error) {
	var meta SecretKeyContainer
	root := tr.Root()
	children := tr.Children(root)
	if len(children) != 3 {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.InvalidASN1Count)
	}

	basicKey := children[1]
	bkChildren := tr.Children(basicKey)
	if len(bkChildren) != 3 {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.InvalidASN1Count)
	}
	salt, err := tr.OctetString(bkChildren[1])
	if err != nil {
		return nil, meta, err
	}
	iterations, err := tr.Uint32(bkChildren[2])
	if err != nil {
		return nil, meta, err
	}
	localOpts := opts
	localOpts.Iterations = int(iterations)

	kp, err := keyPairFor(password, salt, localOpts)
	if err != nil {
		return nil, meta, err
	}

	content := children[2]
	contentChildren := tr.Children(content)
	if len(contentChildren) != 2 {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.InvalidASN1Count)
	}
	body := contentChildren[1]
	bodyChildren := tr.Children(body)
	if len(bodyChildren) != 7 {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.InvalidASN1Count)
	}

	curveOIDStr, err := tr.OID(bodyChildren[0])
	if err != nil {
		return nil, meta, err
	}
	meta.CurveOID = oid.OID(curveOIDStr)
	signOIDStr, err := tr.OID(bodyChildren[1])
	if err != nil {
		return nil, meta, err
	}
	meta.SignOID = oid.OID(signOIDStr)

	keyNumber, err := tr.OctetString(bodyChildren[2])
	if err != nil {
		return nil, meta, err
	}
	copy(meta.KeyNumber[:], keyNumber)

	label, err := tr.UTF8String(bodyChildren[3])
	if err != nil {
		return nil, meta, err
	}
	meta.Label = label

	icodeLen, err := tr.Uint32(bodyChildren[4])
	if err != nil {
		return nil, meta, err
	}
	meta.ICodeLen = int(icodeLen)

	resChildren := tr.Children(bodyChildren[5])
	if len(resChildren) != 3 {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.InvalidASN1Count)
	}
	resType, err := tr.Uint32(resChildren[0])
	if err != nil {
		return nil, meta, err
	}
	counter, err := tr.Uint32(resChildren[1])
	if err != nil {
		return nil, meta, err
	}
	validityChildren := tr.Children(resChildren[2])
	if len(validityChildren) != 2 {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.InvalidASN1Count)
	}
	notBefore, err := tr.UTCTime(validityChildren[0])
	if err != nil {
		return nil, meta, err
	}
	notAfter, err := tr.UTCTime(validityChildren[1])
	if err != nil {
		return nil, meta, err
	}
	meta.Resource = Resource{
		Type: int32(resType), Counter: int32(counter),
		NotBefore: notBefore, NotAfter: notAfter,
	}

	wrapped, err := tr.OctetString(bodyChildren[6])
	if err != nil {
		return nil, meta, err
	}
	plaintext, err := Unwrap(kp, wrapped)
	if err != nil {
		return nil, meta, err
	}

	c, err := curve.Named(meta.CurveOID)
	if err != nil {
		return nil, meta, err
	}
	limbWidth := c.Q.Limbs * 8
	if len(plaintext) != 2*limbWidth+meta.ICodeLen {
		return nil, meta, gosterr.New("container.ParseSecretKey", gosterr.WrongLength)
	}
	maskedD := plaintext[:limbWidth]
	invMask := plaintext[limbWidth : 2*limbWidth]
	icode := plaintext[2*limbWidth:]

	sk, err := signature.ImportMaskedSignKey(c, meta.SignOID, maskedD, invMask, icode,
		meta.Label, meta.KeyNumber, notBefore, notAfter, 0)
	if err != nil {
		return nil, meta, err
	}
	return sk, meta, nil
}
