package x509gost

import (
	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/oid"
)

// KeyUsage is a 9-bit mask, in the order and bit positions RFC 5280
// defines, per spec.md §4.6.
type KeyUsage uint16

const (
	KeyUsageDigitalSignature KeyUsage = 1 << iota
	KeyUsageContentCommitment
	KeyUsageKeyEncipherment
	KeyUsageDataEncipherment
	KeyUsageKeyAgreement
	KeyUsageKeyCertSign
	KeyUsageCRLSign
	KeyUsageEncipherOnly
	KeyUsageDecipherOnly
)

// BasicConstraints is the cA/pathLen extension value.
type BasicConstraints struct {
	CA      bool
	PathLen *int // nil when CA is false, per spec.md ("pathLen present only when cA=true")
}

// AuthorityKeyIdentifier binds a certificate to its issuer's key.
type AuthorityKeyIdentifier struct {
	Fingerprint [32]byte
	IssuerName  Name // optional; nil if absent
	SerialHex   string
}

// Extensions collects the extension values a TBSCertificate carries.
type Extensions struct {
	SubjectKeyIdentifier   *[32]byte
	BasicConstraints       *BasicConstraints
	KeyUsage               *KeyUsage
	AuthorityKeyIdentifier *AuthorityKeyIdentifier
	SecretKeyNumber        *[32]byte
	ExtKeyUsage            []oid.OID
}

// wrapExtensionOctets encodes inner as the content of an extnValue OCTET
// STRING, per X.509 convention ("every extension value is wrapped in an
// OCTET STRING whose content is the DER encoding of the inner
// structure").
func wrapExtensionOctets(tr *asn1.Tree, parent asn1.Handle, extnOID oid.OID, critical bool, inner *asn1.Tree) error {
	der, err := inner.EncodeDER()
	if err != nil {
		return err
	}
	ext := tr.AddSequence(parent)
	if _, err := tr.AddOID(ext, string(extnOID)); err != nil {
		return err
	}
	if critical {
		tr.AddBool(ext, true)
	}
	tr.AddOctetString(ext, der)
	return nil
}

// Build encodes e as a SEQUENCE OF Extension under the [3]-tagged
// extensions wrapper parent already points at.
func (e Extensions) Build(tr *asn1.Tree, parent asn1.Handle) error {
	if e.SubjectKeyIdentifier != nil {
		inner := asn1.NewTree()
		inner.AddOctetString(asn1.NoHandle, e.SubjectKeyIdentifier[:])
		if err := wrapExtensionOctets(tr, parent, oid.ExtSubjectKeyIdentifier, false, inner); err != nil {
			return err
		}
	}
	if e.BasicConstraints != nil {
		inner := asn1.NewTree()
		seq := inner.AddSequence(asn1.NoHandle)
		inner.AddBool(seq, e.BasicConstraints.CA)
		if e.BasicConstraints.CA && e.BasicConstraints.PathLen != nil {
			inner.AddUint32(seq, uint32(*e.BasicConstraints.PathLen))
		}
		if err := wrapExtensionOctets(tr, parent, oid.ExtBasicConstraints, true, inner); err != nil {
			return err
		}
	}
	if e.KeyUsage != nil {
		inner := asn1.NewTree()
		bits := keyUsageBits(*e.KeyUsage)
		if _, err := inner.AddBitString(asn1.NoHandle, bits); err != nil {
			return err
		}
		if err := wrapExtensionOctets(tr, parent, oid.ExtKeyUsage, true, inner); err != nil {
			return err
		}
	}
	if e.AuthorityKeyIdentifier != nil {
		inner := asn1.NewTree()
		seq := inner.AddSequence(asn1.NoHandle)
		inner.AddContextPrimitive(seq, 0, e.AuthorityKeyIdentifier.Fingerprint[:])
		if err := wrapExtensionOctets(tr, parent, oid.ExtAuthorityKeyIdentifier, false, inner); err != nil {
			return err
		}
	}
	if e.SecretKeyNumber != nil {
		inner := asn1.NewTree()
		inner.AddOctetString(asn1.NoHandle, e.SecretKeyNumber[:])
		if err := wrapExtensionOctets(tr, parent, oid.ExtSecretKeyNumber, false, inner); err != nil {
			return err
		}
	}
	if len(e.ExtKeyUsage) > 0 {
		inner := asn1.NewTree()
		seq := inner.AddSequence(asn1.NoHandle)
		for _, o := range e.ExtKeyUsage {
			if _, err := inner.AddOID(seq, string(o)); err != nil {
				return err
			}
		}
		if err := wrapExtensionOctets(tr, parent, oid.ExtExtKeyUsage, false, inner); err != nil {
			return err
		}
	}
	return nil
}

func keyUsageBits(ku KeyUsage) asn1.BitString {
	var b byte
	for i := 0; i < 8; i++ {
		if ku&(1<<uint(i)) != 0 {
			b |= 1 << uint(7-i)
		}
	}
	if ku&KeyUsageDecipherOnly != 0 {
		return asn1.BitString{Unused: 7, Bytes: []byte{b, 0x80}}
	}
	return asn1.BitString{Unused: 0, Bytes: []byte{b}}
}

func parseKeyUsageBits(bs asn1.BitString) KeyUsage {
	var ku KeyUsage
	if len(bs.Bytes) == 0 {
		return 0
	}
	for i := 0; i < 8; i++ {
		if bs.Bytes[0]&(1<<uint(7-i)) != 0 {
			ku |= 1 << uint(i)
		}
	}
	if len(bs.Bytes) > 1 && bs.Bytes[1]&0x80 != 0 {
		ku |= KeyUsageDecipherOnly
	}
	return ku
}

// ParseExtensions decodes the [3]-tagged extensions SEQUENCE at h.
func ParseExtensions(tr *asn1.Tree, h asn1.Handle) (Extensions, error) {
	var out Extensions
	for _, ext := range tr.Children(h) {
		parts := tr.Children(ext)
		if len(parts) < 2 {
			return out, gosterr.New("x509gost.ParseExtensions", gosterr.InvalidASN1Count)
		}
		extnOIDStr, err := tr.OID(parts[0])
		if err != nil {
			return out, err
		}
		// Skip over an optional critical BOOLEAN to find the OCTET
		// STRING payload.
		valueHandle := parts[len(parts)-1]
		octets, err := tr.OctetString(valueHandle)
		if err != nil {
			return out, err
		}
		inner, err := asn1.DecodeDERExact(octets, asn1.DecodeOptions{})
		if err != nil {
			return out, err
		}

		switch oid.OID(extnOIDStr) {
		case oid.ExtSubjectKeyIdentifier:
			v, err := inner.OctetString(inner.Root())
			if err != nil {
				return out, err
			}
			var fp [32]byte
			copy(fp[:], v)
			out.SubjectKeyIdentifier = &fp
		case oid.ExtBasicConstraints:
			children := inner.Children(inner.Root())
			if len(children) == 0 {
				return out, gosterr.New("x509gost.ParseExtensions", gosterr.InvalidASN1Count)
			}
			ca, err := inner.Bool(children[0])
			if err != nil {
				return out, err
			}
			bc := &BasicConstraints{CA: ca}
			if ca && len(children) > 1 {
				pl, err := inner.Uint32(children[1])
				if err != nil {
					return out, err
				}
				v := int(pl)
				bc.PathLen = &v
			}
			out.BasicConstraints = bc
		case oid.ExtKeyUsage:
			bits, err := inner.BitStringValue(inner.Root())
			if err != nil {
				return out, err
			}
			ku := parseKeyUsageBits(bits)
			out.KeyUsage = &ku
		case oid.ExtAuthorityKeyIdentifier:
			children := inner.Children(inner.Root())
			aki := &AuthorityKeyIdentifier{}
			for _, c := range children {
				n := inner.NodeAt(c)
				if n.Tag.Number == 0 {
					copy(aki.Fingerprint[:], n.Payload)
				}
			}
			out.AuthorityKeyIdentifier = aki
		case oid.ExtSecretKeyNumber:
			v, err := inner.OctetString(inner.Root())
			if err != nil {
				return out, err
			}
			var num [32]byte
			copy(num[:], v)
			out.SecretKeyNumber = &num
		case oid.ExtExtKeyUsage:
			children := inner.Children(inner.Root())
			for _, c := range children {
				o, err := inner.OID(c)
				if err != nil {
					return out, err
				}
				out.ExtKeyUsage = append(out.ExtKeyUsage, oid.OID(o))
			}
		}
	}
	return out, nil
}
