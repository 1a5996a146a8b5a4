// Package x509gost implements the X.509-like certificate and PKCS#10-
// shaped certificate signing request layer: Name trees, TBSCertificate/
// CSR build and parse, the standard extensions, and the signing/
// verification preconditions spec.md §4.6 requires.
package x509gost

import (
	"bytes"

	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/oid"
)

// NameAttribute is one RDN {oid, value} pair, e.g. {CommonName, "Alice"}.
type NameAttribute struct {
	OID   oid.OID
	Value string
}

// Name is an ordered list of single-attribute RDNs, matching the subject/
// issuer Name subtree spec.md §3 names.
type Name []NameAttribute

// Build encodes name as a SEQUENCE OF SET OF SEQUENCE { OID, UTF8String }
// under parent, and returns the new SEQUENCE's handle.
func (name Name) Build(tr *asn1.Tree, parent asn1.Handle) (asn1.Handle, error) {
	seq := tr.AddSequence(parent)
	for _, attr := range name {
		set := tr.AddSet(seq)
		rdn := tr.AddSequence(set)
		if _, err := tr.AddOID(rdn, string(attr.OID)); err != nil {
			return asn1.NoHandle, err
		}
		tr.AddUTF8String(rdn, attr.Value)
	}
	return seq, nil
}

// ParseName decodes a Name subtree built by Build.
func ParseName(tr *asn1.Tree, h asn1.Handle) (Name, error) {
	var name Name
	for _, set := range tr.Children(h) {
		rdns := tr.Children(set)
		if len(rdns) != 1 {
			continue
		}
		attrParts := tr.Children(rdns[0])
		if len(attrParts) != 2 {
			continue
		}
		oidStr, err := tr.OID(attrParts[0])
		if err != nil {
			return nil, err
		}
		val, err := tr.UTF8String(attrParts[1])
		if err != nil {
			return nil, err
		}
		name = append(name, NameAttribute{OID: oid.OID(oidStr), Value: val})
	}
	return name, nil
}

// Equal reports whether two names are structurally equal (same DER
// encoding), per SPEC_FULL.md's resolution of the source's CSR-verifier
// typo: comparisons use structural DER equality rather than reproducing
// the ambiguous field the original compared.
func (name Name) Equal(other Name) bool {
	a := encodeNameStandalone(name)
	b := encodeNameStandalone(other)
	return bytes.Equal(a, b)
}

func encodeNameStandalone(name Name) []byte {
	tr := asn1.NewTree()
	h, err := name.Build(tr, asn1.NoHandle)
	if err != nil {
		return nil
	}
	_ = h
	der, err := tr.EncodeDER()
	if err != nil {
		return nil
	}
	return der
}

// CommonName is a convenience constructor for a single-attribute Name.
func CommonName(cn string) Name {
	return Name{{OID: oid.CommonName, Value: cn}}
}
