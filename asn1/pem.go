package asn1

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gostcrypto/gost/gosterr"
)

// Label names the PEM armor type, chosen from the container content tag
// per spec.md §4.4.
type Label string

const (
	LabelCertificate        Label = "CERTIFICATE"
	LabelCertificateRequest Label = "CERTIFICATE REQUEST"
	LabelPrivateKey         Label = "PRIVATE KEY"
	LabelEncryptedSymmetric Label = "ENCRYPTED SYMMETRIC KEY"
	LabelEncryptedData      Label = "ENCRYPTED DATA"
	LabelPlainData          Label = "PLAIN DATA"
	LabelPKCS7              Label = "PKCS7"
)

const pemLineWidth = 64

// EncodePEM wraps der as base64 in 64-character lines between
// "-----BEGIN <label>-----" and "-----END <label>-----" markers.
func EncodePEM(label Label, der []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(der)
	var b strings.Builder
	fmt.Fprintf(&b, "-----BEGIN %s-----\n", label)
	for i := 0; i < len(encoded); i += pemLineWidth {
		end := i + pemLineWidth
		if end > len(encoded) {
			end = len(encoded)
		}
		b.WriteString(encoded[i:end])
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "-----END %s-----\n", label)
	return []byte(b.String())
}

// DecodePEM extracts the label and DER payload from a PEM-armored block.
func DecodePEM(data []byte) (Label, []byte, error) {
	s := string(data)
	beginIdx := strings.Index(s, "-----BEGIN ")
	if beginIdx < 0 {
		return "", nil, gosterr.New("asn1.DecodePEM", gosterr.WrongASN1Decode)
	}
	rest := s[beginIdx+len("-----BEGIN "):]
	labelEnd := strings.Index(rest, "-----")
	if labelEnd < 0 {
		return "", nil, gosterr.New("asn1.DecodePEM", gosterr.WrongASN1Decode)
	}
	label := Label(rest[:labelEnd])
	body := rest[labelEnd+len("-----"):]

	endMarker := fmt.Sprintf("-----END %s-----", label)
	endIdx := strings.Index(body, endMarker)
	if endIdx < 0 {
		return "", nil, gosterr.New("asn1.DecodePEM", gosterr.WrongASN1Decode)
	}
	b64 := strings.Join(strings.Fields(body[:endIdx]), "")
	der, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, gosterr.Wrap("asn1.DecodePEM", gosterr.WrongASN1Decode, err)
	}
	return label, der, nil
}

// Read tries raw DER first; on failure it falls back to PEM, per
// spec.md §4.4's import contract. On success it returns the parsed tree
// and, if the input was PEM, the armor label (empty otherwise).
func Read(data []byte, opts DecodeOptions) (*Tree, Label, error) {
	if tree, err := DecodeDERExact(data, opts); err == nil {
		return tree, "", nil
	}
	label, der, err := DecodePEM(data)
	if err != nil {
		return nil, "", gosterr.Wrap("asn1.Read", gosterr.WrongASN1Decode, err)
	}
	tree, err := DecodeDERExact(der, opts)
	if err != nil {
		return nil, "", err
	}
	return tree, label, nil
}
