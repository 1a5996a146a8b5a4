// Package asn1 implements the BER/DER tree model this module's container
// and certificate layers are built on: one-octet tags, definite-length
// encoding, an arena-backed node tree, DER encode/decode, PEM framing, and
// typed accessors.
//
// Per spec.md §4.4/Non-goals: only the one-octet (low-tag-number) tag form
// is produced or accepted; high-tag-number form (0x1F continuation) is
// rejected on decode. Only definite lengths are supported; BER indefinite
// length is rejected. Negative INTEGER values are rejected by design.
package asn1

import "github.com/gostcrypto/gost/gosterr"

// Class is the top two bits of a tag octet.
type Class byte

const (
	ClassUniversal   Class = 0x00
	ClassApplication Class = 0x40
	ClassContext     Class = 0x80
	ClassPrivate     Class = 0xC0
)

// Form is bit 5 of a tag octet: primitive or constructed.
type Form byte

const (
	FormPrimitive   Form = 0x00
	FormConstructed Form = 0x20
)

// Universal tag numbers used by the typed accessors.
const (
	TagBoolean         = 0x01
	TagInteger         = 0x02
	TagBitString       = 0x03
	TagOctetString     = 0x04
	TagNull            = 0x05
	TagOID             = 0x06
	TagUTF8String      = 0x0C
	TagSequence        = 0x10
	TagSet             = 0x11
	TagNumericString   = 0x12
	TagPrintableString = 0x13
	TagIA5String       = 0x16
	TagUTCTime         = 0x17
	TagGeneralizedTime = 0x18
)

// Tag is a decoded one-octet ASN.1 tag.
type Tag struct {
	Class  Class
	Form   Form
	Number byte // 0..30
}

// Octet re-encodes t as its single wire octet.
func (t Tag) Octet() byte {
	return byte(t.Class) | byte(t.Form) | t.Number
}

// DecodeTag parses a single tag octet. High-tag-number form (low five bits
// all set) is rejected, per spec.md §4.4.
func DecodeTag(b byte) (Tag, error) {
	number := b & 0x1F
	if number == 0x1F {
		return Tag{}, gosterr.New("asn1.DecodeTag", gosterr.InvalidASN1Tag)
	}
	return Tag{
		Class:  Class(b & 0xC0),
		Form:   Form(b & 0x20),
		Number: number,
	}, nil
}

// Universal builds a universal-class tag with the given form and number.
func Universal(form Form, number byte) Tag {
	return Tag{Class: ClassUniversal, Form: form, Number: number}
}

// ContextPrimitive builds a context-specific primitive tag, as used by
// implicitly-tagged extension values.
func ContextPrimitive(number byte) Tag {
	return Tag{Class: ClassContext, Form: FormPrimitive, Number: number}
}

// ContextConstructed builds a context-specific constructed tag.
func ContextConstructed(number byte) Tag {
	return Tag{Class: ClassContext, Form: FormConstructed, Number: number}
}
