package asn1

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gostcrypto/gost/gosterr"
)

// Bool reads a BOOLEAN node: the octet 0x00 is false, any other octet is
// true (the DER-canonical encoding uses 0xFF, but this accessor follows
// spec.md's permissive "any other -> true" rule rather than rejecting
// non-canonical encodings).
func (t *Tree) Bool(h Handle) (bool, error) {
	n := t.node(h)
	if n.Tag.Number != TagBoolean || n.IsConstructed() {
		return false, gosterr.New("asn1.Bool", gosterr.InvalidASN1Tag)
	}
	if len(n.Payload) != 1 {
		return false, gosterr.New("asn1.Bool", gosterr.InvalidASN1Length)
	}
	return n.Payload[0] != 0x00, nil
}

// Uint32 reads an INTEGER node as an unsigned 32-bit value: values needing
// more than 5 octets are rejected, a 5-octet value must have a leading
// 0x00 sign octet, and the sign bit of a 4-octet value must be clear
// (otherwise it is a negative value, rejected by design per spec.md's
// Non-goals).
func (t *Tree) Uint32(h Handle) (uint32, error) {
	n := t.node(h)
	if n.Tag.Number != TagInteger || n.IsConstructed() {
		return 0, gosterr.New("asn1.Uint32", gosterr.InvalidASN1Tag)
	}
	b := n.Payload
	if len(b) == 0 || len(b) > 5 {
		return 0, gosterr.New("asn1.Uint32", gosterr.InvalidASN1Length)
	}
	if len(b) == 5 {
		if b[0] != 0x00 {
			return 0, gosterr.New("asn1.Uint32", gosterr.InvalidASN1Content)
		}
		b = b[1:]
	} else if b[0]&0x80 != 0 {
		return 0, gosterr.New("asn1.Uint32", gosterr.InvalidASN1Content)
	}
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v, nil
}

// BigInt reads an INTEGER node of up to maxOctets+1 octets (the extra
// octet accommodates a leading sign/pad octet) into a big-endian byte
// slice with any leading zero sign octet stripped. Negative values (high
// bit of the first retained octet set without a stripped leading zero
// preceding it) are rejected.
func (t *Tree) BigInt(h Handle, maxOctets int) ([]byte, error) {
	n := t.node(h)
	if n.Tag.Number != TagInteger || n.IsConstructed() {
		return nil, gosterr.New("asn1.BigInt", gosterr.InvalidASN1Tag)
	}
	b := n.Payload
	if len(b) == 0 || len(b) > maxOctets+1 {
		return nil, gosterr.New("asn1.BigInt", gosterr.InvalidASN1Length)
	}
	if len(b) > 1 && b[0] == 0x00 {
		b = b[1:]
	} else if b[0]&0x80 != 0 {
		return nil, gosterr.New("asn1.BigInt", gosterr.InvalidASN1Content)
	}
	return b, nil
}

// OctetString returns a zero-copy view of an OCTET STRING payload.
func (t *Tree) OctetString(h Handle) ([]byte, error) {
	n := t.node(h)
	if n.Tag.Number != TagOctetString || n.IsConstructed() {
		return nil, gosterr.New("asn1.OctetString", gosterr.InvalidASN1Tag)
	}
	return n.Payload, nil
}

type stringKind int

const (
	kindUTF8 stringKind = iota
	kindIA5
	kindPrintable
	kindNumeric
)

func validateString(kind stringKind, b []byte) error {
	switch kind {
	case kindIA5:
		for _, c := range b {
			if c > 127 {
				return gosterr.New("asn1.String", gosterr.InvalidASN1Content)
			}
		}
	case kindPrintable:
		for _, c := range b {
			if !isPrintableChar(c) {
				return gosterr.New("asn1.String", gosterr.InvalidASN1Content)
			}
		}
	case kindNumeric:
		for _, c := range b {
			if !(c == ' ' || (c >= '0' && c <= '9')) {
				return gosterr.New("asn1.String", gosterr.InvalidASN1Content)
			}
		}
	case kindUTF8:
		// accepted as-is; Go strings are UTF-8 native.
	}
	return nil
}

func isPrintableChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}

func (t *Tree) stringValue(h Handle, tag byte, kind stringKind) (string, error) {
	n := t.node(h)
	if n.Tag.Number != tag || n.IsConstructed() {
		return "", gosterr.New("asn1.String", gosterr.InvalidASN1Tag)
	}
	if err := validateString(kind, n.Payload); err != nil {
		return "", err
	}
	return string(n.Payload), nil
}

func (t *Tree) UTF8String(h Handle) (string, error) {
	return t.stringValue(h, TagUTF8String, kindUTF8)
}

func (t *Tree) IA5String(h Handle) (string, error) {
	return t.stringValue(h, TagIA5String, kindIA5)
}

func (t *Tree) PrintableString(h Handle) (string, error) {
	return t.stringValue(h, TagPrintableString, kindPrintable)
}

func (t *Tree) NumericString(h Handle) (string, error) {
	return t.stringValue(h, TagNumericString, kindNumeric)
}

// BitString is a BIT STRING's decoded value: the number of unused bits
// (0..7) in the final octet, and the octet payload itself.
type BitString struct {
	Unused int
	Bytes  []byte
}

func (t *Tree) BitStringValue(h Handle) (BitString, error) {
	n := t.node(h)
	if n.Tag.Number != TagBitString || n.IsConstructed() {
		return BitString{}, gosterr.New("asn1.BitString", gosterr.InvalidASN1Tag)
	}
	if len(n.Payload) == 0 {
		return BitString{}, gosterr.New("asn1.BitString", gosterr.InvalidASN1Length)
	}
	unused := int(n.Payload[0])
	if unused > 7 {
		return BitString{}, gosterr.New("asn1.BitString", gosterr.InvalidASN1Content)
	}
	return BitString{Unused: unused, Bytes: n.Payload[1:]}, nil
}

// OID decodes an OBJECT IDENTIFIER node into its dotted-decimal string.
func (t *Tree) OID(h Handle) (string, error) {
	n := t.node(h)
	if n.Tag.Number != TagOID || n.IsConstructed() {
		return "", gosterr.New("asn1.OID", gosterr.InvalidASN1Tag)
	}
	b := n.Payload
	if len(b) == 0 {
		return "", gosterr.New("asn1.OID", gosterr.InvalidASN1Length)
	}

	var arcs []uint64
	var cur uint64
	for i, c := range b {
		cur = cur<<7 | uint64(c&0x7F)
		if c&0x80 == 0 {
			arcs = append(arcs, cur)
			cur = 0
		} else if i == len(b)-1 {
			return "", gosterr.New("asn1.OID", gosterr.InvalidASN1Content)
		}
	}
	if len(arcs) == 0 {
		return "", gosterr.New("asn1.OID", gosterr.InvalidASN1Content)
	}

	first := arcs[0] / 40
	second := arcs[0] % 40
	if first > 2 {
		return "", gosterr.New("asn1.OID", gosterr.InvalidASN1Content)
	}
	if first <= 1 && second > 32 {
		return "", gosterr.New("asn1.OID", gosterr.InvalidASN1Content)
	}

	parts := make([]string, 0, len(arcs)+1)
	parts = append(parts, strconv.FormatUint(first, 10), strconv.FormatUint(second, 10))
	for _, a := range arcs[1:] {
		parts = append(parts, strconv.FormatUint(a, 10))
	}
	return strings.Join(parts, "."), nil
}

// UTCTime parses a UTCTime node ("YYMMDDhhmmssZ") and returns it as a UTC
// time.Time. The two-digit year is interpreted unconditionally as
// 2000+YY, matching the original source's rule (ak_asn1.c,
// `st.tm_year = 100 + atoi(...)`) rather than Go's implicit 1969/2068
// pivot for the "06" layout verb, so a YY of 95 decodes to 2095, not
// 1995, keeping this accessor's century rule independent of wall-clock
// date. Per SPEC_FULL.md's resolution of the source's mixed UTC/local-
// time ambiguity, this accessor returns a plain UTC time.Time; callers
// that want local wall clock use the returned value's Local() method
// explicitly.
func (t *Tree) UTCTime(h Handle) (time.Time, error) {
	n := t.node(h)
	if n.Tag.Number != TagUTCTime || n.IsConstructed() {
		return time.Time{}, gosterr.New("asn1.UTCTime", gosterr.InvalidASN1Tag)
	}
	s := string(n.Payload)
	if len(s) != 13 || s[len(s)-1] != 'Z' {
		return time.Time{}, gosterr.New("asn1.UTCTime", gosterr.InvalidASN1Content)
	}
	yy, err := strconv.Atoi(s[0:2])
	if err != nil {
		return time.Time{}, gosterr.Wrap("asn1.UTCTime", gosterr.InvalidASN1Content, err)
	}
	tm, err := time.Parse("0102150405Z", s[2:])
	if err != nil {
		return time.Time{}, gosterr.Wrap("asn1.UTCTime", gosterr.InvalidASN1Content, err)
	}
	tm = time.Date(2000+yy, tm.Month(), tm.Day(), tm.Hour(), tm.Minute(), tm.Second(), 0, time.UTC)
	return tm, nil
}

// GeneralizedTime parses a GeneralizedTime node ("YYYYMMDDhhmmssZ").
func (t *Tree) GeneralizedTime(h Handle) (time.Time, error) {
	n := t.node(h)
	if n.Tag.Number != TagGeneralizedTime || n.IsConstructed() {
		return time.Time{}, gosterr.New("asn1.GeneralizedTime", gosterr.InvalidASN1Tag)
	}
	s := string(n.Payload)
	if len(s) < 15 || s[len(s)-1] != 'Z' {
		return time.Time{}, gosterr.New("asn1.GeneralizedTime", gosterr.InvalidASN1Content)
	}
	tm, err := time.Parse("20060102150405Z", s)
	if err != nil {
		return time.Time{}, gosterr.Wrap("asn1.GeneralizedTime", gosterr.InvalidASN1Content, err)
	}
	return tm.UTC(), nil
}

// fmtOID is a small helper used by builders.go to validate dotted-decimal
// strings before encoding them.
func fmtOID(s string) error {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return fmt.Errorf("asn1: empty OID arc in %q", s)
		}
		if _, err := strconv.ParseUint(part, 10, 64); err != nil {
			return fmt.Errorf("asn1: non-numeric OID arc in %q: %w", s, err)
		}
	}
	return nil
}
