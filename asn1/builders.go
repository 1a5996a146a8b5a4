package asn1

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gostcrypto/gost/gosterr"
)

// These builders are the symmetric counterpart to accessors.go: each
// allocates a new node holding the DER encoding of its argument and
// appends it as the last child of parent, as spec.md §4.4's "Builders"
// section requires ("always place the new node at the end of the current
// list").

func (t *Tree) AddBool(parent Handle, v bool) Handle {
	b := byte(0x00)
	if v {
		b = 0xFF
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagBoolean), []byte{b})
	t.Append(parent, h)
	return h
}

func (t *Tree) AddUint32(parent Handle, v uint32) Handle {
	var b []byte
	for shift := 24; shift >= 0; shift -= 8 {
		c := byte(v >> shift)
		if len(b) == 0 && c == 0 && shift != 0 {
			continue
		}
		b = append(b, c)
	}
	if len(b) == 0 {
		b = []byte{0}
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagInteger), b)
	t.Append(parent, h)
	return h
}

// AddBigInt adds an INTEGER node from a big-endian byte slice, prefixing a
// 0x00 sign octet if the first octet's high bit is set.
func (t *Tree) AddBigInt(parent Handle, b []byte) Handle {
	v := b
	if len(v) == 0 {
		v = []byte{0}
	}
	if v[0]&0x80 != 0 {
		v = append([]byte{0x00}, v...)
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagInteger), v)
	t.Append(parent, h)
	return h
}

func (t *Tree) AddOctetString(parent Handle, b []byte) Handle {
	h := t.NewPrimitive(Universal(FormPrimitive, TagOctetString), b)
	t.Append(parent, h)
	return h
}

func (t *Tree) AddUTF8String(parent Handle, s string) Handle {
	h := t.NewPrimitive(Universal(FormPrimitive, TagUTF8String), []byte(s))
	t.Append(parent, h)
	return h
}

func (t *Tree) AddIA5String(parent Handle, s string) (Handle, error) {
	if err := validateString(kindIA5, []byte(s)); err != nil {
		return NoHandle, err
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagIA5String), []byte(s))
	t.Append(parent, h)
	return h, nil
}

func (t *Tree) AddPrintableString(parent Handle, s string) (Handle, error) {
	if err := validateString(kindPrintable, []byte(s)); err != nil {
		return NoHandle, err
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagPrintableString), []byte(s))
	t.Append(parent, h)
	return h, nil
}

func (t *Tree) AddNumericString(parent Handle, s string) (Handle, error) {
	if err := validateString(kindNumeric, []byte(s)); err != nil {
		return NoHandle, err
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagNumericString), []byte(s))
	t.Append(parent, h)
	return h, nil
}

func (t *Tree) AddBitString(parent Handle, bs BitString) (Handle, error) {
	if bs.Unused > 7 {
		return NoHandle, gosterr.New("asn1.AddBitString", gosterr.InvalidASN1Content)
	}
	payload := append([]byte{byte(bs.Unused)}, bs.Bytes...)
	h := t.NewPrimitive(Universal(FormPrimitive, TagBitString), payload)
	t.Append(parent, h)
	return h, nil
}

// AddOID encodes a dotted-decimal OID string and appends it.
func (t *Tree) AddOID(parent Handle, oid string) (Handle, error) {
	if err := fmtOID(oid); err != nil {
		return NoHandle, gosterr.Wrap("asn1.AddOID", gosterr.InvalidASN1Content, err)
	}
	parts := strings.Split(oid, ".")
	arcs := make([]uint64, len(parts))
	for i, p := range parts {
		v, _ := strconv.ParseUint(p, 10, 64)
		arcs[i] = v
	}
	if len(arcs) < 2 {
		return NoHandle, gosterr.New("asn1.AddOID", gosterr.InvalidASN1Content)
	}
	var payload []byte
	payload = appendBase128(payload, arcs[0]*40+arcs[1])
	for _, a := range arcs[2:] {
		payload = appendBase128(payload, a)
	}
	h := t.NewPrimitive(Universal(FormPrimitive, TagOID), payload)
	t.Append(parent, h)
	return h, nil
}

func appendBase128(dst []byte, v uint64) []byte {
	var tmp [10]byte
	i := len(tmp)
	i--
	tmp[i] = byte(v & 0x7F)
	v >>= 7
	for v > 0 {
		i--
		tmp[i] = byte(v&0x7F) | 0x80
		v >>= 7
	}
	return append(dst, tmp[i:]...)
}

// AddUTCTime encodes tm as a UTCTime, writing its two-digit year as
// year%100 unconditionally (the inverse of UTCTime's 2000+YY decode),
// rather than relying on the "06" layout verb's implicit century pivot.
func (t *Tree) AddUTCTime(parent Handle, tm time.Time) Handle {
	u := tm.UTC()
	s := fmt.Sprintf("%02d%s", u.Year()%100, u.Format("0102150405Z"))
	h := t.NewPrimitive(Universal(FormPrimitive, TagUTCTime), []byte(s))
	t.Append(parent, h)
	return h
}

func (t *Tree) AddGeneralizedTime(parent Handle, tm time.Time) Handle {
	s := tm.UTC().Format("20060102150405Z")
	h := t.NewPrimitive(Universal(FormPrimitive, TagGeneralizedTime), []byte(s))
	t.Append(parent, h)
	return h
}

// AddSequence allocates a constructed SEQUENCE node and appends it to
// parent (or makes it the tree's root, if parent is NoHandle).
func (t *Tree) AddSequence(parent Handle) Handle {
	h := t.NewConstructed(Universal(FormConstructed, TagSequence))
	t.Append(parent, h)
	return h
}

// AddSet allocates a constructed SET node and appends it to parent.
func (t *Tree) AddSet(parent Handle) Handle {
	h := t.NewConstructed(Universal(FormConstructed, TagSet))
	t.Append(parent, h)
	return h
}

// AddContextConstructed allocates an implicitly-tagged constructed
// context-specific node (used for CSR/certificate extension framing) and
// appends it to parent.
func (t *Tree) AddContextConstructed(parent Handle, number byte) Handle {
	h := t.NewConstructed(ContextConstructed(number))
	t.Append(parent, h)
	return h
}

// AddContextPrimitive allocates an implicitly-tagged primitive
// context-specific node carrying payload and appends it to parent.
func (t *Tree) AddContextPrimitive(parent Handle, number byte, payload []byte) Handle {
	h := t.NewPrimitive(ContextPrimitive(number), payload)
	t.Append(parent, h)
	return h
}
