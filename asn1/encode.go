package asn1

import "github.com/gostcrypto/gost/gosterr"

// lengthOctets returns the number of octets DER uses to encode a content
// length of n.
func lengthOctets(n int) int {
	if n < 128 {
		return 1
	}
	switch {
	case n < 1<<8:
		return 2
	case n < 1<<16:
		return 3
	case n < 1<<24:
		return 4
	default:
		return 5
	}
}

func appendLength(dst []byte, n int) []byte {
	if n < 128 {
		return append(dst, byte(n))
	}
	nOctets := lengthOctets(n) - 1
	dst = append(dst, 0x80|byte(nOctets))
	for i := nOctets - 1; i >= 0; i-- {
		dst = append(dst, byte(n>>(8*i)))
	}
	return dst
}

// measure is the encoder's first pass: it computes and caches each node's
// content length (encodedLen) bottom-up, and returns the total TLV size
// (tag + length + content) of h.
func (t *Tree) measure(h Handle) int {
	n := t.node(h)
	var contentLen int
	if n.IsConstructed() {
		for c := n.firstChild; c != NoHandle; c = t.node(c).next {
			contentLen += t.measure(c)
		}
	} else {
		contentLen = len(n.Payload)
	}
	n.encodedLen = contentLen
	return 1 + lengthOctets(contentLen) + contentLen
}

// EncodeDER performs the two-pass DER encode spec.md §4.4 describes: a
// measuring pass fixes every constructed node's content length, then a
// single write pass emits tag, length, and payload (or recurses).
//
// Unlike the originating C-shaped API, EncodeDER does not take a caller
// buffer with a length in/out parameter — Go's append-based growth makes
// that indirection unnecessary — but EncodeDERInto is provided for callers
// that want to supply their own buffer and learn the required length on
// insufficient capacity, matching the original contract closely.
func (t *Tree) EncodeDER() ([]byte, error) {
	if t.root == NoHandle {
		return nil, gosterr.New("asn1.EncodeDER", gosterr.NullPointer)
	}
	total := t.measure(t.root)
	out := make([]byte, 0, total)
	return t.encodeInto(out, t.root), nil
}

// EncodeDERInto writes the encoded form of the tree into dst's backing
// array and never grows it; if dst's capacity is insufficient, it returns
// the required length and wrong_length, matching the source API's length
// in/out parameter contract.
func (t *Tree) EncodeDERInto(dst []byte) ([]byte, int, error) {
	if t.root == NoHandle {
		return nil, 0, gosterr.New("asn1.EncodeDERInto", gosterr.NullPointer)
	}
	total := t.measure(t.root)
	if cap(dst) < total {
		return nil, total, gosterr.New("asn1.EncodeDERInto", gosterr.WrongLength)
	}
	return t.encodeInto(dst[:0], t.root), total, nil
}

func (t *Tree) encodeInto(dst []byte, h Handle) []byte {
	n := t.node(h)
	dst = append(dst, n.Tag.Octet())
	dst = appendLength(dst, n.encodedLen)
	if n.IsConstructed() {
		for c := n.firstChild; c != NoHandle; c = t.node(c).next {
			dst = t.encodeInto(dst, c)
		}
		return dst
	}
	return append(dst, n.Payload...)
}
