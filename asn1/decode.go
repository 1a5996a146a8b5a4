package asn1

import "github.com/gostcrypto/gost/gosterr"

// DecodeOptions controls how payload bytes are attached to decoded nodes.
type DecodeOptions struct {
	// CopyPayload forces every primitive payload to be copied out of src;
	// when false (the default), payloads borrow src directly and src must
	// outlive the returned Tree.
	CopyPayload bool
}

// DecodeDER parses a single DER-encoded TLV (and, if constructed,
// recursively its children) from src and returns the resulting Tree. A
// trailing gap after the outermost TLV is not an error; callers that
// require the whole buffer to be consumed should compare len(src) against
// the return value's encoded length themselves, or call DecodeDERExact.
func DecodeDER(src []byte, opts DecodeOptions) (*Tree, error) {
	t := &Tree{}
	if !opts.CopyPayload {
		t.source = src
	}
	root, _, err := decodeOne(t, src, opts)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// DecodeDERExact is DecodeDER but additionally requires that src contains
// exactly one TLV with no trailing octets.
func DecodeDERExact(src []byte, opts DecodeOptions) (*Tree, error) {
	t := &Tree{}
	if !opts.CopyPayload {
		t.source = src
	}
	root, n, err := decodeOne(t, src, opts)
	if err != nil {
		return nil, err
	}
	if n != len(src) {
		return nil, gosterr.New("asn1.DecodeDERExact", gosterr.WrongLength)
	}
	t.root = root
	return t, nil
}

// decodeOne decodes one TLV from the front of buf, returning its handle and
// the number of octets consumed (tag+length+content).
func decodeOne(t *Tree, buf []byte, opts DecodeOptions) (Handle, int, error) {
	if len(buf) < 2 {
		return NoHandle, 0, gosterr.New("asn1.decodeOne", gosterr.WrongLength)
	}
	tag, err := DecodeTag(buf[0])
	if err != nil {
		return NoHandle, 0, err
	}
	length, lenOctets, err := decodeLength(buf[1:])
	if err != nil {
		return NoHandle, 0, err
	}
	headerLen := 1 + lenOctets
	total := headerLen + length
	if total > len(buf) {
		return NoHandle, 0, gosterr.New("asn1.decodeOne", gosterr.WrongLength)
	}
	content := buf[headerLen:total]

	if tag.Form == FormConstructed {
		h := t.alloc(Node{Tag: tag})
		off := 0
		for off < len(content) {
			child, n, err := decodeOne(t, content[off:], opts)
			if err != nil {
				return NoHandle, 0, err
			}
			t.appendChild(h, child)
			off += n
		}
		return h, total, nil
	}

	payload := content
	owned := false
	if opts.CopyPayload {
		payload = append([]byte(nil), content...)
		owned = true
	}
	h := t.alloc(Node{Tag: tag, Payload: payload, Owned: owned})
	return h, total, nil
}

// decodeLength parses a DER length field from the front of buf (the octet
// after the tag), returning the content length, the number of octets the
// length field itself occupied, and an error. Indefinite length (0x80) and
// long forms needing more than 4 length octets are rejected.
func decodeLength(buf []byte) (length int, consumed int, err error) {
	if len(buf) == 0 {
		return 0, 0, gosterr.New("asn1.decodeLength", gosterr.WrongLength)
	}
	b := buf[0]
	if b&0x80 == 0 {
		return int(b), 1, nil
	}
	n := int(b &^ 0x80)
	if n == 0 {
		return 0, 0, gosterr.New("asn1.decodeLength", gosterr.WrongLength)
	}
	if n > 4 {
		return 0, 0, gosterr.New("asn1.decodeLength", gosterr.WrongLength)
	}
	if len(buf) < 1+n {
		return 0, 0, gosterr.New("asn1.decodeLength", gosterr.WrongLength)
	}
	length = 0
	for i := 0; i < n; i++ {
		length = length<<8 | int(buf[1+i])
	}
	return length, 1 + n, nil
}
