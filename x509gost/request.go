package x509gost

import (
	"github.com/gostcrypto/gost/asn1"
	"github.com/gostcrypto/gost/gosterr"
	"github.com/gostcrypto/gost/signature"
)

// Request is a parsed or built PKCS#10-shaped certificate signing
// request, per spec.md §4.6.
type Request struct {
	Subject Name
	Public  *signature.VerifyKey

	// SignatureValid records whether Parse's recomputed hash verified
	// against the embedded signature; false does not prevent Subject and
	// Public from being populated (the importer deliberately continues,
	// per spec.md's §9 Open Question (c)).
	SignatureValid bool

	TBSDER []byte // the exact encoded tbs octets that were signed
}

// BuildRequest encodes and signs a CSR for subject under sk, per spec.md
// §4.6: version is fixed at 0, attributes is an empty [0] context tag.
func BuildRequest(sk *signature.SignKey, subject Name) (*asn1.Tree, error) {
	tbsTree := asn1.NewTree()
	tbs := tbsTree.AddSequence(asn1.NoHandle)
	tbsTree.AddUint32(tbs, 0)
	if _, err := subject.Build(tbsTree, tbs); err != nil {
		return nil, err
	}
	vk, err := sk.VerifyKey()
	if err != nil {
		return nil, err
	}
	if err := BuildSPKI(tbsTree, tbs, vk); err != nil {
		return nil, err
	}
	tbsTree.AddContextConstructed(tbs, 0) // empty attributes

	tbsDER, err := tbsTree.EncodeDER()
	if err != nil {
		return nil, err
	}

	sig, err := signature.Sign(sk, tbsDER)
	if err != nil {
		return nil, err
	}

	out := asn1.NewTree()
	root := out.AddSequence(asn1.NoHandle)
	if err := embedTBS(out, root, tbsTree); err != nil {
		return nil, err
	}

	sigAlg := out.AddSequence(root)
	if _, err := out.AddOID(sigAlg, string(sk.OID)); err != nil {
		return nil, err
	}
	if _, err := out.AddBitString(root, asn1.BitString{Unused: 0, Bytes: sig.Bytes(sk.Curve.Limbs)}); err != nil {
		return nil, err
	}
	return out, nil
}

// embedTBS re-parses tbsTree's own DER encoding into dst as a child of
// parent, so the outer tree owns a structurally identical but
// independently-addressed copy of the tbs subtree (the arena model does
// not support grafting nodes from one tree into another directly).
func embedTBS(dst *asn1.Tree, parent asn1.Handle, tbsTree *asn1.Tree) error {
	der, err := tbsTree.EncodeDER()
	if err != nil {
		return err
	}
	parsed, err := asn1.DecodeDERExact(der, asn1.DecodeOptions{CopyPayload: true})
	if err != nil {
		return err
	}
	graftInto(dst, parent, parsed, parsed.Root())
	return nil
}

// graftInto copies the subtree rooted at (src, h) into dst as a new child
// of parent.
func graftInto(dst *asn1.Tree, parent asn1.Handle, src *asn1.Tree, h asn1.Handle) asn1.Handle {
	n := src.NodeAt(h)
	if n.IsConstructed() {
		newNode := dst.NewConstructed(n.Tag)
		dst.Append(parent, newNode)
		for _, c := range src.Children(h) {
			graftInto(dst, newNode, src, c)
		}
		return newNode
	}
	newNode := dst.NewPrimitive(n.Tag, append([]byte(nil), n.Payload...))
	dst.Append(parent, newNode)
	return newNode
}

// ParseRequest decodes and verifies a CSR tree built by BuildRequest. On
// signature mismatch it returns a non-nil *Request (Subject and Public
// populated, SignatureValid false) together with a non-nil error, per
// SPEC_FULL.md's resolution of Open Question (c): callers distinguish
// "parsed but invalid" from "could not parse at all" by checking whether
// the returned *Request is nil.
func ParseRequest(tr *asn1.Tree) (*Request, error) {
	root := tr.Root()
	children := tr.Children(root)
	if len(children) != 3 {
		return nil, gosterr.New("x509gost.ParseRequest", gosterr.InvalidASN1Count)
	}
	tbsHandle := children[0]
	tbsChildren := tr.Children(tbsHandle)
	if len(tbsChildren) != 4 {
		return nil, gosterr.New("x509gost.ParseRequest", gosterr.InvalidASN1Count)
	}

	version, err := tr.Uint32(tbsChildren[0])
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, gosterr.New("x509gost.ParseRequest", gosterr.InvalidValue)
	}

	subject, err := ParseName(tr, tbsChildren[1])
	if err != nil {
		return nil, err
	}

	vk, err := ParseSPKI(tr, tbsChildren[2])
	if err != nil {
		return nil, err
	}

	req := &Request{Subject: subject, Public: vk}

	sigAlgChildren := tr.Children(children[1])
	if len(sigAlgChildren) != 1 {
		return req, gosterr.New("x509gost.ParseRequest", gosterr.InvalidASN1Count)
	}

	sigBits, err := tr.BitStringValue(children[2])
	if err != nil {
		return req, err
	}
	sig, err := signature.ParseSignature(vk.Curve.Limbs, sigBits.Bytes)
	if err != nil {
		return req, err
	}

	tbsDER, err := reencodeSubtree(tr, tbsHandle)
	if err != nil {
		return req, err
	}
	req.TBSDER = tbsDER

	ok, err := signature.Verify(vk, tbsDER, sig)
	if err != nil {
		return req, err
	}
	req.SignatureValid = ok
	if !ok {
		return req, gosterr.New("x509gost.ParseRequest", gosterr.NotEqualData)
	}
	return req, nil
}

// reencodeSubtree grafts the subtree at h into a standalone tree and
// re-encodes it, recovering the exact octets that were originally signed
// (DER encoding is deterministic, so this matches the source bytes).
func reencodeSubtree(src *asn1.Tree, h asn1.Handle) ([]byte, error) {
	dst := asn1.NewTree()
	graftInto(dst, asn1.NoHandle, src, h)
	return dst.EncodeDER()
}
