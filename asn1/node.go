package asn1

// Handle is an index into a Tree's node arena, or -1 for "no node"
// (the nil-pointer equivalent for the arena model). Using an int32 index
// instead of a pointer means Exclude is an index-list edit, not
// pointer surgery, and the arena itself is the only thing requiring
// cleanup (on tree destruction), matching the "detaches without freeing"
// exclude semantics spec.md §3 requires of Asn1.
type Handle int32

const NoHandle Handle = -1

// Node is one TLV element of a Tree. Primitive nodes hold a byte payload
// (owned or borrowed, per the tree's copy-on-decode setting); constructed
// nodes hold an ordered child list via firstChild/lastChild and each
// child's prev/next siblings, all by Handle.
type Node struct {
	Tag Tag

	// Primitive payload. Borrowed payloads alias the tree's source
	// buffer; Owned is set when the tree was built with copy-on-decode,
	// or when the node was constructed programmatically.
	Payload []byte
	Owned   bool

	// Constructed children, in order.
	firstChild Handle
	lastChild  Handle

	parent Handle
	prev   Handle
	next   Handle

	// encodedLen caches the content length computed by the encoder's
	// first pass; valid only between Tree.measure and
	// Tree.EncodeDER on the same tree generation.
	encodedLen int
}

// IsConstructed reports whether n holds children rather than a payload.
func (n *Node) IsConstructed() bool { return n.Tag.Form == FormConstructed }

// Tree owns an arena of Node values for one ASN.1 document. Handles are
// indices into nodes; NoHandle (-1) plays the role of a nil pointer. The
// tree is the unit of lifetime: individual Exclude calls detach a Handle
// from its parent's child list without shrinking the arena, matching
// spec.md's "exclude detaches without freeing."
type Tree struct {
	nodes []Node
	root  Handle

	// source is the original buffer a zero-copy decode borrowed payloads
	// from; nil for a DER byte stream that doesn't need to stay alive
	// (copy-on-decode mode, or a programmatically built tree).
	source []byte
}

// NewTree returns an empty tree with no root.
func NewTree() *Tree {
	return &Tree{root: NoHandle}
}

func (t *Tree) alloc(n Node) Handle {
	n.firstChild = NoHandle
	n.lastChild = NoHandle
	n.parent = NoHandle
	n.prev = NoHandle
	n.next = NoHandle
	t.nodes = append(t.nodes, n)
	return Handle(len(t.nodes) - 1)
}

func (t *Tree) node(h Handle) *Node {
	if h == NoHandle {
		return nil
	}
	return &t.nodes[h]
}

// Root returns the root Handle, or NoHandle if the tree is empty.
func (t *Tree) Root() Handle { return t.root }

// Children returns the ordered list of child handles of h.
func (t *Tree) Children(h Handle) []Handle {
	var out []Handle
	for c := t.node(h).firstChild; c != NoHandle; c = t.node(c).next {
		out = append(out, c)
	}
	return out
}

// appendChild links child as the new last child of parent.
func (t *Tree) appendChild(parent, child Handle) {
	p := t.node(parent)
	c := t.node(child)
	c.parent = parent
	c.prev = p.lastChild
	c.next = NoHandle
	if p.lastChild != NoHandle {
		t.node(p.lastChild).next = child
	} else {
		p.firstChild = child
	}
	p.lastChild = child
}

// Exclude detaches h from its parent's child list without deallocating
// its arena slot, per spec.md's "exclude detaches without freeing."
func (t *Tree) Exclude(h Handle) {
	n := t.node(h)
	if n.parent == NoHandle {
		if t.root == h {
			t.root = NoHandle
		}
		return
	}
	p := t.node(n.parent)
	if n.prev != NoHandle {
		t.node(n.prev).next = n.next
	} else {
		p.firstChild = n.next
	}
	if n.next != NoHandle {
		t.node(n.next).prev = n.prev
	} else {
		p.lastChild = n.prev
	}
	n.parent = NoHandle
	n.prev = NoHandle
	n.next = NoHandle
}

// NewPrimitive allocates a detached primitive node carrying payload (owned
// by the tree).
func (t *Tree) NewPrimitive(tag Tag, payload []byte) Handle {
	return t.alloc(Node{Tag: tag, Payload: payload, Owned: true})
}

// NewConstructed allocates a detached constructed node with no children
// yet.
func (t *Tree) NewConstructed(tag Tag) Handle {
	return t.alloc(Node{Tag: Tag{Class: tag.Class, Form: FormConstructed, Number: tag.Number}})
}

// Append adds child as the last child of parent (both must already be in
// the tree). If parent is NoHandle, child becomes the tree's root.
func (t *Tree) Append(parent, child Handle) {
	if parent == NoHandle {
		t.root = child
		return
	}
	t.appendChild(parent, child)
}

// NodeAt exposes the underlying Node for h, for accessors that need direct
// field access (tag, payload).
func (t *Tree) NodeAt(h Handle) *Node { return t.node(h) }
