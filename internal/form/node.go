package form

// Virtual form tree. The editor engine operates on this in-memory node tree
// instead of a live browser document: components receive node references or
// query through the tree root, which keeps the assembler and populator
// testable without a DOM.

// Kind classifies a node. Value-bearing kinds are input, textarea, select,
// and hidden; containers and buttons carry structure only.
type Kind int

const (
	KindContainer Kind = iota
	KindInput
	KindTextArea
	KindSelect
	KindHidden
	KindButton
)

// Node is one element of the form tree.
type Node struct {
	ID          string
	Kind        Kind
	Name        string // grouping convention, e.g. "slo2[]"
	Value       string
	Placeholder string
	Label       string
	Options     []string // select options; SetValue only applies listed values
	attrs       map[string]string
	children    []*Node
	parent      *Node
}

// NewTree returns an empty root container.
func NewTree() *Node {
	return &Node{Kind: KindContainer, ID: "root"}
}

// NewNode constructs a detached node.
func NewNode(kind Kind, id string) *Node {
	return &Node{Kind: kind, ID: id}
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) *Node {
	child.detachFromParent()
	child.parent = n
	n.children = append(n.children, child)
	return child
}

// InsertBefore places child immediately before ref among n's children. When
// ref is nil or not a child of n, child is appended.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	child.detachFromParent()
	child.parent = n
	for i, c := range n.children {
		if c == ref {
			n.children = append(n.children[:i], append([]*Node{child}, n.children[i:]...)...)
			return child
		}
	}
	n.children = append(n.children, child)
	return child
}

// Remove detaches the node from its parent. Detaching an already-detached
// node is a no-op.
func (n *Node) Remove() {
	n.detachFromParent()
	n.parent = nil
}

func (n *Node) detachFromParent() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			return
		}
	}
}

// MoveToEnd re-appends the node as its parent's last child. Used to keep
// "add" controls last after every list mutation.
func (n *Node) MoveToEnd() {
	p := n.parent
	if p == nil {
		return
	}
	n.detachFromParent()
	n.parent = p
	p.children = append(p.children, n)
}

// Parent returns the node's parent, nil for detached nodes and the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a snapshot of the node's children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

// Clear removes every child.
func (n *Node) Clear() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// SetAttr sets a marker attribute (e.g. data-policy-key).
func (n *Node) SetAttr(key, value string) *Node {
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[key] = value
	return n
}

// Attr returns a marker attribute value and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// FindByID searches the subtree rooted at n in document order.
func (n *Node) FindByID(id string) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// FindAllByAttr collects, in document order, every node in the subtree that
// carries the given marker attribute.
func (n *Node) FindAllByAttr(key string) []*Node {
	var out []*Node
	n.walk(func(node *Node) {
		if _, ok := node.Attr(key); ok {
			out = append(out, node)
		}
	})
	return out
}

// FindAllByName collects every node in the subtree with the given Name.
func (n *Node) FindAllByName(name string) []*Node {
	var out []*Node
	n.walk(func(node *Node) {
		if node.Name == name {
			out = append(out, node)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// HasOption reports whether a select node lists the given option value.
func (n *Node) HasOption(value string) bool {
	for _, o := range n.Options {
		if o == value {
			return true
		}
	}
	return false
}
