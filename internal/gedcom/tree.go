package gedcom

import "fmt"

// Node wraps one Line inside the tree. The root node carries no line.
type Node struct {
	line     *Line
	parent   *Node
	children []*Node
}

// NewNode creates a detached node holding line.
func NewNode(line *Line) *Node {
	return &Node{line: line}
}

// Line returns the node's current line, or nil for the root.
func (n *Node) Line() *Line {
	return n.line
}

// SetLine swaps the line held by the node.
func (n *Node) SetLine(line *Line) {
	n.line = line
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children in sibling order. The slice must not
// be modified by callers.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild appends child as the last child of n.
func (n *Node) AddChild(child *Node) {
	n.AddChildBefore(child, nil)
}

// AddChildBefore inserts child immediately before anchor. A nil anchor, or
// one that is not a child of n, appends child at the end.
func (n *Node) AddChildBefore(child, anchor *Node) {
	child.RemoveFromParent()
	child.parent = n

	at := n.indexOf(anchor)
	if at < 0 {
		n.children = append(n.children, child)
		return
	}
	n.children = append(n.children, nil)
	copy(n.children[at+1:], n.children[at:])
	n.children[at] = child
}

// RemoveFromParent detaches n. It is a no-op for detached nodes.
func (n *Node) RemoveFromParent() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if at := p.indexOf(n); at >= 0 {
		p.children = append(p.children[:at], p.children[at+1:]...)
	}
	n.parent = nil
}

// HasChild reports whether any direct child carries tag.
func (n *Node) HasChild(tag Tag) bool {
	for _, c := range n.children {
		if c.line != nil && c.line.tag == tag {
			return true
		}
	}
	return false
}

func (n *Node) indexOf(child *Node) int {
	if child == nil {
		return -1
	}
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) String() string {
	if n.line == nil {
		return "<root>"
	}
	return n.line.String()
}

// LookupError reports an identifier missing from the tree's index.
type LookupError struct {
	ID string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no record with identifier @%s@", e.ID)
}

// Tree is a parsed GEDCOM file: a root node whose children are the level-0
// records, plus an index from record identifier to node.
type Tree struct {
	root  *Node
	index map[string]*Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		root:  &Node{},
		index: make(map[string]*Node),
	}
}

func (t *Tree) Root() *Node {
	return t.root
}

// Node returns the node declaring id.
func (t *Tree) Node(id string) (*Node, error) {
	node, ok := t.index[id]
	if !ok {
		return nil, &LookupError{ID: id}
	}
	return node, nil
}

// Reindex rebuilds the identifier index from the current tree shape. Call it
// after inserting or removing records.
func (t *Tree) Reindex() {
	t.index = make(map[string]*Node, len(t.index))
	t.indexNode(t.root)
}

func (t *Tree) indexNode(n *Node) {
	if n.line != nil && n.line.id != "" {
		if _, dup := t.index[n.line.id]; !dup {
			t.index[n.line.id] = n
		}
	}
	for _, c := range n.children {
		t.indexNode(c)
	}
}
