package tree

import (
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/tlog/tlwire"
)

type (
	ID uint64

	Node struct {
		ID   ID
		Kind string
		Text string

		Children []*Node
	}

	// IDs hands out node ids. Each tree-building pass owns one and resets it
	// before it starts, so ids are unique within a single tree only.
	IDs struct {
		next ID
	}

	Label int
)

const (
	LabelKind Label = iota
	LabelText
)

func (c *IDs) New(kind, text string) *Node {
	n := &Node{
		ID:   c.next,
		Kind: kind,
		Text: text,
	}

	c.next++

	return n
}

func (c *IDs) Reset() {
	c.next = 0
}

// Next returns the id the next node will get.
func (c *IDs) Next() ID {
	return c.next
}

func (n *Node) Add(ch ...*Node) {
	n.Children = append(n.Children, ch...)
}

// Take moves the children out of n.
func (n *Node) Take() []*Node {
	ch := n.Children
	n.Children = nil

	return ch
}

// Walk visits nodes in pre-order. Returning false skips the node's children.
func (n *Node) Walk(f func(n *Node, depth int) bool) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(n *Node, depth int) bool, d int) {
	if !f(n, d) {
		return
	}

	for _, ch := range n.Children {
		ch.walk(f, d+1)
	}
}

func (n *Node) Len() (r int) {
	n.Walk(func(*Node, int) bool {
		r++
		return true
	})

	return r
}

func (n *Node) Depth() (r int) {
	n.Walk(func(_ *Node, d int) bool {
		r = max(r, d+1)
		return true
	})

	return r
}

func (n *Node) Dot(l Label) string {
	return string(n.AppendDot(nil, l))
}

// AppendDot appends the tree as a graphviz digraph.
func (n *Node) AppendDot(b []byte, l Label) []byte {
	b = append(b, "digraph G {\n"...)
	b = n.appendDot(b, l)
	b = append(b, "}\n"...)

	return b
}

func (n *Node) appendDot(b []byte, l Label) []byte {
	label := n.Kind
	if l == LabelText {
		label = n.Text
	}

	b = hfmt.Appendf(b, "    \"%d\" [label=\"%s\"];\n", n.ID, escape(label))

	for _, ch := range n.Children {
		b = hfmt.Appendf(b, "    \"%d\" -> \"%d\";\n", n.ID, ch.ID)
		b = ch.appendDot(b, l)
	}

	return b
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escape(s string) string {
	return escaper.Replace(s)
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	var b strings.Builder

	n.appendString(&b)

	return b.String()
}

func (n *Node) appendString(b *strings.Builder) {
	b.WriteString(n.Kind)

	if n.Text != "" && n.Text != n.Kind {
		b.WriteString(":")
		b.WriteString(n.Text)
	}

	if len(n.Children) == 0 {
		return
	}

	b.WriteString("(")

	for i, ch := range n.Children {
		if i != 0 {
			b.WriteString(", ")
		}

		ch.appendString(b)
	}

	b.WriteString(")")
}

func (n *Node) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	if n == nil {
		return e.AppendNil(b)
	}

	return e.AppendString(b, n.String())
}
