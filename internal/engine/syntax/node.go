// Package syntax holds a Go-side snapshot of a parsed syntax tree.
//
// Parser adapters copy the grammar's concrete tree into these nodes and tag
// each node with a Category, so metrics can be written against categories
// instead of a specific grammar and can be tested with hand-built trees.
package syntax

import "strings"

// Category is the grammar-independent role of a node.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryStatement
	CategoryComment
	CategoryDecision
	CategoryIdentifier
)

func (c Category) String() string {
	switch c {
	case CategoryStatement:
		return "statement"
	case CategoryComment:
		return "comment"
	case CategoryDecision:
		return "decision"
	case CategoryIdentifier:
		return "identifier"
	default:
		return "other"
	}
}

// Point is a zero-based row/column position.
type Point struct {
	Row    int
	Column int
}

// Node is one syntax tree node. Text is only populated for leaves.
type Node struct {
	Kind     string
	Field    string // field name under which the parent holds this node
	Category Category
	Named    bool
	Start    Point
	End      Point
	Text     string
	Children []*Node
}

// Tree is a parsed file.
type Tree struct {
	Path     string
	Language string
	Root     *Node
}

func (n *Node) IsLeaf() bool {
	return n != nil && len(n.Children) == 0
}

// ChildByField returns the first child attached under field, or nil.
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// ChildOfKind returns the first direct child with the given kind, or nil.
func (n *Node) ChildOfKind(kind string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// NamedChildren returns the named direct children in order.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		if child.Named {
			out = append(out, child)
		}
	}
	return out
}

// Content concatenates the text of every leaf under n in order, separated by
// nothing. It is meant for short nodes such as names and parameters.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	if n.IsLeaf() {
		return n.Text
	}
	var b strings.Builder
	Walk(n, func(node *Node) bool {
		if node.IsLeaf() {
			b.WriteString(node.Text)
		}
		return true
	})
	return b.String()
}

// Walk visits n and its descendants in pre-order. Returning false from visit
// skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, visit)
	}
}

// Count returns the number of nodes under n (inclusive) for which match is true.
func Count(n *Node, match func(*Node) bool) int {
	count := 0
	Walk(n, func(node *Node) bool {
		if match(node) {
			count++
		}
		return true
	})
	return count
}
