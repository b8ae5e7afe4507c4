package syntax

import "strings"

// Leaf builds a single-line leaf at row, starting at column 0.
func Leaf(kind string, category Category, row int, text string) *Node {
	return &Node{
		Kind:     kind,
		Category: category,
		Named:    category != CategoryOther,
		Start:    Point{Row: row},
		End:      endOf(Point{Row: row}, text),
		Text:     text,
	}
}

// Branch builds an inner node spanning its children.
func Branch(kind string, category Category, children ...*Node) *Node {
	n := &Node{Kind: kind, Category: category, Named: true, Children: children}
	if len(children) > 0 {
		n.Start = children[0].Start
		n.End = children[len(children)-1].End
	}
	return n
}

// WithField sets the field name on n and returns it.
func (n *Node) WithField(field string) *Node {
	n.Field = field
	return n
}

func endOf(start Point, text string) Point {
	lines := strings.Count(text, "\n")
	if lines == 0 {
		return Point{Row: start.Row, Column: start.Column + len(text)}
	}
	return Point{Row: start.Row + lines, Column: len(text) - strings.LastIndex(text, "\n") - 1}
}
