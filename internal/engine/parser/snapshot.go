package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"funcmetrics/internal/engine/syntax"
)

// Python node kinds that open a decision point.
var pythonDecisionKinds = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"except_group_clause":    true,
	"case_clause":            true,
	"conditional_expression": true,
}

var pythonStatementKinds = map[string]bool{
	"function_definition":  true,
	"class_definition":     true,
	"decorated_definition": true,
}

// Kinds copied as a single leaf. Their children (escape sequences) do not
// cover the full text, so descending would drop lines.
var pythonOpaqueKinds = map[string]bool{
	"string_content": true,
}

func pythonCategory(kind string) syntax.Category {
	switch {
	case kind == "comment":
		return syntax.CategoryComment
	case kind == "identifier":
		return syntax.CategoryIdentifier
	case pythonDecisionKinds[kind]:
		return syntax.CategoryDecision
	case pythonStatementKinds[kind] || len(kind) > len("_statement") && kind[len(kind)-len("_statement"):] == "_statement":
		return syntax.CategoryStatement
	default:
		return syntax.CategoryOther
	}
}

// snapshot copies node and its subtree into Go memory.
func snapshot(node *sitter.Node, source []byte, field string) *syntax.Node {
	kind := node.Kind()
	out := &syntax.Node{
		Kind:     kind,
		Field:    field,
		Category: pythonCategory(kind),
		Named:    node.IsNamed(),
		Start:    point(node.StartPosition()),
		End:      point(node.EndPosition()),
	}

	count := node.ChildCount()
	if count == 0 || pythonOpaqueKinds[kind] {
		out.Text = string(source[node.StartByte():node.EndByte()])
		return out
	}

	out.Children = make([]*syntax.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		out.Children = append(out.Children, snapshot(child, source, node.FieldNameForChild(uint32(i))))
	}
	return out
}

func point(p sitter.Point) syntax.Point {
	return syntax.Point{Row: int(p.Row), Column: int(p.Column)}
}

// firstErrorRow returns the row of the first error or missing node under n.
func firstErrorRow(n *sitter.Node) (int, bool) {
	if n == nil || !n.HasError() && !n.IsMissing() {
		return 0, false
	}
	if n.IsError() || n.IsMissing() {
		return int(n.StartPosition().Row), true
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if row, ok := firstErrorRow(n.Child(i)); ok {
			return row, true
		}
	}
	return int(n.StartPosition().Row), true
}
