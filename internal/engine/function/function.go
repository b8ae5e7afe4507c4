// Package function defines the record produced by function extraction.
package function

import "funcmetrics/internal/engine/syntax"

// Function is one function or method extracted from a source file.
// Values are produced by an extractor and treated as read-only afterwards.
type Function struct {
	Name       string
	ClassName  string // empty unless the function is a method
	Filename   string
	Line       int // 1-based line of the definition
	Parameters []string
	Tree       *syntax.Node // the definition node; its "body" field is the body
}

// HasClass reports whether the function is a method of a class.
func (f Function) HasClass() bool {
	return f.ClassName != ""
}

// Body returns the function body node, or nil when the tree is missing.
func (f Function) Body() *syntax.Node {
	return f.Tree.ChildByField("body")
}

// QualifiedName returns Class.name for methods and name otherwise.
func (f Function) QualifiedName() string {
	if f.HasClass() {
		return f.ClassName + "." + f.Name
	}
	return f.Name
}
