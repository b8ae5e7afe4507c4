package parser

import "funcmetrics/internal/engine/syntax"

// NodeHandler processes a node for a language-specific extractor. Returning
// true means the handler took care of the node's children.
type NodeHandler func(ctx *ExtractionContext, node *syntax.Node) bool

// ExtractionContext carries the state shared by handlers during one walk.
type ExtractionContext struct {
	Path      string
	ancestors []*syntax.Node
}

// Parent returns the ancestor depth levels above the current node; 0 is the
// direct parent.
func (c *ExtractionContext) Parent(depth int) *syntax.Node {
	i := len(c.ancestors) - 1 - depth
	if i < 0 {
		return nil
	}
	return c.ancestors[i]
}

// ExtractorEngine walks a syntax tree in pre-order and dispatches handlers by
// node kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *syntax.Node) {
	if node == nil {
		return
	}
	if handler, ok := e.handlers[node.Kind]; ok && handler(ctx, node) {
		return
	}
	e.WalkChildren(ctx, node)
}

// WalkChildren walks the children of node with node as their parent.
func (e *ExtractorEngine) WalkChildren(ctx *ExtractionContext, node *syntax.Node) {
	ctx.ancestors = append(ctx.ancestors, node)
	for _, child := range node.Children {
		e.Walk(ctx, child)
	}
	ctx.ancestors = ctx.ancestors[:len(ctx.ancestors)-1]
}
