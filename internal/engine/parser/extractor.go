package parser

import (
	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/function"
	"funcmetrics/internal/engine/syntax"
)

// FunctionExtractor lists the functions and methods of a Python syntax tree
// in source order.
//
// A function is a method when its definition sits directly in a class body,
// optionally behind decorators. Functions nested inside methods are free
// functions.
type FunctionExtractor struct{}

func NewFunctionExtractor() *FunctionExtractor {
	return &FunctionExtractor{}
}

type classScope struct {
	name string
	body *syntax.Node
}

type pythonWalk struct {
	engine    *ExtractorEngine
	classes   []classScope
	functions []function.Function
}

func (e *FunctionExtractor) Extract(tree *syntax.Tree) ([]function.Function, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.CodeValidationError, "nil syntax tree")
	}
	if tree.Language != "" && tree.Language != LanguagePython {
		err := &errors.DomainError{Code: errors.CodeNotSupported, Message: "no function extractor for " + tree.Language}
		return nil, err.WithContext(errors.CtxPath, tree.Path).WithContext(errors.CtxLanguage, tree.Language)
	}

	w := &pythonWalk{}
	w.engine = NewExtractorEngine(map[string]NodeHandler{
		"class_definition":    w.enterClass,
		"function_definition": w.extractFunction,
	})
	w.engine.Walk(&ExtractionContext{Path: tree.Path}, tree.Root)
	return w.functions, nil
}

func (w *pythonWalk) enterClass(ctx *ExtractionContext, node *syntax.Node) bool {
	w.classes = append(w.classes, classScope{
		name: node.ChildByField("name").Content(),
		body: node.ChildByField("body"),
	})
	w.engine.WalkChildren(ctx, node)
	w.classes = w.classes[:len(w.classes)-1]
	return true
}

func (w *pythonWalk) extractFunction(ctx *ExtractionContext, node *syntax.Node) bool {
	w.functions = append(w.functions, function.Function{
		Name:       node.ChildByField("name").Content(),
		ClassName:  w.owningClass(ctx),
		Filename:   ctx.Path,
		Line:       node.Start.Row + 1,
		Parameters: parameterNames(node.ChildByField("parameters")),
		Tree:       node,
	})
	return false
}

func (w *pythonWalk) owningClass(ctx *ExtractionContext) string {
	if len(w.classes) == 0 {
		return ""
	}
	parent := ctx.Parent(0)
	if parent != nil && parent.Kind == "decorated_definition" {
		parent = ctx.Parent(1)
	}
	scope := w.classes[len(w.classes)-1]
	if parent == nil || parent != scope.body {
		return ""
	}
	return scope.name
}

func parameterNames(params *syntax.Node) []string {
	var names []string
	for _, child := range params.NamedChildren() {
		switch child.Kind {
		case "identifier", "list_splat_pattern", "dictionary_splat_pattern", "tuple_pattern":
			names = append(names, child.Content())
		case "typed_parameter":
			if named := child.NamedChildren(); len(named) > 0 {
				names = append(names, named[0].Content())
			}
		case "default_parameter", "typed_default_parameter":
			names = append(names, child.ChildByField("name").Content())
		}
	}
	return names
}
