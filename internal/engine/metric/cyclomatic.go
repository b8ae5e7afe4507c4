package metric

import (
	"funcmetrics/internal/engine/function"
	"funcmetrics/internal/engine/syntax"
)

const CyclomaticComplexityName = "cyclomatic_complexity"

// CyclomaticComplexity is 1 plus the number of decision points anywhere in the
// function's subtree. Each decision node counts once regardless of nesting.
type CyclomaticComplexity struct{}

func (CyclomaticComplexity) Name() string { return CyclomaticComplexityName }
func (CyclomaticComplexity) Kind() Kind   { return KindInt }

func (m CyclomaticComplexity) Calculate(fn function.Function) Result {
	decisions := syntax.Count(fn.Tree, func(n *syntax.Node) bool {
		return n.Category == syntax.CategoryDecision
	})
	return Result{Name: m.Name(), Value: Int(1 + decisions)}
}
