package metric

import (
	"strings"

	"funcmetrics/internal/engine/function"
	"funcmetrics/internal/engine/syntax"
)

const CodeLinesCountName = "code_lines_count"

// CodeLinesCount counts the physical lines of a function body that hold at
// least one token other than a comment. Blank and comment-only lines are
// skipped; a token spanning several lines contributes each non-blank line.
type CodeLinesCount struct{}

func (CodeLinesCount) Name() string { return CodeLinesCountName }
func (CodeLinesCount) Kind() Kind   { return KindInt }

func (m CodeLinesCount) Calculate(fn function.Function) Result {
	return Result{Name: m.Name(), Value: Int(countCodeLines(fn.Body()))}
}

func countCodeLines(body *syntax.Node) int {
	if body == nil {
		return 0
	}
	rows := make(map[int]struct{})
	syntax.Walk(body, func(n *syntax.Node) bool {
		if n.Category == syntax.CategoryComment {
			return false
		}
		if n.IsLeaf() {
			markCodeRows(rows, n)
		}
		return true
	})
	return len(rows)
}

func markCodeRows(rows map[int]struct{}, leaf *syntax.Node) {
	// Zero-width tokens (inserted by error recovery) carry no text.
	if leaf.Text == "" {
		return
	}
	for i, line := range strings.Split(leaf.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			rows[leaf.Start.Row+i] = struct{}{}
		}
	}
}
