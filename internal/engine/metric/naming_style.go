package metric

import (
	"regexp"

	"funcmetrics/internal/engine/function"
)

const NamingStyleName = "naming_style"

// Naming style categories. These strings are part of the report format.
const (
	StyleSnakeCase  = "Snake Case"
	StyleCamelCase  = "Camel Case"
	StylePascalCase = "Pascal Case"
	StyleLowerCase  = "Lower Case"
	StyleUnknown    = "Unknown"
)

// Patterns are disjoint: lower case has no separator or capital, snake case
// needs at least one underscore, camel case starts lowercase and has a
// capital, pascal case starts with a capital followed by a lowercase letter.
var namingStyles = []struct {
	style   string
	pattern *regexp.Regexp
}{
	{StyleLowerCase, regexp.MustCompile(`^[a-z][a-z0-9]*$`)},
	{StyleSnakeCase, regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)+$`)},
	{StyleCamelCase, regexp.MustCompile(`^[a-z][a-z0-9]*([A-Z][a-z0-9]*)+$`)},
	{StylePascalCase, regexp.MustCompile(`^[A-Z][a-z0-9]+([A-Z][a-z0-9]*)*$`)},
}

// NamingStyle classifies a function name. Names matching no style, including
// dunder and underscore-prefixed names, are Unknown.
type NamingStyle struct{}

func (NamingStyle) Name() string { return NamingStyleName }
func (NamingStyle) Kind() Kind   { return KindString }

func (m NamingStyle) Calculate(fn function.Function) Result {
	return Result{Name: m.Name(), Value: String(ClassifyName(fn.Name))}
}

// ClassifyName returns the naming style of name.
func ClassifyName(name string) string {
	for _, ns := range namingStyles {
		if ns.pattern.MatchString(name) {
			return ns.style
		}
	}
	return StyleUnknown
}
