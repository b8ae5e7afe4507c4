package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/shared/util"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

const LanguagePython = "python"

// LanguageSpec describes a language the loader can parse.
type LanguageSpec struct {
	Name       string
	Extensions []string
}

// DefaultLanguages lists the built-in languages.
func DefaultLanguages() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		LanguagePython: {Name: LanguagePython, Extensions: []string{".py"}},
	}
}

// GrammarLoader owns the tree-sitter grammars and the extension table.
type GrammarLoader struct {
	languages  map[string]*sitter.Language
	extensions map[string]string
}

func NewGrammarLoader() (*GrammarLoader, error) {
	return NewGrammarLoaderWithLanguages(DefaultLanguages())
}

func NewGrammarLoaderWithLanguages(specs map[string]LanguageSpec) (*GrammarLoader, error) {
	gl := &GrammarLoader{
		languages:  make(map[string]*sitter.Language),
		extensions: make(map[string]string),
	}
	for _, id := range util.SortedStringKeys(specs) {
		switch id {
		case LanguagePython:
			gl.languages[id] = sitter.NewLanguage(tree_sitter_python.Language())
		default:
			return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no grammar for language %q", id))
		}
		for _, ext := range specs[id].Extensions {
			gl.extensions[strings.ToLower(ext)] = id
		}
	}
	return gl, nil
}

// Language returns the grammar for id.
func (gl *GrammarLoader) Language(id string) (*sitter.Language, bool) {
	lang, ok := gl.languages[id]
	return lang, ok
}

// LanguageForPath returns the language id for path, or "" when unsupported.
func (gl *GrammarLoader) LanguageForPath(path string) string {
	return gl.extensions[strings.ToLower(filepath.Ext(path))]
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	return util.SortedStringKeys(gl.extensions)
}

func (gl *GrammarLoader) Languages() []string {
	return util.SortedStringKeys(gl.languages)
}
