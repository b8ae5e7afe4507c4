// Package parser turns Python files into syntax trees and function records
// using tree-sitter.
package parser

import (
	"fmt"
	"os"

	"funcmetrics/internal/core/errors"
	"funcmetrics/internal/engine/syntax"
)

// Parser parses source files into syntax trees. The tree-sitter tree is
// released before Parse returns; callers only see the Go-side snapshot.
// Safe for concurrent use.
type Parser struct {
	loader *GrammarLoader
	pools  map[string]*ParserPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{loader: loader, pools: make(map[string]*ParserPool)}
	for _, id := range loader.Languages() {
		lang, _ := loader.Language(id)
		p.pools[id] = NewParserPool(lang)
	}
	return p
}

// Parse reads and parses the file at path.
func (p *Parser) Parse(path string) (*syntax.Tree, error) {
	if _, err := p.language(path); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeIO, "read source file")
		return nil, errors.AddContext(wrapped, errors.CtxPath, path)
	}
	return p.ParseSource(path, content)
}

// ParseSource parses content as the file at path.
func (p *Parser) ParseSource(path string, content []byte) (*syntax.Tree, error) {
	lang, err := p.language(path)
	if err != nil {
		return nil, err
	}

	pool := p.pools[lang]
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		err := &errors.DomainError{Code: errors.CodeInternal, Message: "parse failed"}
		return nil, err.WithContext(errors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if row, bad := firstErrorRow(root); bad {
		err := &errors.DomainError{
			Code:    errors.CodeSyntax,
			Message: fmt.Sprintf("invalid %s syntax near line %d", lang, row+1),
		}
		return nil, err.WithContext(errors.CtxPath, path).WithContext(errors.CtxLine, row+1)
	}

	return &syntax.Tree{
		Path:     path,
		Language: lang,
		Root:     snapshot(root, content, ""),
	}, nil
}

// IsSupportedPath reports whether path has a parseable extension.
func (p *Parser) IsSupportedPath(path string) bool {
	return p.loader.LanguageForPath(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

func (p *Parser) language(path string) (string, error) {
	lang := p.loader.LanguageForPath(path)
	if lang == "" {
		err := &errors.DomainError{Code: errors.CodeNotSupported, Message: "unsupported language"}
		return "", err.WithContext(errors.CtxPath, path)
	}
	return lang, nil
}
