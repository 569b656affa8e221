// Package parser turns tokenized instructions into a File and provides the
// argument-level scanners shared by the indexes and the resolver: argument
// form classification, word and flag splitting, and variable references.
package parser

import (
	"log/slog"

	"github.com/aledsdavies/dockerdef/pkgs/ast"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/lexer"
)

// File is the parse result for one document snapshot
type File struct {
	Doc          *document.Document
	Escape       byte
	Directives   []lexer.Directive
	Instructions []ast.Instruction
}

// ParserOpt configures Parse
type ParserOpt func(*ParserConfig)

// ParserConfig holds parser configuration
type ParserConfig struct {
	logger *slog.Logger
}

// WithLogger enables debug tracing of tokenizer and classifier decisions
func WithLogger(logger *slog.Logger) ParserOpt {
	return func(c *ParserConfig) {
		c.logger = logger
	}
}

// Parse tokenizes doc and classifies every instruction's argument form
func Parse(doc *document.Document, opts ...ParserOpt) *File {
	var cfg ParserConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	res := lexer.Tokenize(doc, lexer.WithLogger(cfg.logger))
	for i := range res.Instructions {
		in := &res.Instructions[i]
		in.Form = Classify(in.Keyword, in.Args.Text)
	}

	return &File{
		Doc:          doc,
		Escape:       res.Escape,
		Directives:   res.Directives,
		Instructions: res.Instructions,
	}
}

// InstructionAt returns the instruction whose raw span holds offset
func (f *File) InstructionAt(offset int) (*ast.Instruction, bool) {
	for i := range f.Instructions {
		in := &f.Instructions[i]
		if in.Raw.Start > offset {
			break
		}
		if in.Raw.Contains(offset) {
			return in, true
		}
	}
	return nil, false
}
