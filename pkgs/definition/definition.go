// Package definition answers "where is the symbol under the cursor
// defined?" for a Dockerfile snapshot.
//
// Resolution is a pure function of the snapshot and the position. The only
// negative answer is "not found", used alike for unknown names, positions
// outside the document and cursor positions that are not on a symbol.
package definition

import (
	"github.com/aledsdavies/dockerdef/pkgs/ast"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/index"
	"github.com/aledsdavies/dockerdef/pkgs/parser"
)

// Kind says which rule produced an answer
type Kind int

const (
	KindNone          Kind = iota
	KindStageAlias         // cursor on a FROM ... AS alias
	KindStageRef           // cursor on a --from=NAME value
	KindVariableRef        // cursor on $NAME or ${NAME}
)

func (k Kind) String() string {
	switch k {
	case KindStageAlias:
		return "stage-alias"
	case KindStageRef:
		return "stage-reference"
	case KindVariableRef:
		return "variable-reference"
	default:
		return "none"
	}
}

// Symbol describes the token under the cursor, whether or not it resolved
type Symbol struct {
	Kind Kind
	Name string
	Span document.Span
}

// Analysis bundles the parse result and both indexes for one snapshot.
// It is immutable and safe for concurrent use.
type Analysis struct {
	Doc       *document.Document
	File      *parser.File
	Variables []index.Variable
	Stages    []index.Stage
}

// Analyze parses doc and builds its indexes
func Analyze(doc *document.Document, opts ...parser.ParserOpt) *Analysis {
	f := parser.Parse(doc, opts...)
	return &Analysis{
		Doc:       doc,
		File:      f,
		Variables: index.Variables(f.Instructions),
		Stages:    index.Stages(f.Instructions),
	}
}

// Compute resolves the definition of the symbol at pos in doc
func Compute(doc *document.Document, pos document.Position) (document.Location, bool) {
	return Analyze(doc).Definition(pos)
}

// Definition resolves the symbol at pos
func (a *Analysis) Definition(pos document.Position) (document.Location, bool) {
	sym, ok := a.SymbolAt(pos)
	if !ok {
		return document.Location{}, false
	}
	span, ok := a.resolve(sym)
	if !ok {
		return document.Location{}, false
	}
	return a.Doc.LocationOf(span), true
}

// SymbolAt classifies the token under pos without resolving it
func (a *Analysis) SymbolAt(pos document.Position) (Symbol, bool) {
	offset, ok := a.Doc.OffsetAt(pos)
	if !ok {
		return Symbol{}, false
	}
	in, ok := a.File.InstructionAt(offset)
	if !ok {
		return Symbol{}, false
	}

	if in.Known && in.Spec.Stage {
		if st, ok := a.stageAt(offset); ok {
			return Symbol{Kind: KindStageAlias, Name: st.Name, Span: st.NameSpan}, true
		}
	}

	if in.Known && in.Spec.StageReference {
		if sym, ok := fromFlagAt(in, offset); ok {
			return sym, true
		}
	}

	i, ok := in.Args.Logical(offset)
	if !ok {
		return Symbol{}, false
	}
	ref, ok := parser.ReferenceAt(in.Args.Text, i)
	if !ok || ref.Name == "" {
		return Symbol{}, false
	}
	return Symbol{
		Kind: KindVariableRef,
		Name: ref.Name,
		Span: in.Args.SourceSpan(ref.Start, ref.End),
	}, true
}

func (a *Analysis) resolve(sym Symbol) (document.Span, bool) {
	switch sym.Kind {
	case KindStageAlias:
		return sym.Span, true
	case KindStageRef:
		st, ok := index.FindStage(a.Stages, sym.Name)
		return st.NameSpan, ok
	case KindVariableRef:
		v, ok := index.LastBefore(a.Variables, sym.Name, sym.Span.Start)
		return v.NameSpan, ok
	}
	return document.Span{}, false
}

func (a *Analysis) stageAt(offset int) (index.Stage, bool) {
	for _, st := range a.Stages {
		if st.NameSpan.Contains(offset) {
			return st, true
		}
	}
	return index.Stage{}, false
}

// fromFlagAt matches offset against the value of a --from flag. Only the
// flag value counts; positional arguments never name a stage.
func fromFlagAt(in *ast.Instruction, offset int) (Symbol, bool) {
	for _, f := range parser.Flags(parser.Words(in.Args.Text)) {
		if f.Name != "from" || !f.HasValue {
			continue
		}
		span := in.Args.LineSpan(f.ValueStart, f.ValueEnd)
		if span.Contains(offset) {
			return Symbol{Kind: KindStageRef, Name: f.Value, Span: span}, true
		}
	}
	return Symbol{}, false
}
