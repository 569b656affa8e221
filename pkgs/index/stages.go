package index

import (
	"strings"

	"github.com/aledsdavies/dockerdef/pkgs/ast"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/parser"
)

// Stage is a build stage alias declared with FROM image AS name
type Stage struct {
	Name     string
	NameSpan document.Span
	Line     int
	Index    int // ordinal of the FROM instruction, counting unnamed stages
}

// Stages collects the alias of every FROM instruction that has one, in
// document order. Ordering rules between stages are not enforced here.
func Stages(instrs []ast.Instruction) []Stage {
	var out []Stage
	ordinal := 0
	for i := range instrs {
		in := &instrs[i]
		if !in.Known || !in.Spec.Stage {
			continue
		}
		if st, ok := stageOf(in); ok {
			st.Index = ordinal
			out = append(out, st)
		}
		ordinal++
	}
	return out
}

// Alias returns the alias word of a FROM instruction: FROM [--flags] image AS name
func Alias(in *ast.Instruction) (parser.Word, bool) {
	ops := parser.Operands(parser.Words(in.Args.Text))
	if len(ops) < 3 || !strings.EqualFold(ops[1].Text, "AS") {
		return parser.Word{}, false
	}
	return ops[2], true
}

func stageOf(in *ast.Instruction) (Stage, bool) {
	w, ok := Alias(in)
	if !ok {
		return Stage{}, false
	}
	span := in.Args.LineSpan(w.Start, w.End)
	seg, _ := in.Args.SegmentAt(w.Start)
	return Stage{
		Name:     w.Text,
		NameSpan: span,
		Line:     seg.Line,
	}, true
}

// FindStage returns the stage whose name matches exactly
func FindStage(stages []Stage, name string) (Stage, bool) {
	for _, st := range stages {
		if st.Name == name {
			return st, true
		}
	}
	return Stage{}, false
}
