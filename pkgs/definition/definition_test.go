package definition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/dockerdef/pkgs/document"
)

const testURI = "file:///work/Dockerfile"

func pos(line, char uint32) document.Position {
	return document.Position{Line: line, Character: char}
}

func rng(sl, sc, el, ec uint32) document.Range {
	return document.Range{Start: pos(sl, sc), End: pos(el, ec)}
}

type lookup struct {
	at    document.Position
	want  document.Range
	found bool
}

func found(at document.Position, want document.Range) lookup {
	return lookup{at: at, want: want, found: true}
}

func missing(at document.Position) lookup {
	return lookup{at: at}
}

func runLookups(t *testing.T, text string, lookups []lookup) {
	t.Helper()
	a := Analyze(document.New(testURI, text))
	for _, l := range lookups {
		t.Run(l.at.String(), func(t *testing.T) {
			loc, ok := a.Definition(l.at)
			require.Equal(t, l.found, ok, "definition at %s in %q", l.at, text)
			if !l.found {
				return
			}
			assert.Equal(t, testURI, loc.URI)
			assert.Equal(t, l.want, loc.Range)
		})
	}
}

func TestVariableReferences(t *testing.T) {
	text := "ARG var\nSTOPSIGNAL ${var}\nUSER ${var}"
	decl := rng(0, 4, 0, 7)
	runLookups(t, text, []lookup{
		found(pos(1, 11), decl),
		found(pos(1, 12), decl),
		found(pos(1, 13), decl),
		found(pos(1, 15), decl),
		found(pos(1, 16), decl),
		missing(pos(1, 17)),
		missing(pos(1, 10)),
		found(pos(2, 5), decl),
		found(pos(2, 7), decl),
		missing(pos(0, 4)),
		missing(pos(0, 0)),
	})
}

func TestStageAliases(t *testing.T) {
	text := "FROM node AS bootstrap\n" +
		"COPY --from=bootstrap . .\n" +
		"COPY --from=bootstrapX . .\n" +
		"COPY bootstrap /x\n" +
		"FROM alpine AS Build\n" +
		"COPY --from=build /a /b"
	alias := rng(0, 13, 0, 22)
	runLookups(t, text, []lookup{
		// alias locates itself
		found(pos(0, 13), alias),
		found(pos(0, 21), alias),
		missing(pos(0, 12)),
		missing(pos(0, 22)),
		missing(pos(0, 5)),

		found(pos(1, 12), alias),
		found(pos(1, 20), alias),
		missing(pos(1, 11)),
		missing(pos(1, 21)),
		missing(pos(1, 7)),

		missing(pos(2, 12)),
		missing(pos(3, 6)),

		found(pos(4, 16), rng(4, 15, 4, 20)),
		missing(pos(5, 13)),
	})
}

func TestStageNamesSplitByContinuation(t *testing.T) {
	text := "FROM node AS boot\\\nstrap\n" +
		"COPY --from=bootstrap . .\n" +
		"COPY --from=boot\\\nstrap . ."
	// ranges never leave the line where the name starts
	alias := rng(0, 13, 0, 17)
	runLookups(t, text, []lookup{
		found(pos(0, 13), alias),
		found(pos(0, 16), alias),
		missing(pos(0, 17)),
		missing(pos(1, 2)),

		found(pos(2, 13), alias),

		found(pos(3, 12), alias),
		found(pos(3, 15), alias),
		// the escape character and what follows it are not part of the value
		missing(pos(3, 16)),
		missing(pos(4, 2)),
	})
}

func TestFromValueIsNotExpanded(t *testing.T) {
	text := "ARG s=base\nFROM x AS s\nFROM y\nCOPY --from=$s . .\nCOPY --from=0 . ."
	runLookups(t, text, []lookup{
		missing(pos(3, 12)),
		missing(pos(3, 13)),
		missing(pos(4, 12)),
	})
}

func TestNearestPrecedingDeclaration(t *testing.T) {
	text := "ARG a=1\nARG a=2\nRUN echo $a\nARG a=3\nRUN echo $b\nENV b=1"
	runLookups(t, text, []lookup{
		found(pos(2, 9), rng(1, 4, 1, 5)),
		found(pos(2, 10), rng(1, 4, 1, 5)),
		// declared only afterwards
		missing(pos(4, 10)),
	})
}

func TestSelfReferencingDeclaration(t *testing.T) {
	text := "ARG a=$a\nENV b=${b}x c=$b"
	runLookups(t, text, []lookup{
		found(pos(0, 7), rng(0, 4, 0, 5)),
		found(pos(1, 7), rng(1, 4, 1, 5)),
		found(pos(1, 15), rng(1, 4, 1, 5)),
	})
}

func TestContinuedDeclarations(t *testing.T) {
	text := "ENV a=1 \\\n    b=2\nRUN echo $a $b"
	runLookups(t, text, []lookup{
		found(pos(2, 10), rng(0, 4, 0, 5)),
		found(pos(2, 13), rng(1, 4, 1, 5)),
	})
}

func TestLegacyValueOnContinuationLine(t *testing.T) {
	text := "ENV GREETING \\\n    hello\nRUN echo $hello $GREETING"
	runLookups(t, text, []lookup{
		missing(pos(2, 10)),
		found(pos(2, 17), rng(0, 4, 0, 12)),
	})
}

func TestReferenceAcrossContinuation(t *testing.T) {
	text := "ARG abc\nRUN echo $a\\\nbc"
	runLookups(t, text, []lookup{
		found(pos(1, 9), rng(0, 4, 0, 7)),
		found(pos(1, 10), rng(0, 4, 0, 7)),
		missing(pos(1, 11)),
		found(pos(2, 1), rng(0, 4, 0, 7)),
		missing(pos(2, 2)),
	})
}

func TestReferenceOnContinuationLine(t *testing.T) {
	text := "ARG name\nRUN echo one \\\n  # note\n    && echo ${name}"
	runLookups(t, text, []lookup{
		found(pos(3, 14), rng(0, 4, 0, 8)),
		missing(pos(2, 4)),
	})
}

func TestReferenceForms(t *testing.T) {
	text := "ARG var\nRUN echo ${var:-x} '$var' \"${var}\" $var.txt $$"
	decl := rng(0, 4, 0, 7)
	runLookups(t, text, []lookup{
		found(pos(1, 11), decl),
		found(pos(1, 13), decl),
		// the brace is not closed right after the name
		missing(pos(1, 14)),
		found(pos(1, 21), decl),
		found(pos(1, 28), decl),
		found(pos(1, 32), decl),
		found(pos(1, 35), decl),
		missing(pos(1, 39)),
		missing(pos(1, 44)),
	})
}

func TestBacktickEscape(t *testing.T) {
	text := "# escape=`\nARG a\nRUN echo $a `\n  $a\nRUN dir c:\\$a"
	runLookups(t, text, []lookup{
		found(pos(2, 9), rng(1, 4, 1, 5)),
		found(pos(3, 3), rng(1, 4, 1, 5)),
		found(pos(4, 12), rng(1, 4, 1, 5)),
	})
}

func TestUTF16Positions(t *testing.T) {
	text := "ARG e\nLABEL x=\"😀\" y=$e"
	// the emoji occupies two UTF-16 code units
	runLookups(t, text, []lookup{
		found(pos(1, 15), rng(0, 4, 0, 5)),
		found(pos(1, 16), rng(0, 4, 0, 5)),
		missing(pos(1, 17)),
	})
}

func TestOutOfRangePositions(t *testing.T) {
	text := "ARG a\nRUN echo $a"
	runLookups(t, text, []lookup{
		missing(pos(2, 0)),
		missing(pos(99, 0)),
		missing(pos(1, 11)),
		missing(pos(1, 99)),
		missing(pos(1, 0)),
	})
}

func TestSymbolAt(t *testing.T) {
	text := "FROM node AS base\nARG v\nCOPY --from=base $v /x\nCOPY --from=nope $w /y"
	a := Analyze(document.New(testURI, text))

	tests := []struct {
		at   document.Position
		kind Kind
		name string
	}{
		{pos(0, 14), KindStageAlias, "base"},
		{pos(2, 13), KindStageRef, "base"},
		{pos(2, 18), KindVariableRef, "v"},
		{pos(3, 13), KindStageRef, "nope"},
		{pos(3, 18), KindVariableRef, "w"},
	}
	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			sym, ok := a.SymbolAt(tt.at)
			require.True(t, ok)
			assert.Equal(t, tt.kind, sym.Kind)
			assert.Equal(t, tt.name, sym.Name)
		})
	}

	_, ok := a.SymbolAt(pos(0, 2))
	assert.False(t, ok, "keyword is not a symbol")

	_, ok = a.Definition(pos(3, 13))
	assert.False(t, ok, "unknown stage must not resolve")
	_, ok = a.Definition(pos(3, 18))
	assert.False(t, ok, "undeclared variable must not resolve")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "stage-alias", KindStageAlias.String())
	assert.Equal(t, "stage-reference", KindStageRef.String())
	assert.Equal(t, "variable-reference", KindVariableRef.String())
}

func TestComputeIsIdempotent(t *testing.T) {
	doc := document.New(testURI, "ARG a\nRUN echo $a")
	first, ok1 := Compute(doc, pos(1, 10))
	second, ok2 := Compute(doc, pos(1, 10))
	require.True(t, ok1)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"\\",
		"RUN \\",
		"ARG",
		"ENV =",
		"ENV a=\"unterminated",
		"FROM AS",
		"FROM x AS",
		"COPY --from=",
		"COPY --from",
		"RUN ${",
		"RUN $",
		"# escape=`\n`",
		"ARG a\r\nRUN $a\r\n",
		"RUN echo 😀$a\nARG a",
		"CMD [\"a\", $b]",
	}
	for i, in := range inputs {
		t.Run(fmt.Sprintf("input-%d", i), func(t *testing.T) {
			doc := document.New(testURI, in)
			a := Analyze(doc)
			assert.NotPanics(t, func() {
				for line := 0; line <= doc.LineCount()+1; line++ {
					for char := 0; char <= len(in)+2; char++ {
						a.Definition(pos(uint32(line), uint32(char)))
					}
				}
			})
		})
	}
}
