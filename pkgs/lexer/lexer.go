// Package lexer splits Dockerfile text into instructions.
//
// Tokenizing is total: any input, including a half-typed edit buffer,
// produces a (possibly empty) instruction list. Physical lines joined by the
// escape character are assembled into one logical argument that keeps a back
// map to the source bytes, so later stages can report exact ranges.
package lexer

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/aledsdavies/dockerdef/pkgs/ast"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/instructions"
	"github.com/aledsdavies/dockerdef/pkgs/invariant"
)

// DefaultEscape is used when no escape directive is present
const DefaultEscape = '\\'

// knownDirectives are the parser directive names; any other "# name=value"
// line is a plain comment and ends the directive block
var knownDirectives = map[string]bool{
	"escape": true,
	"syntax": true,
	"check":  true,
}

// directivePattern matches "# name=value" parser directives
var directivePattern = regexp.MustCompile(`^[ \t]*#[ \t]*([a-zA-Z][a-zA-Z0-9]*)[ \t]*=[ \t]*(.*?)[ \t]*$`)

// Directive is a parser directive from the top of the file
type Directive struct {
	Name  string // lower-cased
	Value string
	Line  int
	Span  document.Span
}

// Result is the tokenizer output for one snapshot
type Result struct {
	Escape       byte
	Directives   []Directive
	Instructions []ast.Instruction
}

// Option configures Tokenize
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger traces tokenizer decisions at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// scanner walks a document one physical line at a time
type scanner struct {
	doc    *document.Document
	src    string
	escape byte
	logger *slog.Logger

	line int // next physical line to read

	directives []Directive
	out        []ast.Instruction
}

// Tokenize splits the document into instructions
func Tokenize(doc *document.Document, opts ...Option) *Result {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := &scanner{
		doc:    doc,
		src:    doc.Text(),
		escape: DefaultEscape,
		logger: cfg.logger,
	}
	l.readDirectives()
	l.readInstructions()

	return &Result{
		Escape:       l.escape,
		Directives:   l.directives,
		Instructions: l.out,
	}
}

// readDirectives consumes the leading directive block. The first line that
// is not a known directive ends the block and fixes the escape character.
func (l *scanner) readDirectives() {
	seenEscape := false
	for ; l.line < l.doc.LineCount(); l.line++ {
		span, _ := l.doc.LineSpan(l.line)
		m := directivePattern.FindStringSubmatch(l.src[span.Start:span.End])
		if m == nil {
			return
		}
		name := strings.ToLower(m[1])
		if !knownDirectives[name] {
			l.logger.Debug("unknown directive ends the directive block", "name", name, "line", l.line)
			return
		}
		d := Directive{
			Name:  name,
			Value: m[2],
			Line:  l.line,
			Span:  span,
		}
		l.directives = append(l.directives, d)

		if d.Name == "escape" && !seenEscape {
			seenEscape = true
			switch d.Value {
			case "\\", "`":
				l.escape = d.Value[0]
			default:
				l.logger.Debug("ignoring invalid escape directive", "value", d.Value, "line", d.Line)
			}
		}
	}
}

func (l *scanner) readInstructions() {
	prev := -1
	for l.line < l.doc.LineCount() {
		invariant.Invariant(l.line > prev, "lexer must advance past line %d", prev)
		prev = l.line

		span, _ := l.doc.LineSpan(l.line)
		text := l.src[span.Start:span.End]
		trimmed := strings.TrimLeft(text, " \t")
		if trimmed == "" || trimmed[0] == '#' {
			l.line++
			continue
		}
		l.readInstruction(span.Start + len(text) - len(trimmed))
	}
}

// readInstruction reads the instruction whose keyword starts at start and
// every physical line it continues onto
func (l *scanner) readInstruction(start int) {
	first, _ := l.doc.LineSpan(l.line)
	contentEnd, continued := l.lineContent(first)

	kwEnd := start
	for kwEnd < contentEnd && !isBlank(l.src[kwEnd]) {
		kwEnd++
	}
	word := l.src[start:kwEnd]

	argStart := kwEnd
	for argStart < contentEnd && isBlank(l.src[argStart]) {
		argStart++
	}

	var segments []ast.Segment
	segments = appendSegment(segments, l.line, argStart, contentEnd)
	rawEnd := first.End
	argEnd := contentEnd
	if argStart == contentEnd {
		argEnd = kwEnd
	}
	l.line++

	for continued && l.line < l.doc.LineCount() {
		span, _ := l.doc.LineSpan(l.line)
		text := l.src[span.Start:span.End]
		trimmed := strings.TrimLeft(text, " \t")
		if trimmed == "" || trimmed[0] == '#' {
			// blank and comment lines inside a continuation are dropped
			l.line++
			continue
		}
		var end int
		end, continued = l.lineContent(span)
		segments = appendSegment(segments, l.line, span.Start, end)
		if end > span.Start {
			argEnd = end
		}
		rawEnd = span.End
		l.line++
	}

	in := ast.Instruction{
		Keyword:     instructions.Canonical(word),
		KeywordSpan: document.Span{Start: start, End: kwEnd},
		Args:        ast.NewArgument(l.src, l.escape, segments, argEnd),
		Raw:         document.Span{Start: start, End: rawEnd},
	}
	if spec, ok := instructions.Lookup(word); ok {
		in.Spec = spec
		in.Known = true
	}

	l.logger.Debug("instruction",
		"keyword", in.Keyword,
		"known", in.Known,
		"line", l.doc.LineOf(start),
		"lines", len(segments),
		"args", in.Args.Text)

	l.out = append(l.out, in)
}

// lineContent returns where usable content on a line ends and whether the
// line continues. A continued line ends before its escape character; a final
// line ends before its trailing whitespace.
func (l *scanner) lineContent(span document.Span) (int, bool) {
	end := span.End
	for end > span.Start && isBlank(l.src[end-1]) {
		end--
	}
	run := 0
	for end-run > span.Start && l.src[end-run-1] == l.escape {
		run++
	}
	if run%2 == 1 {
		return end - 1, true
	}
	return end, false
}

func appendSegment(segments []ast.Segment, line, start, end int) []ast.Segment {
	if end <= start {
		return segments
	}
	return append(segments, ast.Segment{
		Line: line,
		Span: document.Span{Start: start, End: end},
	})
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}
