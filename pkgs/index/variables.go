// Package index builds the ordered variable and build-stage tables for one
// parsed snapshot. Both tables are in document order and are never mutated
// after they are returned.
package index

import (
	"strings"

	"github.com/aledsdavies/dockerdef/pkgs/ast"
	"github.com/aledsdavies/dockerdef/pkgs/document"
)

// Variable is one ARG or ENV declaration of a name
type Variable struct {
	Name      string
	Keyword   string
	NameSpan  document.Span
	ValueSpan *document.Span // nil when the declaration assigns no value
	Line      int            // physical line of the name
}

// Variables scans ARG and ENV instructions. Every physical line of a
// continued declaration is scanned on its own, so a declaration spread over
// N lines yields up to N entries, each with a line-local name span.
// Repeated names are all kept.
func Variables(instrs []ast.Instruction) []Variable {
	var out []Variable
	for i := range instrs {
		in := &instrs[i]
		if !in.Known || !in.Spec.Variables {
			continue
		}
		s := declScanner{arg: &in.Args, keyword: in.Keyword}
		last := len(in.Args.Segments) - 1
		for j, seg := range in.Args.Segments {
			out = s.scanLine(seg, j < last, out)
		}
	}
	return out
}

// LastBefore returns the last variable named name whose name starts before
// offset. Later declarations are invisible to the reference.
func LastBefore(vars []Variable, name string, offset int) (Variable, bool) {
	var found Variable
	ok := false
	for _, v := range vars {
		if v.NameSpan.Start >= offset {
			break
		}
		if v.Name == name {
			found, ok = v, true
		}
	}
	return found, ok
}

// declScanner carries state between the physical lines of one instruction
type declScanner struct {
	arg     *ast.Argument
	keyword string
	seen    bool // a name has been read
	legacy  bool // "name value" form: the rest of the instruction is the value
	quote   byte // open quote carried over from the previous line
	pending bool // first name ended a continued line; its value may follow
}

func (s *declScanner) scanLine(seg ast.Segment, continued bool, out []Variable) []Variable {
	if s.legacy {
		return out
	}
	text := s.arg.Text[seg.Logical:seg.LogicalEnd()]
	if s.pending {
		s.pending = false
		if strings.IndexByte(text, '=') < 0 {
			return s.legacyValue(seg, text, continued, out)
		}
	}
	i := 0
	if s.quote != 0 {
		// finish a quoted value opened on an earlier line
		i, s.quote = s.scanValue(text, 0, s.quote)
	}

	for i < len(text) {
		for i < len(text) && isBlank(text[i]) {
			i++
		}
		if i >= len(text) {
			break
		}

		nameStart := i
		for i < len(text) && !isBlank(text[i]) && text[i] != '=' {
			i++
		}
		nameEnd := i
		if nameEnd == nameStart {
			// stray '=' with no name
			i, s.quote = s.scanValue(text, i+1, 0)
			continue
		}

		v := Variable{
			Name:     text[nameStart:nameEnd],
			Keyword:  s.keyword,
			NameSpan: s.span(seg, nameStart, nameEnd),
			Line:     seg.Line,
		}

		switch {
		case i < len(text) && text[i] == '=':
			valueStart := i + 1
			i, s.quote = s.scanValue(text, valueStart, 0)
			vs := s.span(seg, valueStart, i)
			v.ValueSpan = &vs

		case !s.seen:
			// first name without '=': legacy "name value" when a value follows
			rest := i
			for rest < len(text) && isBlank(text[rest]) {
				rest++
			}
			if rest < len(text) {
				end := len(text)
				for end > rest && isBlank(text[end-1]) {
					end--
				}
				vs := s.span(seg, rest, end)
				v.ValueSpan = &vs
				s.legacy = true
				i = len(text)
			} else if continued {
				s.pending = true
			}
		}

		s.seen = true
		out = append(out, v)
		if s.legacy {
			break
		}
	}
	return out
}

// legacyValue records text as the value of the name that ended the previous
// line: "ENV NAME \" followed by a line without '='
func (s *declScanner) legacyValue(seg ast.Segment, text string, continued bool, out []Variable) []Variable {
	start, end := 0, len(text)
	for start < end && isBlank(text[start]) {
		start++
	}
	for end > start && isBlank(text[end-1]) {
		end--
	}
	if start == end {
		// only blanks before the escape; keep waiting
		s.pending = continued
		return out
	}
	vs := s.span(seg, start, end)
	out[len(out)-1].ValueSpan = &vs
	s.legacy = true
	return out
}

// scanValue reads a value up to the next unquoted blank and returns the end
// index plus the quote still open at the end of the line, if any
func (s *declScanner) scanValue(text string, i int, quote byte) (int, byte) {
	for i < len(text) {
		ch := text[i]
		switch {
		case ch == s.arg.Escape && quote != '\'' && i+1 < len(text):
			i += 2
			continue
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case isBlank(ch):
			return i, 0
		}
		i++
	}
	return i, quote
}

// span converts line-local indexes of seg to a source span
func (s *declScanner) span(seg ast.Segment, start, end int) document.Span {
	return document.Span{
		Start: seg.Span.Start + start,
		End:   seg.Span.Start + end,
	}
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}
