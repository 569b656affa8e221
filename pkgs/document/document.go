// Package document holds immutable text snapshots and the line/offset index
// used to translate byte offsets into editor positions and back.
//
// Positions follow the Language Server Protocol convention: zero based lines,
// and characters counted in UTF-16 code units. "\r\n" is a single line
// terminator; the carriage return is not part of the line content.
package document

import (
	"fmt"
	"unicode/utf8"
)

// Position is a zero based (line, character) pair
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"` // UTF-16 code units
}

// Range is a half-open [Start, End) pair of positions
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location is the value handed back to an editing host
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// Span is a half-open byte range into a document's text
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether offset lies in [Start, End)
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Before reports whether p sorts strictly before o
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// String formats the position as line:character
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Contains reports whether p lies in the half-open range
func (r Range) Contains(p Position) bool {
	return !p.Before(r.Start) && p.Before(r.End)
}

// String formats the range for diagnostics and CLI output
func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Document is an immutable text snapshot plus its line index.
// A new edit always produces a new Document.
type Document struct {
	uri   string
	text  string
	lines []int // byte offset of the first byte of each line
}

// New builds a snapshot for text
func New(uri, text string) *Document {
	return &Document{
		uri:   uri,
		text:  text,
		lines: lineOffsets(text),
	}
}

// URI returns the document identity supplied by the host
func (d *Document) URI() string { return d.uri }

// Text returns the full snapshot text
func (d *Document) Text() string { return d.text }

// LineCount returns the number of lines, counting a trailing empty line
func (d *Document) LineCount() int { return len(d.lines) }

// LineSpan returns the byte span of line content, excluding its terminator.
// ok is false when the line does not exist.
func (d *Document) LineSpan(line int) (Span, bool) {
	if line < 0 || line >= len(d.lines) {
		return Span{}, false
	}
	start := d.lines[line]
	end := len(d.text)
	if line+1 < len(d.lines) {
		end = d.lines[line+1] - 1 // the '\n'
	}
	if end > start && d.text[end-1] == '\r' {
		end--
	}
	return Span{Start: start, End: end}, true
}

// Line returns the content of a line without its terminator
func (d *Document) Line(line int) string {
	span, ok := d.LineSpan(line)
	if !ok {
		return ""
	}
	return d.text[span.Start:span.End]
}

// LineOf returns the zero based line containing offset
func (d *Document) LineOf(offset int) int {
	if offset <= 0 {
		return 0
	}
	i, j := 0, len(d.lines)
	for i+1 < j {
		m := (i + j) / 2
		if d.lines[m] <= offset {
			i = m
		} else {
			j = m
		}
	}
	return i
}

// PositionAt converts a byte offset to a position. Offsets are clamped to
// the text; offsets inside a line terminator land at the line end.
func (d *Document) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}
	line := d.LineOf(offset)
	span, _ := d.LineSpan(line)
	if offset > span.End {
		offset = span.End
	}
	return Position{
		Line:      uint32(line),
		Character: uint32(u16Len(d.text[span.Start:offset])),
	}
}

// OffsetAt converts a position to a byte offset. It does not clamp: ok is
// false when the line does not exist or the character lies past the end of
// the line. A character that splits a surrogate pair maps to the start of
// that rune.
func (d *Document) OffsetAt(p Position) (int, bool) {
	span, ok := d.LineSpan(int(p.Line))
	if !ok {
		return 0, false
	}
	need := int(p.Character)
	i := span.Start
	for i < span.End && need > 0 {
		r, sz := utf8.DecodeRuneInString(d.text[i:])
		w := toU16(r)
		if w > need {
			break
		}
		need -= w
		i += sz
	}
	if need > 0 && i >= span.End {
		return 0, false
	}
	return i, true
}

// RangeOf converts a byte span to a range
func (d *Document) RangeOf(s Span) Range {
	return Range{Start: d.PositionAt(s.Start), End: d.PositionAt(s.End)}
}

// LocationOf converts a byte span to a location in this document
func (d *Document) LocationOf(s Span) Location {
	return Location{URI: d.uri, Range: d.RangeOf(s)}
}

// lineOffsets records the offset after every '\n'
func lineOffsets(text string) []int {
	offs := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offs = append(offs, i+1)
		}
	}
	return offs
}

func toU16(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

// u16Len returns the UTF-16 length of s
func u16Len(s string) int {
	n := 0
	for _, r := range s {
		n += toU16(r)
	}
	return n
}
