package ast

import (
	"sort"

	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/instructions"
	"github.com/aledsdavies/dockerdef/pkgs/invariant"
)

// Form tags how an instruction's argument was written
type Form int

const (
	PlainText    Form = iota // RUN echo hi
	ArrayLiteral             // RUN ["echo", "hi"]
)

func (f Form) String() string {
	switch f {
	case ArrayLiteral:
		return "array"
	default:
		return "plain"
	}
}

// Instruction is one parsed statement of a Dockerfile
type Instruction struct {
	Keyword     string            // canonical keyword, or the raw upper-cased word when unknown
	Spec        instructions.Spec // zero value when Known is false
	Known       bool
	KeywordSpan document.Span
	Args        Argument
	Form        Form          // set by the parser for dual-syntax instructions
	Raw         document.Span // keyword start to the end of the last continued line
}

// ArgsSpan returns the source span from the first to the last argument byte.
// An instruction without arguments has an empty span at the keyword end.
func (i *Instruction) ArgsSpan() document.Span {
	if len(i.Args.Segments) == 0 {
		return document.Span{Start: i.KeywordSpan.End, End: i.KeywordSpan.End}
	}
	return document.Span{Start: i.Args.Segments[0].Span.Start, End: i.Args.End()}
}

// Is reports whether the instruction has the given canonical keyword
func (i *Instruction) Is(keyword string) bool {
	return i.Known && i.Keyword == keyword
}

// Segment is the part of one physical line that contributed argument text
type Segment struct {
	Line    int           // zero based source line
	Span    document.Span // source bytes, continuation marker excluded
	Logical int           // index of the segment's first byte in Argument.Text
}

// LogicalEnd returns the logical index just past the segment
func (s Segment) LogicalEnd() int {
	return s.Logical + s.Span.Len()
}

// Argument is the logical argument text of an instruction with a back map
// from every logical byte to the source byte it came from. Continued lines
// are concatenated without the escape character and line terminator.
type Argument struct {
	Text     string
	Escape   byte // the document's escape character
	Segments []Segment
	offsets  []int // len(offsets) == len(Text)
	end      int   // source offset just past the last argument byte
}

// NewArgument assembles an argument from per-line segments of src
func NewArgument(src string, escape byte, segments []Segment, end int) Argument {
	a := Argument{Escape: escape, Segments: segments, end: end}
	n := 0
	for _, s := range segments {
		n += s.Span.Len()
	}
	buf := make([]byte, 0, n)
	a.offsets = make([]int, 0, n)
	for i := range a.Segments {
		s := &a.Segments[i]
		invariant.InRange(s.Span.Start, 0, s.Span.End, "segment start")
		invariant.InRange(s.Span.End, s.Span.Start, len(src), "segment end")
		s.Logical = len(buf)
		buf = append(buf, src[s.Span.Start:s.Span.End]...)
		for off := s.Span.Start; off < s.Span.End; off++ {
			a.offsets = append(a.offsets, off)
		}
	}
	a.Text = string(buf)
	invariant.Postcondition(len(a.offsets) == len(a.Text),
		"back map has %d entries for %d bytes", len(a.offsets), len(a.Text))
	return a
}

// Empty reports whether no argument text was written
func (a Argument) Empty() bool { return len(a.Text) == 0 }

// End returns the source offset just past the last argument byte
func (a Argument) End() int { return a.end }

// Source maps a logical index to its source byte offset. The index one past
// the last byte maps to End.
func (a Argument) Source(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= len(a.offsets) {
		return a.end
	}
	return a.offsets[i]
}

// SourceSpan maps a logical [start, end) range to source offsets. The end
// maps to the byte after the last included character so that a token ending
// at a continuation never swallows the escape character.
func (a Argument) SourceSpan(start, end int) document.Span {
	if end <= start {
		s := a.Source(start)
		return document.Span{Start: s, End: s}
	}
	return document.Span{Start: a.Source(start), End: a.Source(end-1) + 1}
}

// LineSpan is SourceSpan clipped to the physical line holding start. A word
// that continues onto the next line is reported by its first-line part only.
func (a Argument) LineSpan(start, end int) document.Span {
	span := a.SourceSpan(start, end)
	if seg, ok := a.SegmentAt(start); ok && span.End > seg.Span.End {
		span.End = seg.Span.End
	}
	return span
}

// Logical maps a source offset back to a logical index. ok is false when the
// offset is not inside any segment.
func (a Argument) Logical(offset int) (int, bool) {
	i := sort.Search(len(a.Segments), func(i int) bool {
		return a.Segments[i].Span.End > offset
	})
	if i == len(a.Segments) || !a.Segments[i].Span.Contains(offset) {
		return 0, false
	}
	s := a.Segments[i]
	return s.Logical + offset - s.Span.Start, true
}

// SegmentAt returns the segment holding logical index i
func (a Argument) SegmentAt(i int) (Segment, bool) {
	for _, s := range a.Segments {
		if i >= s.Logical && i < s.LogicalEnd() {
			return s, true
		}
	}
	return Segment{}, false
}
