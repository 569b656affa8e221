package parser

import "strings"

// Word is a whitespace-delimited run of argument text. Start and End are
// logical indexes into the argument.
type Word struct {
	Text  string
	Start int
	End   int
}

// Words splits argument text on blanks. Quoted runs are kept in one word.
func Words(text string) []Word {
	var words []Word
	i := 0
	for i < len(text) {
		for i < len(text) && isBlank(text[i]) {
			i++
		}
		if i >= len(text) {
			break
		}
		start := i
		var quote byte
	scan:
		for i < len(text) {
			ch := text[i]
			switch {
			case quote != 0:
				if ch == quote {
					quote = 0
				}
			case ch == '"' || ch == '\'':
				quote = ch
			case isBlank(ch):
				break scan
			}
			i++
		}
		words = append(words, Word{Text: text[start:i], Start: start, End: i})
	}
	return words
}

// Flag is a leading --name[=value] word
type Flag struct {
	Name       string
	Value      string
	HasValue   bool
	NameStart  int
	NameEnd    int
	ValueStart int
	ValueEnd   int
}

// Flags returns the --flags that precede the first ordinary word
func Flags(words []Word) []Flag {
	var flags []Flag
	for _, w := range words {
		if !strings.HasPrefix(w.Text, "--") {
			break
		}
		f := Flag{NameStart: w.Start + 2, NameEnd: w.End}
		if eq := strings.IndexByte(w.Text, '='); eq >= 0 {
			f.NameEnd = w.Start + eq
			f.HasValue = true
			f.ValueStart = w.Start + eq + 1
			f.ValueEnd = w.End
			f.Value = w.Text[eq+1:]
		}
		f.Name = w.Text[2 : f.NameEnd-w.Start]
		flags = append(flags, f)
	}
	return flags
}

// Operands returns the words after any leading flags
func Operands(words []Word) []Word {
	for i, w := range words {
		if !strings.HasPrefix(w.Text, "--") {
			return words[i:]
		}
	}
	return nil
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t'
}
