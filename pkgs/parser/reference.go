package parser

// Reference is a $NAME or ${NAME} occurrence in argument text. Start and End
// are logical indexes covering the whole token, sigil and braces included.
type Reference struct {
	Name  string
	Start int
	End   int
}

// References lists every variable reference in text, left to right. Shell
// quoting is not modeled: references inside single quotes are reported too.
func References(text string) []Reference {
	var refs []Reference
	for i := 0; i < len(text); i++ {
		if text[i] != '$' {
			continue
		}
		ref, ok := scanReference(text, i)
		if !ok {
			continue
		}
		refs = append(refs, ref)
		i = ref.End - 1
	}
	return refs
}

// ReferenceAt returns the reference whose token holds logical index i
func ReferenceAt(text string, i int) (Reference, bool) {
	for _, ref := range References(text) {
		if ref.Start > i {
			break
		}
		if i < ref.End {
			return ref, true
		}
	}
	return Reference{}, false
}

// scanReference reads the token starting at the '$' at index start. The
// name is the maximal run of identifier characters after the sigil; a brace
// pair is part of the token only when the closing brace directly follows.
func scanReference(text string, start int) (Reference, bool) {
	i := start + 1
	braced := i < len(text) && text[i] == '{'
	if braced {
		i++
	}
	nameStart := i
	for i < len(text) && isIdentChar(text[i]) {
		i++
	}
	if i == nameStart {
		return Reference{}, false
	}
	ref := Reference{Name: text[nameStart:i], Start: start, End: i}
	if braced && i < len(text) && text[i] == '}' {
		ref.End = i + 1
	}
	return ref, true
}

func isIdentChar(ch byte) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9')
}
