package parser

import (
	"encoding/json"
	"strings"

	"github.com/aledsdavies/dockerdef/pkgs/ast"
	"github.com/aledsdavies/dockerdef/pkgs/instructions"
)

// Classify reports whether a dual-syntax instruction's argument is written
// as a JSON array of strings. Leading --flags are not part of the form.
// Anything that does not decode strictly is PlainText; this never fails.
func Classify(keyword, text string) ast.Form {
	spec, ok := instructions.Lookup(keyword)
	if !ok || !spec.DualSyntax {
		return ast.PlainText
	}
	if _, ok := ParseArray(skipFlags(text)); ok {
		return ast.ArrayLiteral
	}
	return ast.PlainText
}

// ParseArray decodes text as a JSON array of strings
func ParseArray(text string) ([]string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, false
	}
	return out, true
}

func skipFlags(text string) string {
	text = strings.TrimLeft(text, " \t")
	for strings.HasPrefix(text, "--") {
		i := strings.IndexAny(text, " \t")
		if i < 0 {
			return ""
		}
		text = strings.TrimLeft(text[i:], " \t")
	}
	return text
}
