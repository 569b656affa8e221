// Package instructions is the fixed Dockerfile instruction vocabulary.
//
// The table drives per-instruction behavior in the tokenizer, classifier and
// index builders: each entry says whether the instruction accepts the
// bracketed exec form, declares variables, opens a build stage, or can name a
// stage through --from.
package instructions

import (
	"sort"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/command"
)

// Spec describes how one instruction participates in parsing and indexing
type Spec struct {
	Keyword        string // canonical upper-case keyword
	DualSyntax     bool   // accepts ["exec", "form"] or a plain string
	Variables      bool   // declares variables (ARG, ENV)
	Stage          bool   // opens a build stage and may carry an alias (FROM)
	StageReference bool   // may reference a stage with --from=NAME
	Deprecated     bool
}

// Canonical keyword constants
var (
	ADD         = canonical(command.Add)
	ARG         = canonical(command.Arg)
	CMD         = canonical(command.Cmd)
	COPY        = canonical(command.Copy)
	ENTRYPOINT  = canonical(command.Entrypoint)
	ENV         = canonical(command.Env)
	EXPOSE      = canonical(command.Expose)
	FROM        = canonical(command.From)
	HEALTHCHECK = canonical(command.Healthcheck)
	LABEL       = canonical(command.Label)
	MAINTAINER  = canonical(command.Maintainer)
	ONBUILD     = canonical(command.Onbuild)
	RUN         = canonical(command.Run)
	SHELL       = canonical(command.Shell)
	STOPSIGNAL  = canonical(command.StopSignal)
	USER        = canonical(command.User)
	VOLUME      = canonical(command.Volume)
	WORKDIR     = canonical(command.Workdir)
)

var vocabulary = map[string]Spec{}

func init() {
	for _, s := range []Spec{
		{Keyword: ADD, DualSyntax: true},
		{Keyword: ARG, Variables: true},
		{Keyword: CMD, DualSyntax: true},
		{Keyword: COPY, DualSyntax: true, StageReference: true},
		{Keyword: ENTRYPOINT, DualSyntax: true},
		{Keyword: ENV, Variables: true},
		{Keyword: EXPOSE},
		{Keyword: FROM, Stage: true},
		{Keyword: HEALTHCHECK},
		{Keyword: LABEL},
		{Keyword: MAINTAINER, Deprecated: true},
		{Keyword: ONBUILD},
		{Keyword: RUN, DualSyntax: true},
		{Keyword: SHELL, DualSyntax: true},
		{Keyword: STOPSIGNAL},
		{Keyword: USER},
		{Keyword: VOLUME, DualSyntax: true},
		{Keyword: WORKDIR},
	} {
		vocabulary[s.Keyword] = s
	}
}

// Lookup finds the vocabulary entry for word, ignoring case
func Lookup(word string) (Spec, bool) {
	s, ok := vocabulary[canonical(word)]
	return s, ok
}

// Canonical returns the upper-case form used for keyword comparison
func Canonical(word string) string {
	return canonical(word)
}

// Keywords lists the vocabulary in alphabetical order
func Keywords() []string {
	out := make([]string, 0, len(vocabulary))
	for k := range vocabulary {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func canonical(word string) string {
	return strings.ToUpper(word)
}
