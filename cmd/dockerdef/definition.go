package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/dockerdef/pkgs/definition"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/errors"
	"github.com/aledsdavies/dockerdef/pkgs/parser"
)

func newDefinitionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "definition LINE:CHARACTER",
		Short: "Print the definition location of the symbol at a zero based position",
		Example: `  dockerdef definition -f Dockerfile 2:14
  cat Dockerfile | dockerdef definition --json 5:20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			doc, err := readDocument(opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			logger := newLogger(opts.debug)
			a := definition.Analyze(doc, parser.WithLogger(logger))
			return printDefinition(cmd.OutOrStdout(), a, pos, opts.json)
		},
	}
}

// parsePosition reads "LINE:CHARACTER" with both parts zero based
func parsePosition(raw string) (document.Position, error) {
	lineStr, charStr, ok := strings.Cut(raw, ":")
	if !ok {
		return document.Position{}, errors.NewPositionError(raw, "expected LINE:CHARACTER")
	}
	line, err := strconv.ParseInt(lineStr, 10, 64)
	if err != nil {
		return document.Position{}, errors.NewPositionError(raw, "line is not a number")
	}
	char, err := strconv.ParseInt(charStr, 10, 64)
	if err != nil {
		return document.Position{}, errors.NewPositionError(raw, "character is not a number")
	}
	if line < 0 || char < 0 {
		return document.Position{}, errors.NewPositionError(raw, "line and character must not be negative")
	}
	if line > 1<<32-1 || char > 1<<32-1 {
		return document.Position{}, errors.NewPositionError(raw, "out of range")
	}
	return document.Position{Line: uint32(line), Character: uint32(char)}, nil
}

func printDefinition(w io.Writer, a *definition.Analysis, pos document.Position, asJSON bool) error {
	loc, ok := a.Definition(pos)
	if !ok {
		if asJSON {
			fmt.Fprintln(w, "null")
		}
		sym, _ := a.SymbolAt(pos)
		return errors.NewNoDefinitionError(sym.Name, suggest(a, sym))
	}

	if asJSON {
		return encodeJSON(w, loc)
	}
	fmt.Fprintf(w, "%s:%s\n", loc.URI, loc.Range)
	return nil
}

// suggest lists names similar to an unresolved symbol. Resolution itself is
// exact; this only helps the person at the terminal.
func suggest(a *definition.Analysis, sym definition.Symbol) []string {
	var candidates []string
	switch sym.Kind {
	case definition.KindStageRef:
		for _, st := range a.Stages {
			candidates = append(candidates, st.Name)
		}
	case definition.KindVariableRef:
		for _, v := range a.Variables {
			candidates = append(candidates, v.Name)
		}
	default:
		return nil
	}
	return closest(sym.Name, candidates)
}

func closest(name string, candidates []string) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string

	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	for _, r := range ranks {
		if r.Target != name && !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	// candidates that are themselves contained in the name, e.g. a typo
	// that appended characters
	for _, c := range candidates {
		if c != name && !seen[c] && fuzzy.MatchFold(c, name) {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
