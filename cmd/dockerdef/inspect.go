package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/dockerdef/pkgs/definition"
	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/parser"
)

type instructionView struct {
	Keyword       string         `json:"keyword"`
	Known         bool           `json:"known"`
	Form          string         `json:"form"`
	KeywordRange  document.Range `json:"keywordRange"`
	ArgumentRange document.Range `json:"argumentRange"`
	Range         document.Range `json:"range"`
	Arguments     string         `json:"arguments"`
}

type symbolView struct {
	Kind  string          `json:"kind"`
	Name  string          `json:"name"`
	Range document.Range  `json:"range"`
	Value *document.Range `json:"valueRange,omitempty"`
}

func newInstructionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "instructions",
		Short: "List the parsed instructions with their ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			f := parser.Parse(doc, parser.WithLogger(newLogger(opts.debug)))
			return printInstructions(cmd.OutOrStdout(), f, opts.json)
		},
	}
}

func newSymbolsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List variable declarations and build stage aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			a := definition.Analyze(doc, parser.WithLogger(newLogger(opts.debug)))
			return printSymbols(cmd.OutOrStdout(), a, opts.json)
		},
	}
}

func printInstructions(w io.Writer, f *parser.File, asJSON bool) error {
	views := make([]instructionView, 0, len(f.Instructions))
	for i := range f.Instructions {
		in := &f.Instructions[i]
		views = append(views, instructionView{
			Keyword:       in.Keyword,
			Known:         in.Known,
			Form:          in.Form.String(),
			KeywordRange:  f.Doc.RangeOf(in.KeywordSpan),
			ArgumentRange: f.Doc.RangeOf(in.ArgsSpan()),
			Range:         f.Doc.RangeOf(in.Raw),
			Arguments:     in.Args.Text,
		})
	}
	if asJSON {
		return encodeJSON(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range views {
		keyword := v.Keyword
		if !v.Known {
			keyword += "?"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%q\n", v.Range, keyword, v.Form, v.Arguments)
	}
	return tw.Flush()
}

func printSymbols(w io.Writer, a *definition.Analysis, asJSON bool) error {
	var views []symbolView
	for _, v := range a.Variables {
		sv := symbolView{Kind: v.Keyword, Name: v.Name, Range: a.Doc.RangeOf(v.NameSpan)}
		if v.ValueSpan != nil {
			r := a.Doc.RangeOf(*v.ValueSpan)
			sv.Value = &r
		}
		views = append(views, sv)
	}
	for _, st := range a.Stages {
		views = append(views, symbolView{Kind: "STAGE", Name: st.Name, Range: a.Doc.RangeOf(st.NameSpan)})
	}
	if asJSON {
		if views == nil {
			views = []symbolView{}
		}
		return encodeJSON(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Range, v.Kind, v.Name)
	}
	return tw.Flush()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
