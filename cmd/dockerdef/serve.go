package main

import (
	"github.com/spf13/cobra"

	"github.com/aledsdavies/dockerdef/internal/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run a language server on stdio that answers textDocument/definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New(newLogger(opts.debug), version).RunStdio()
		},
	}
}
