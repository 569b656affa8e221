package main

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/dockerdef/pkgs/errors"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitInvalidArguments = 1
	ExitIOError          = 2
	ExitNotFound         = 3
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// debugEnv enables debug logging like --debug
const debugEnv = "DOCKERDEF_DEBUG"

type options struct {
	file  string
	debug bool
	json  bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := suggestionHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		return exitCode(err)
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "dockerdef",
		Short:         "Find where Dockerfile variables and build stages are defined",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "Dockerfile", "Path to the Dockerfile ('-' for stdin)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug output (or set "+debugEnv+")")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		newDefinitionCmd(opts),
		newInstructionsCmd(opts),
		newSymbolsCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

// newLogger writes to stderr without timestamps or levels, at debug level
// when requested by flag or environment
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug || os.Getenv(debugEnv) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func exitCode(err error) int {
	switch {
	case errors.IsErrorType(err, errors.ErrInputRead), errors.IsErrorType(err, errors.ErrFileNotFound):
		return ExitIOError
	case errors.IsErrorType(err, errors.ErrNoDefinition):
		return ExitNotFound
	default:
		return ExitInvalidArguments
	}
}

func suggestionHint(err error) string {
	var e *errors.DockerdefError
	if !stderrors.As(err, &e) {
		return ""
	}
	names, _ := e.GetContext("suggestions")
	if list, ok := names.([]string); ok && len(list) > 0 {
		return "Did you mean: " + strings.Join(list, ", ") + "?"
	}
	return ""
}
