package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/errors"
)

// defaultFile is the --file default; piped input wins over it
const defaultFile = "Dockerfile"

// readDocument loads the snapshot named by file:
// 1. explicit stdin with -f -
// 2. piped input when the default file name is used
// 3. the file itself
func readDocument(file string, stdin io.Reader) (*document.Document, error) {
	if file == "-" || (file == defaultFile && hasPipedInput()) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.NewInputError("stdin", err)
		}
		return document.New("stdin", string(data)), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrFileNotFound, "no such file '"+file+"'", err).
				WithContext("path", file)
		}
		return nil, errors.NewInputError(file, err)
	}
	return document.New(fileURI(file), string(data)), nil
}

// hasPipedInput detects data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// fileURI turns a path into a file:// URI, falling back to the path itself
func fileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
