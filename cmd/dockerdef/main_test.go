package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/dockerdef/pkgs/document"
	"github.com/aledsdavies/dockerdef/pkgs/errors"
)

const sample = `FROM golang:1.24 AS build
ARG VERSION=dev
ENV CGO_ENABLED=0 \
    GOOS=linux
RUN go build -ldflags "-X main.version=${VERSION}" ./...

FROM alpine
COPY --from=build /out /bin
COPY --from=buld /out /bin
`

func writeDockerfile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		raw     string
		want    document.Position
		wantErr bool
	}{
		{raw: "0:0", want: document.Position{}},
		{raw: "12:7", want: document.Position{Line: 12, Character: 7}},
		{raw: "4294967295:1", want: document.Position{Line: 4294967295, Character: 1}},
		{raw: "4294967296:1", wantErr: true},
		{raw: "-1:0", wantErr: true},
		{raw: "1:-3", wantErr: true},
		{raw: "12", wantErr: true},
		{raw: "a:1", wantErr: true},
		{raw: "1:b", wantErr: true},
		{raw: ":", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parsePosition(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, errors.ErrInvalidPosition))
				assert.Equal(t, ExitInvalidArguments, exitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClosest(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       []string
	}{
		{"bootstrapX", []string{"bootstrap", "build"}, []string{"bootstrap"}},
		{"boot", []string{"bootstrap", "build"}, []string{"bootstrap"}},
		{"zzz", []string{"bootstrap", "build"}, nil},
		{"", []string{"bootstrap"}, nil},
		{"a", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, closest(tt.name, tt.candidates))
		})
	}
}

func TestDefinitionCommand(t *testing.T) {
	path := writeDockerfile(t, sample)

	out, err := execute(t, "", "definition", "-f", path, "7:13")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "file://"), out)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "Dockerfile:0:20-0:25"), out)

	out, err = execute(t, "", "definition", "--json", "-f", path, "4:45")
	require.NoError(t, err)
	var loc document.Location
	require.NoError(t, json.Unmarshal([]byte(out), &loc))
	assert.Equal(t, document.Range{
		Start: document.Position{Line: 1, Character: 4},
		End:   document.Position{Line: 1, Character: 11},
	}, loc.Range)
}

func TestDefinitionNotFound(t *testing.T) {
	path := writeDockerfile(t, sample)

	out, err := execute(t, "", "definition", "--json", "-f", path, "8:14")
	require.Error(t, err)
	assert.Equal(t, "null\n", out)
	assert.Equal(t, ExitNotFound, exitCode(err))
	assert.Equal(t, "Did you mean: build?", suggestionHint(err))

	_, err = execute(t, "", "definition", "-f", path, "0:1")
	require.Error(t, err)
	assert.Equal(t, ExitNotFound, exitCode(err))
	assert.Empty(t, suggestionHint(err))
}

func TestDefinitionFromStdin(t *testing.T) {
	out, err := execute(t, "ARG a\nRUN echo $a\n", "definition", "-f", "-", "1:10")
	require.NoError(t, err)
	assert.Equal(t, "stdin:0:4-0:5\n", out)
}

func TestMissingFile(t *testing.T) {
	_, err := execute(t, "", "definition", "-f", filepath.Join(t.TempDir(), "nope"), "0:0")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrFileNotFound))
	assert.Equal(t, ExitIOError, exitCode(err))
}

func TestInstructionsCommand(t *testing.T) {
	path := writeDockerfile(t, sample)

	out, err := execute(t, "", "instructions", "--json", "-f", path)
	require.NoError(t, err)
	var views []instructionView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 7)

	assert.Equal(t, "FROM", views[0].Keyword)
	assert.Equal(t, "ENV", views[2].Keyword)
	assert.Equal(t, "CGO_ENABLED=0     GOOS=linux", views[2].Arguments)
	assert.Equal(t, uint32(3), views[2].Range.End.Line)
	assert.Equal(t, "plain", views[3].Form)

	out, err = execute(t, "CMD [\"a\"]\nfoo bar\n", "instructions", "-f", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "CMD")
	assert.Contains(t, out, "array")
	assert.Contains(t, out, "FOO?")
}

func TestSymbolsCommand(t *testing.T) {
	path := writeDockerfile(t, sample)

	out, err := execute(t, "", "symbols", "--json", "-f", path)
	require.NoError(t, err)
	var views []symbolView
	require.NoError(t, json.Unmarshal([]byte(out), &views))

	var names []string
	for _, v := range views {
		names = append(names, v.Kind+" "+v.Name)
	}
	assert.Equal(t, []string{"ARG VERSION", "ENV CGO_ENABLED", "ENV GOOS", "STAGE build"}, names)
	require.NotNil(t, views[0].Value)

	out, err = execute(t, "", "symbols", "--json", "-f", "-")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}
