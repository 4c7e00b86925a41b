package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFixture(t *testing.T) {
	path := writeFixture(t, abcdFixture)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Fixture abcd is valid (8 vertices, 5 patterns)")
}

func TestValidateFixtureJSON(t *testing.T) {
	path := writeFixture(t, abcdFixture)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var result ValidationResult
	resp := decodeData(t, buf.Bytes(), &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, "abcd", result.Fixture)
	assert.Equal(t, 8, result.Vertices)
	assert.Equal(t, 5, result.Patterns)
	assert.Empty(t, result.Violations)
}

func TestValidateNonExistentFixture(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.cue")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E005")
}

func TestValidateReportsAllErrors(t *testing.T) {
	path := writeFixture(t, `
graph: {
	tokens: ["a", "b"]
	patterns: {
		b: [["a", "a"]]
		ab: [["a", "b"]]
		one: [["ab"]]
		wide: [["ab", "b"], ["a", "b"]]
	}
}
`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var errs []CLIError
	resp := decodeData(t, buf.Bytes(), &errs)
	assert.Equal(t, "error", resp.Status)

	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.ElementsMatch(t, []string{"E202", "E207", "E204"}, codes)
}

func TestValidateBadMode(t *testing.T) {
	path := writeFixture(t, `
graph: {
	mode: "lines"
	tokens: ["a"]
}
`)

	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), ErrCodeMode)
}
