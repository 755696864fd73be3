package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	// Keep a .textsplitter.yml of the working directory out of the tests
	args = append([]string{"--config", emptyConfig(t)}, args...)

	var stdout, stderr bytes.Buffer
	_, err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.txt", strings.Repeat("0123456789\n", 10))
	outDir := filepath.Join(dir, "out")

	stdout, _, err := run(t, "split", input, "-s", "33", "-o", outDir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Created 4 files from "+input)
	for i := range 4 {
		assert.FileExists(t, filepath.Join(outDir, "notes.txt.cc00"+string(rune('0'+i))+".txt"))
	}
}

func TestSplitCommand_InvalidSize(t *testing.T) {
	input := writeFile(t, t.TempDir(), "notes.txt", "line\n")

	_, _, err := run(t, "split", input, "-s", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split.chunk_size")
}

func TestSplitCommand_InputNotFound(t *testing.T) {
	_, _, err := run(t, "split", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, splitter.ErrInputNotFound)
}

func TestSplitCommand_SizeFromEnv(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.txt", strings.Repeat("0123456789\n", 10))
	t.Setenv("TEXTSPLITTER_SPLIT_CHUNK_SIZE", "55")

	stdout, _, err := run(t, "split", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created 2 files")
}

func TestSectionsCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "doc.md", "# A\n"+strings.Repeat("a", 40)+"\n# B\n"+strings.Repeat("b", 40)+"\n")
	outDir := filepath.Join(dir, "parts")

	stdout, _, err := run(t, "sections", input, "--max", "50", "--min", "10", "-o", outDir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Created 2 files")
	assert.FileExists(t, filepath.Join(outDir, "doc_section_001.md"))
	assert.FileExists(t, filepath.Join(outDir, "doc_section_002.md"))
}

func TestSectionsCommand_MinAboveMax(t *testing.T) {
	input := writeFile(t, t.TempDir(), "doc.md", "# A\n")

	_, _, err := run(t, "sections", input, "--max", "10", "--min", "20")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sections.min_size 20 is above sections.max_size 10")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "alpha\n")
	b := writeFile(t, dir, "b.txt", "beta\n")
	writeFile(t, dir, "c.md", "gamma\n")

	stdout, _, err := run(t, "batch", dir, "-j", "2")
	require.NoError(t, err)

	assert.Contains(t, stdout, "ok    "+a+" (1 files)")
	assert.Contains(t, stdout, "ok    "+b+" (1 files)")
	assert.Contains(t, stdout, "Processed 2 files, 0 failed")
	assert.FileExists(t, a+".cc000.txt")
}

func TestBatchCommand_UnknownMode(t *testing.T) {
	_, _, err := run(t, "batch", t.TempDir(), "--mode", "words")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.mode")
}

func TestLogLevel(t *testing.T) {
	input := writeFile(t, t.TempDir(), "notes.txt", "line\n")

	_, stderr, err := run(t, "--log-level", "debug", "split", input)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Created chunk")

	_, stderr, err = run(t, "split", input)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Created chunk")
	assert.Contains(t, stderr, "Split file into chunks")

	_, _, err = run(t, "--log-level", "loud", "split", input)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	_, err := Execute(context.Background(), []string{"version"}, &stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout.String(), "textsplitter "))
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, "merge")
	assert.Error(t, err)
}
