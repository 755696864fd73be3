package splitter_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readChunks(t *testing.T, result *splitter.Result) []string {
	t.Helper()
	contents := make([]string, len(result.Chunks))
	for i, c := range result.Chunks {
		b, err := os.ReadFile(c.Path)
		require.NoError(t, err)
		contents[i] = string(b)
	}
	return contents
}

func TestNewLineSplitter_InvalidChunkSize(t *testing.T) {
	_, err := splitter.NewLineSplitter(splitter.LineOptions{MaxChunkSize: -1})
	assert.ErrorIs(t, err, splitter.ErrInvalidChunkSize)
}

func TestNewLineSplitter_DefaultChunkSize(t *testing.T) {
	s, err := splitter.NewLineSplitter(splitter.LineOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(splitter.DefaultMaxChunkSize), s.MaxChunkSize())
}

func TestLineSplitter_InputNotFound(t *testing.T) {
	s, err := splitter.NewLineSplitter(splitter.LineOptions{})
	require.NoError(t, err)

	_, err = s.Split(context.Background(), filepath.Join(t.TempDir(), "nonexistent.txt"))
	assert.ErrorIs(t, err, splitter.ErrInputNotFound)
}

func TestLineSplitter_Split(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "test.txt", "This is a test file\nfor testing the splitter\nwith multiple lines")

	s, err := splitter.NewLineSplitter(splitter.LineOptions{MaxChunkSize: 30})
	require.NoError(t, err)

	result, err := s.Split(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 3)
	assert.Equal(t, splitter.EncodingUTF8, result.Encoding)
	assert.Equal(t, 0, result.SkippedLines)
	assert.Equal(t, []string{
		"This is a test file\n",
		"for testing the splitter\n",
		"with multiple lines",
	}, readChunks(t, result))

	assert.Equal(t, input+".cc000.txt", result.Chunks[0].Path)
	assert.Equal(t, input+".cc001.txt", result.Chunks[1].Path)
	assert.Equal(t, input+".cc002.txt", result.Chunks[2].Path)
	for _, c := range result.Chunks {
		assert.LessOrEqual(t, c.Size, int64(30))
		assert.Equal(t, 1, c.Lines)
	}
}

func TestLineSplitter_GroupsLinesUpToMax(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "test.txt", "aaaa\nbbbb\ncccc\ndddd\n")

	s, err := splitter.NewLineSplitter(splitter.LineOptions{MaxChunkSize: 10})
	require.NoError(t, err)

	result, err := s.Split(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\ndddd\n"}, readChunks(t, result))
	assert.Equal(t, int64(20), result.TotalSize())
}

func TestLineSplitter_SkipsOversizedLine(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "test.txt", "short\n"+strings.Repeat("x", 50)+"\nend\n")

	s, err := splitter.NewLineSplitter(splitter.LineOptions{MaxChunkSize: 20})
	require.NoError(t, err)

	result, err := s.Split(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedLines)
	assert.Equal(t, []string{"short\n", "end\n"}, readChunks(t, result))
}

func TestLineSplitter_EmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "empty.txt", "")

	s, err := splitter.NewLineSplitter(splitter.LineOptions{})
	require.NoError(t, err)

	result, err := s.Split(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
}

func TestLineSplitter_OutputDir(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "notes.txt", "one\ntwo\n")
	outputDir := filepath.Join(dir, "out", "nested")

	s, err := splitter.NewLineSplitter(splitter.LineOptions{MaxChunkSize: 4, OutputDir: outputDir})
	require.NoError(t, err)

	paths, err := s.SplitFile(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(outputDir, "notes.txt.cc000.txt"),
		filepath.Join(outputDir, "notes.txt.cc001.txt"),
	}, paths)
}

func TestLineSplitter_Latin1Fallback(t *testing.T) {
	dir := t.TempDir()
	// "café\n" in ISO-8859-1
	input := filepath.Join(dir, "latin1.txt")
	require.NoError(t, os.WriteFile(input, []byte{'c', 'a', 'f', 0xe9, '\n'}, 0o644))

	s, err := splitter.NewLineSplitter(splitter.LineOptions{})
	require.NoError(t, err)

	result, err := s.Split(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, splitter.EncodingLatin1, result.Encoding)
	assert.Equal(t, []string{"café\n"}, readChunks(t, result))
	assert.Equal(t, int64(len("café\n")), result.Chunks[0].Size)
}

func TestLineSplitter_ContextCancelled(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "test.txt", "one\ntwo\n")

	s, err := splitter.NewLineSplitter(splitter.LineOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Split(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)
}
