// Package splitter splits text files into smaller files.
//
// LineSplitter produces size-bounded chunks that never break a line.
// SectionSplitter prefers heading boundaries (markdown headers, numbered
// sections, title lines) and keeps sections between a minimum and maximum
// size. BatchSplitter applies either one to every matching file of a
// directory.
package splitter

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
)

var (
	// ErrInvalidChunkSize is returned for a non-positive maximum chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	// ErrInvalidSectionSize is returned for non-positive section sizes or a minimum above the maximum.
	ErrInvalidSectionSize = errors.New("invalid section size")
	// ErrInputNotFound is returned when the input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
)

// Splitter splits a single file and returns the paths of the written parts.
type Splitter interface {
	SplitFile(ctx context.Context, inputPath string) ([]string, error)
}

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

// Chunk describes one written output file.
type Chunk struct {
	Index int
	Path  string
	// Size is the number of bytes written.
	Size  int64
	Lines int
}

// Result is the outcome of splitting one file.
type Result struct {
	Input        string
	Chunks       []Chunk
	SkippedLines int
	Encoding     string
}

// Paths returns the output paths in chunk order.
func (r *Result) Paths() []string {
	paths := make([]string, len(r.Chunks))
	for i, c := range r.Chunks {
		paths[i] = c.Path
	}
	return paths
}

// TotalSize returns the sum of all chunk sizes.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, c := range r.Chunks {
		total += c.Size
	}
	return total
}

var outputNamePattern = regexp.MustCompile(`(\.cc\d{3}\.txt|_section_\d{3}(\.[^.]*)?)$`)

// IsOutputFile reports whether path is named like a chunk or section written by a splitter.
func IsOutputFile(path string) bool {
	return outputNamePattern.MatchString(filepath.Base(path))
}
