package splitter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxChunkSize is 1 MiB.
const DefaultMaxChunkSize = 1024 * 1024

type LineOptions struct {
	// MaxChunkSize is the maximum size of a chunk in bytes.
	// Default: 0, will use DefaultMaxChunkSize
	MaxChunkSize int64
	// OutputDir is where chunks are written.
	// Default: "", chunks are written next to the input file
	OutputDir string
	// Logger receives progress and warnings.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// LineSplitter splits files into chunks of whole lines.
type LineSplitter struct {
	maxChunkSize int64
	outputDir    string
	logger       *slog.Logger
}

// NewLineSplitter creates a LineSplitter. A negative MaxChunkSize is rejected with ErrInvalidChunkSize.
func NewLineSplitter(options LineOptions) (*LineSplitter, error) {
	maxChunkSize := options.MaxChunkSize
	if maxChunkSize == 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if maxChunkSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, maxChunkSize)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &LineSplitter{
		maxChunkSize: maxChunkSize,
		outputDir:    options.OutputDir,
		logger:       logger.With("component", "line-splitter"),
	}, nil
}

// MaxChunkSize returns the configured maximum chunk size in bytes.
func (s *LineSplitter) MaxChunkSize() int64 {
	return s.maxChunkSize
}

// ChunkPath returns the output path of chunk n for inputPath.
func (s *LineSplitter) ChunkPath(inputPath string, n int) string {
	base := inputPath
	if s.outputDir != "" {
		base = filepath.Join(s.outputDir, filepath.Base(inputPath))
	}
	return fmt.Sprintf("%s.cc%03d.txt", base, n)
}

// SplitFile implements Splitter.
func (s *LineSplitter) SplitFile(ctx context.Context, inputPath string) ([]string, error) {
	result, err := s.Split(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	return result.Paths(), nil
}

// Split reads inputPath line by line and writes chunks of at most MaxChunkSize bytes.
// A line longer than MaxChunkSize on its own is skipped and counted in Result.SkippedLines.
// Input that is not valid UTF-8 is read as ISO-8859-1 and written as UTF-8.
func (s *LineSplitter) Split(ctx context.Context, inputPath string) (*Result, error) {
	f, err := os.Open(inputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	encoding, err := detectEncoding(f)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding input: %w", err)
	}
	if encoding != EncodingUTF8 {
		s.logger.WarnContext(ctx, "Input is not valid UTF-8, reading as ISO-8859-1", slog.String("input", inputPath))
	}

	if s.outputDir != "" {
		if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	result := &Result{
		Input:    inputPath,
		Encoding: encoding,
	}

	var (
		current     strings.Builder
		currentSize int64
		lines       int
	)

	flush := func() error {
		chunk := Chunk{
			Index: len(result.Chunks),
			Path:  s.ChunkPath(inputPath, len(result.Chunks)),
			Size:  currentSize,
			Lines: lines,
		}
		if err := os.WriteFile(chunk.Path, []byte(current.String()), 0o644); err != nil {
			return fmt.Errorf("writing chunk %d: %w", chunk.Index, err)
		}
		s.logger.DebugContext(ctx, "Created chunk", slog.String("path", chunk.Path), slog.Int64("size", chunk.Size))
		result.Chunks = append(result.Chunks, chunk)
		current.Reset()
		currentSize = 0
		lines = 0
		return nil
	}

	r := bufio.NewReader(decodingReader(f, encoding))
	lineNumber := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("reading input: %w", readErr)
		}

		if line != "" {
			lineNumber++
			lineSize := int64(len(line))

			if currentSize+lineSize > s.maxChunkSize && currentSize > 0 {
				if err := flush(); err != nil {
					return nil, err
				}
			}

			if lineSize <= s.maxChunkSize {
				current.WriteString(line)
				currentSize += lineSize
				lines++
			} else {
				result.SkippedLines++
				s.logger.WarnContext(ctx, "Skipping line exceeding chunk size",
					slog.Int("line", lineNumber),
					slog.Int64("size", lineSize),
					slog.Int64("maxChunkSize", s.maxChunkSize),
				)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if currentSize > 0 {
		if err := flush(); err != nil {
			return nil, err
		}
	}

	s.logger.InfoContext(ctx, "Split file into chunks",
		slog.String("input", inputPath),
		slog.Int("chunks", len(result.Chunks)),
		slog.Int("skippedLines", result.SkippedLines),
	)

	return result, nil
}

var _ Splitter = (*LineSplitter)(nil)
