package splitter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

const (
	DefaultMaxSectionSize   = 4096
	DefaultMinSectionSize   = 512
	DefaultSectionOutputDir = "split_output"
)

// DefaultHeadingPatterns match markdown headers, title-like lines ending in a
// colon, numbered sections and ALL CAPS lines.
var DefaultHeadingPatterns = []string{
	`^#{1,6}\s+.+$`,
	`^[A-Z][^.!?]*[:]\s*$`,
	`^\d+\.\s+[A-Z][^.!?]*$`,
	`^[A-Z][A-Z\s]+$`,
}

type SectionOptions struct {
	// MaxSectionSize is the size in bytes above which a section is closed.
	// Default: 0, will use DefaultMaxSectionSize
	MaxSectionSize int
	// MinSectionSize is the size a section must reach before it may be closed.
	// Default: 0, will use DefaultMinSectionSize
	MinSectionSize int
	// HeadingPatterns are regular expressions (matched per line) marking possible section starts.
	// Default: nil, will use DefaultHeadingPatterns
	HeadingPatterns []string
	// OutputDir is where sections are written.
	// Default: "", will use DefaultSectionOutputDir
	OutputDir string
	// Logger receives progress.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// Section is a byte range [Start, End) of the content.
type Section struct {
	Start int
	End   int
}

func (s Section) Size() int {
	return s.End - s.Start
}

// SectionSplitter splits files at heading boundaries.
type SectionSplitter struct {
	maxSectionSize int
	minSectionSize int
	patterns       []*regexp.Regexp
	outputDir      string
	logger         *slog.Logger
}

// NewSectionSplitter creates a SectionSplitter and compiles its heading patterns.
func NewSectionSplitter(options SectionOptions) (*SectionSplitter, error) {
	maxSize := options.MaxSectionSize
	if maxSize == 0 {
		maxSize = DefaultMaxSectionSize
	}
	minSize := options.MinSectionSize
	if minSize == 0 {
		minSize = min(DefaultMinSectionSize, maxSize)
	}
	if maxSize < 0 || minSize < 0 || minSize > maxSize {
		return nil, fmt.Errorf("%w: min %d, max %d", ErrInvalidSectionSize, minSize, maxSize)
	}

	patterns := options.HeadingPatterns
	if patterns == nil {
		patterns = DefaultHeadingPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?m)" + p)
		if err != nil {
			return nil, fmt.Errorf("compiling heading pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	outputDir := options.OutputDir
	if outputDir == "" {
		outputDir = DefaultSectionOutputDir
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SectionSplitter{
		maxSectionSize: maxSize,
		minSectionSize: minSize,
		patterns:       compiled,
		outputDir:      outputDir,
		logger:         logger.With("component", "section-splitter"),
	}, nil
}

// FindSections returns contiguous sections covering content.
//
// Every heading match is a candidate boundary. Segments between candidates are
// appended to the current section until the next one would push it above the
// maximum size; the section is then closed if it has reached the minimum size,
// otherwise it keeps growing. A single segment may exceed the maximum size.
func (s *SectionSplitter) FindSections(content string) []Section {
	starts := []int{0}
	for _, re := range s.patterns {
		for _, loc := range re.FindAllStringIndex(content, -1) {
			starts = append(starts, loc[0])
		}
	}
	slices.Sort(starts)
	starts = slices.Compact(starts)
	starts = append(starts, len(content))

	var sections []Section
	current := Section{}
	for i := 1; i < len(starts); i++ {
		segmentEnd := starts[i]
		segmentSize := segmentEnd - current.End
		if segmentSize == 0 {
			continue
		}

		if current.Size()+segmentSize > s.maxSectionSize && current.Size() >= s.minSectionSize && current.Size() > 0 {
			sections = append(sections, current)
			current = Section{Start: current.End, End: current.End}
		}
		current.End = segmentEnd
	}

	if current.Size() > 0 {
		sections = append(sections, current)
	}

	return sections
}

// SectionPath returns the output path of section n (1-based) for inputPath.
func (s *SectionSplitter) SectionPath(inputPath string, n int) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_section_%03d%s", stem, n, ext))
}

// SplitFile implements Splitter.
func (s *SectionSplitter) SplitFile(ctx context.Context, inputPath string) ([]string, error) {
	result, err := s.Split(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	return result.Paths(), nil
}

// Split writes every section of inputPath to its own file in the output directory.
func (s *SectionSplitter) Split(ctx context.Context, inputPath string) (*Result, error) {
	raw, err := os.ReadFile(inputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	content, encoding, err := decodeContent(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{
		Input:    inputPath,
		Encoding: encoding,
	}
	for i, section := range s.FindSections(content) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := content[section.Start:section.End]
		chunk := Chunk{
			Index: i,
			Path:  s.SectionPath(inputPath, i+1),
			Size:  int64(len(text)),
			Lines: strings.Count(text, "\n"),
		}
		if err := os.WriteFile(chunk.Path, []byte(text), 0o644); err != nil {
			return nil, fmt.Errorf("writing section %d: %w", i+1, err)
		}
		s.logger.DebugContext(ctx, "Created section", slog.String("path", chunk.Path), slog.Int64("size", chunk.Size))
		result.Chunks = append(result.Chunks, chunk)
	}

	s.logger.InfoContext(ctx, "Split file into sections",
		slog.String("input", inputPath),
		slog.Int("sections", len(result.Chunks)),
	)

	return result, nil
}

var _ Splitter = (*SectionSplitter)(nil)
