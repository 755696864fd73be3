package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

const DefaultBatchPattern = "*.txt"

type BatchStatus string

const (
	BatchStatusSuccess BatchStatus = "success"
	BatchStatusError   BatchStatus = "error"
)

// BatchResult is the outcome for one file of a batch.
type BatchResult struct {
	Status      BatchStatus
	OutputFiles []string
	Error       string
}

type BatchOptions struct {
	// Concurrency is the number of files split at the same time.
	// Default: 0, will use 1
	Concurrency int
	// Logger receives per-file failures.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// BatchSplitter applies a Splitter to all matching files of a directory.
type BatchSplitter struct {
	splitter    Splitter
	concurrency int
	logger      *slog.Logger
}

func NewBatchSplitter(splitter Splitter, options BatchOptions) *BatchSplitter {
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchSplitter{
		splitter:    splitter,
		concurrency: concurrency,
		logger:      logger.With("component", "batch-splitter"),
	}
}

// ProcessDirectory splits every regular file in dir matching pattern.
// Files named like splitter output are skipped.
// Failures of single files are reported in the returned map keyed by file path;
// only an invalid pattern or a cancelled context fail the whole batch.
func (b *BatchSplitter) ProcessDirectory(ctx context.Context, dir, pattern string) (map[string]BatchResult, error) {
	if pattern == "" {
		pattern = DefaultBatchPattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("matching %q: %w", pattern, err)
	}

	var (
		results   = make(map[string]BatchResult, len(matches))
		resultsMu sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() || IsOutputFile(path) {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := BatchResult{Status: BatchStatusSuccess}
			outputFiles, err := b.splitter.SplitFile(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				b.logger.WarnContext(gctx, "Failed to split file", slog.String("path", path), slog.String("error", err.Error()))
				result = BatchResult{Status: BatchStatusError, Error: err.Error()}
			} else {
				result.OutputFiles = outputFiles
			}

			resultsMu.Lock()
			results[path] = result
			resultsMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
