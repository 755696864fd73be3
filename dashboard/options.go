package dashboard

import (
	"log/slog"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

const (
	defaultPreviewLimit = 64 * 1024
	defaultJobListLimit = 50
	defaultLogTail      = 200
)

// handlerOptions holds configuration for a dashboard Handler.
// This is unexported; use HandlerOption functions to configure.
type handlerOptions struct {
	// PathPrefix is where the handler is mounted (e.g. "/splitter").
	PathPrefix string
	// PreviewLimit is the maximum number of bytes shown in a chunk preview.
	PreviewLimit int
	// JobListLimit limits the number of jobs shown in the job list.
	JobListLimit uint64
	// LogTail is the number of log records rendered with the page.
	LogTail int
	// OutputDir is where chunks of dashboard splits are written. Empty writes next to the input.
	OutputDir string
	// SectionOptions are the base options for section splits. The chunk size of the form
	// replaces MaxSectionSize.
	SectionOptions splitter.SectionOptions
	// Logger is passed to splitters started from the dashboard.
	Logger *slog.Logger
}

func defaultHandlerOptions() handlerOptions {
	return handlerOptions{
		PreviewLimit: defaultPreviewLimit,
		JobListLimit: defaultJobListLimit,
		LogTail:      defaultLogTail,
	}
}

// HandlerOption configures a dashboard Handler.
type HandlerOption func(*handlerOptions)

// WithPathPrefix sets the path prefix where the handler is mounted.
// For example, "/splitter" if mounted at that path.
// This is used for generating correct URLs in the dashboard.
func WithPathPrefix(prefix string) HandlerOption {
	return func(o *handlerOptions) {
		o.PathPrefix = prefix
	}
}

// WithPreviewLimit sets the maximum number of bytes shown in a chunk preview.
// Default is 64 KiB if not specified.
func WithPreviewLimit(limit int) HandlerOption {
	return func(o *handlerOptions) {
		if limit > 0 {
			o.PreviewLimit = limit
		}
	}
}

// WithJobListLimit limits the number of jobs shown in the job list.
// Default is 50 if not specified.
func WithJobListLimit(limit uint64) HandlerOption {
	return func(o *handlerOptions) {
		if limit > 0 {
			o.JobListLimit = limit
		}
	}
}

// WithOutputDir sets the directory chunks of dashboard splits are written to.
func WithOutputDir(dir string) HandlerOption {
	return func(o *handlerOptions) {
		o.OutputDir = dir
	}
}

// WithSectionOptions sets the base options for section splits.
func WithSectionOptions(options splitter.SectionOptions) HandlerOption {
	return func(o *handlerOptions) {
		o.SectionOptions = options
	}
}

// WithLogger sets the logger passed to splitters. Records logged there show up in the
// output panel if the logger feeds the handler's LogCollector.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		o.Logger = logger
	}
}
