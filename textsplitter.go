package textsplitter

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/dashboard"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

const (
	DefaultLogCapacity = 1000
	DefaultJobCapacity = 100
)

// Instance ties splitters to the collectors shown by the dashboard.
type Instance struct {
	logCollector *collector.LogCollector
	jobCollector *collector.JobCollector
	logger       *slog.Logger

	dashboardHandler *dashboard.Handler
}

func (i *Instance) Close() {
	if i.dashboardHandler != nil {
		i.dashboardHandler.Close()
	}
	i.logCollector.Close()
	i.jobCollector.Close()
}

type Options struct {
	// LogCapacity is the maximum number of log records to keep.
	// Default: 0, will use DefaultLogCapacity
	LogCapacity uint64
	// LogOptions are the options for the log collector.
	// Default: nil, will use collector.DefaultLogOptions()
	LogOptions *collector.LogOptions

	// JobCapacity is the maximum number of finished jobs to keep.
	// Default: 0, will use DefaultJobCapacity
	JobCapacity uint64
	// JobOptions are the options for the job collector.
	// Default: nil, will use collector.DefaultJobOptions()
	JobOptions *collector.JobOptions

	// Logger is used by splitters created through the instance.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// New creates a new instance with default options.
func New() *Instance {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a new instance with the specified options.
// Default options are the zero value of Options.
func NewWithOptions(options Options) *Instance {
	logCapacity := options.LogCapacity
	if logCapacity == 0 {
		logCapacity = DefaultLogCapacity
	}
	logOptions := collector.DefaultLogOptions()
	if options.LogOptions != nil {
		logOptions = *options.LogOptions
	}

	jobCapacity := options.JobCapacity
	if jobCapacity == 0 {
		jobCapacity = DefaultJobCapacity
	}
	jobOptions := collector.DefaultJobOptions()
	if options.JobOptions != nil {
		jobOptions = *options.JobOptions
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Instance{
		logCollector: collector.NewLogCollectorWithOptions(logCapacity, logOptions),
		jobCollector: collector.NewJobCollectorWithOptions(jobCapacity, jobOptions),
		logger:       logger,
	}
}

// CollectSlogLogs returns a slog.Handler that collects logs into the dashboard's output panel.
//
// You can use this handler with slog.New(slogmulti.Fanout(...)) to collect logs in addition to another slog handler.
func (i *Instance) CollectSlogLogs(options collector.CollectSlogLogsOptions) slog.Handler {
	return collector.NewSlogLogCollectorHandler(i.logCollector, options)
}

// SetLogger replaces the logger used by splitters created afterwards.
func (i *Instance) SetLogger(logger *slog.Logger) {
	i.logger = logger
}

// LineSplitter creates a LineSplitter logging to the instance logger unless options set one.
func (i *Instance) LineSplitter(options splitter.LineOptions) (*splitter.LineSplitter, error) {
	if options.Logger == nil {
		options.Logger = i.logger
	}
	return splitter.NewLineSplitter(options)
}

// SectionSplitter creates a SectionSplitter logging to the instance logger unless options set one.
func (i *Instance) SectionSplitter(options splitter.SectionOptions) (*splitter.SectionSplitter, error) {
	if options.Logger == nil {
		options.Logger = i.logger
	}
	return splitter.NewSectionSplitter(options)
}

// RunLines splits inputPath by lines and records the run as a job.
func (i *Instance) RunLines(ctx context.Context, inputPath string, options splitter.LineOptions) (*collector.Job, error) {
	s, err := i.LineSplitter(options)
	if err != nil {
		return nil, err
	}
	return i.jobCollector.Run(collector.JobKindLines, inputPath, func() (*splitter.Result, error) {
		return s.Split(ctx, inputPath)
	})
}

// RunSections splits inputPath by sections and records the run as a job.
func (i *Instance) RunSections(ctx context.Context, inputPath string, options splitter.SectionOptions) (*collector.Job, error) {
	s, err := i.SectionSplitter(options)
	if err != nil {
		return nil, err
	}
	return i.jobCollector.Run(collector.JobKindSections, inputPath, func() (*splitter.Result, error) {
		return s.Split(ctx, inputPath)
	})
}

// Jobs returns up to limit recorded jobs, newest first.
func (i *Instance) Jobs(limit uint64) []*collector.Job {
	return i.jobCollector.GetJobs(limit)
}

// DashboardHandler returns the dashboard. pathPrefix is where the handler is mounted
// (e.g. "/splitter"), the caller strips it before passing requests on.
func (i *Instance) DashboardHandler(pathPrefix string, opts ...dashboard.HandlerOption) http.Handler {
	opts = append([]dashboard.HandlerOption{
		dashboard.WithPathPrefix(pathPrefix),
		dashboard.WithLogger(i.logger),
	}, opts...)
	handler := dashboard.NewHandler(i.jobCollector, i.logCollector, opts...)
	i.dashboardHandler = handler
	return handler
}
