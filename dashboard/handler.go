package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"

	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/dashboard/static"
	"github.com/crisiscore-systems/textsplitter/dashboard/views"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

type Handler struct {
	jobCollector *collector.JobCollector
	logCollector *collector.LogCollector

	options handlerOptions

	done      chan struct{}
	closeOnce sync.Once

	mux http.Handler
}

// NewHandler creates the dashboard handler. Jobs started from the dashboard are
// recorded in jobCollector, the output panel shows the records of logCollector.
func NewHandler(jobCollector *collector.JobCollector, logCollector *collector.LogCollector, opts ...HandlerOption) *Handler {
	options := defaultHandlerOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	mux := http.NewServeMux()
	handler := &Handler{
		jobCollector: jobCollector,
		logCollector: logCollector,

		options: options,

		done: make(chan struct{}),

		mux: setHandlerOptions(options, mux),
	}

	mux.HandleFunc("GET /{$}", handler.root)
	mux.HandleFunc("POST /split", handler.split)
	mux.HandleFunc("POST /clear", handler.clear)
	mux.HandleFunc("GET /jobs/{jobId}", handler.getJobDetails)
	mux.HandleFunc("GET /jobs/{jobId}/chunks/{index}", handler.getChunkPreview)
	mux.HandleFunc("GET /logs-sse", handler.getLogsSSE)

	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static.Assets)))

	return handler
}

func setHandlerOptions(options handlerOptions, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = views.WithHandlerOptions(ctx, views.HandlerOptions{
			PathPrefix: options.PathPrefix,
		})
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Close ends all open log streams.
func (h *Handler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

func (h *Handler) rootURL() string {
	return strings.TrimSuffix(h.options.PathPrefix, "/") + "/"
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("job")
	var selectedJob *collector.Job
	if idStr != "" {
		jobID, err := uuid.FromString(idStr)
		if err != nil {
			http.Error(w, "Invalid job id", http.StatusBadRequest)
			return
		}
		job, exists := h.jobCollector.GetJob(jobID)
		if !exists {
			http.Redirect(w, r, h.rootURL(), http.StatusTemporaryRedirect)
			return
		}
		selectedJob = job
	}

	h.renderDashboard(w, r, views.SplitFormValues{}, "", selectedJob, http.StatusOK)
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, form views.SplitFormValues, formError string, selectedJob *collector.Job, status int) {
	templ.Handler(views.Dashboard(views.DashboardProps{
		Form:          form,
		FormError:     formError,
		Jobs:          h.jobCollector.GetJobs(h.options.JobListLimit),
		SelectedJob:   selectedJob,
		TruncateAfter: int(h.options.JobListLimit),
		Logs:          h.logCollector.Tail(h.options.LogTail),
		LogsDropped:   h.logCollector.Dropped(),
	}), templ.WithStatus(status)).ServeHTTP(w, r)
}

type resultSplitter interface {
	Split(ctx context.Context, inputPath string) (*splitter.Result, error)
}

func (h *Handler) newSplitter(kind collector.JobKind, maxSize int) (resultSplitter, error) {
	switch kind {
	case collector.JobKindSections:
		options := h.options.SectionOptions
		options.MaxSectionSize = maxSize
		if options.MinSectionSize > maxSize {
			options.MinSectionSize = 0
		}
		if options.OutputDir == "" {
			options.OutputDir = h.options.OutputDir
		}
		if options.Logger == nil {
			options.Logger = h.options.Logger
		}
		return splitter.NewSectionSplitter(options)
	default:
		return splitter.NewLineSplitter(splitter.LineOptions{
			MaxChunkSize: int64(maxSize),
			OutputDir:    h.options.OutputDir,
			Logger:       h.options.Logger,
		})
	}
}

// split validates the form, runs the selected splitter as a job and shows the job.
func (h *Handler) split(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := views.SplitFormValues{
		Input:       strings.TrimSpace(r.PostForm.Get("input")),
		ChunkSizeKB: strings.TrimSpace(r.PostForm.Get("chunkSizeKB")),
		Mode:        r.PostForm.Get("mode"),
	}
	fail := func(msg string) {
		h.renderDashboard(w, r, form, msg, nil, http.StatusBadRequest)
	}

	kind, ok := collector.ParseJobKind(form.Mode)
	if !ok {
		fail(fmt.Sprintf("Unknown mode %q", form.Mode))
		return
	}
	if form.Input == "" {
		fail("Input file is required")
		return
	}
	chunkSizeKB, err := strconv.Atoi(form.ChunkSizeKB)
	if err != nil || chunkSizeKB <= 0 || chunkSizeKB > math.MaxInt/1024 {
		fail("Chunk size must be a positive number of KB")
		return
	}
	if info, err := os.Stat(form.Input); err != nil || !info.Mode().IsRegular() {
		fail("Input file not found")
		return
	}

	s, err := h.newSplitter(kind, chunkSizeKB*1024)
	if err != nil {
		fail(err.Error())
		return
	}

	job, err := h.jobCollector.Run(kind, form.Input, func() (*splitter.Result, error) {
		return s.Split(r.Context(), form.Input)
	})
	if err != nil {
		h.options.Logger.Error("Split failed", "input", form.Input, "error", err)
	}

	if r.Header.Get("HX-Request") == "true" {
		templ.Handler(views.JobDetail(job)).ServeHTTP(w, r)
		return
	}
	http.Redirect(w, r, h.rootURL()+"?job="+job.ID.String(), http.StatusSeeOther)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.logCollector.Clear()
	http.Redirect(w, r, h.rootURL(), http.StatusSeeOther)
}

func (h *Handler) lookupJob(w http.ResponseWriter, r *http.Request) (*collector.Job, bool) {
	jobID, err := uuid.FromString(r.PathValue("jobId"))
	if err != nil {
		http.Error(w, "Invalid job id", http.StatusBadRequest)
		return nil, false
	}

	job, exists := h.jobCollector.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return nil, false
	}
	return job, true
}

func (h *Handler) getJobDetails(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	templ.Handler(views.JobDetail(job)).ServeHTTP(w, r)
}

// getChunkPreview shows the beginning of a chunk file, limited to PreviewLimit bytes.
func (h *Handler) getChunkPreview(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookupJob(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "Invalid chunk index", http.StatusBadRequest)
		return
	}
	if job.Result == nil || index < 0 || index >= len(job.Result.Chunks) {
		http.Error(w, "Chunk not found", http.StatusNotFound)
		return
	}
	chunk := job.Result.Chunks[index]

	f, err := os.Open(chunk.Path)
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "Chunk file not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not open chunk", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	buf, err := collector.ReadLimited(f, h.options.PreviewLimit)
	if err != nil {
		http.Error(w, "Could not read chunk", http.StatusInternalServerError)
		return
	}

	props := views.ChunkPreviewProps{
		Job:       job,
		Chunk:     chunk,
		Content:   strings.ToValidUTF8(buf.Preview(), "\uFFFD"),
		Truncated: buf.Truncated(),
		Shown:     int64(buf.Len()),
	}
	if r.Header.Get("HX-Request") == "true" {
		templ.Handler(views.ChunkPreview(props)).ServeHTTP(w, r)
		return
	}
	templ.Handler(views.ChunkPreviewPage(props)).ServeHTTP(w, r)
}

// getLogsSSE streams new log records and finished jobs as server-sent events
func (h *Handler) getLogsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // For NGINX proxy

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	recordCh := h.logCollector.Subscribe(ctx)
	jobCh := h.jobCollector.Subscribe(ctx)

	// Send a keep-alive message initially to ensure the connection is established
	fmt.Fprintf(w, "event: keepalive\ndata: connected\n\n")
	flusher.Flush()

	var buf bytes.Buffer
	for {
		var (
			event     string
			component templ.Component
		)
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case record, ok := <-recordCh:
			if !ok {
				return
			}
			event, component = "new-log", views.LogLine(record)
		case job, ok := <-jobCh:
			if !ok {
				return
			}
			event, component = "job-finished", views.JobListItem(job, false)
		}

		buf.Reset()
		if err := component.Render(ctx, &buf); err != nil {
			return
		}

		fmt.Fprintf(w, "event: %s\n", event)
		for _, line := range strings.Split(buf.String(), "\n") {
			fmt.Fprintf(w, "data: %s\n", line)
		}
		fmt.Fprintf(w, "\n")

		flusher.Flush()
	}
}
