//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/crisiscore-systems/textsplitter"
	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/dashboard"
	"github.com/crisiscore-systems/textsplitter/dashboard/views"
)

// TestApp serves the dashboard under /splitter/ and a page with standalone buttons
// under /buttons. Input files are written to InputDir.
type TestApp struct {
	Server       *httptest.Server
	DashboardURL string
	ButtonsURL   string
	Splitter     *textsplitter.Instance
	Logger       *slog.Logger
	InputDir     string

	mu        sync.Mutex
	buttonRef views.ElementRef
}

// NewTestApp creates a test application with a collecting logger.
func NewTestApp(t *testing.T) *TestApp {
	t.Helper()

	inst := textsplitter.NewWithOptions(textsplitter.Options{
		LogCapacity: 100,
		JobCapacity: 100,
	})
	logger := slog.New(inst.CollectSlogLogs(collector.CollectSlogLogsOptions{
		Level: slog.LevelDebug,
	}))
	inst.SetLogger(logger)

	app := &TestApp{
		Splitter: inst,
		Logger:   logger,
		InputDir: t.TempDir(),
	}

	mux := http.NewServeMux()
	mux.Handle("/splitter/", http.StripPrefix("/splitter", inst.DashboardHandler("/splitter",
		dashboard.WithOutputDir(filepath.Join(app.InputDir, "sections")),
	)))
	mux.HandleFunc("GET /buttons", app.serveButtons)

	app.Server = httptest.NewServer(mux)
	app.DashboardURL = app.Server.URL + "/splitter/"
	app.ButtonsURL = app.Server.URL + "/buttons"

	return app
}

// serveButtons renders one button per variant. The first button has no ID and
// gets one through its ref.
func (ta *TestApp) serveButtons(w http.ResponseWriter, r *http.Request) {
	ctx := views.WithHandlerOptions(r.Context(), views.HandlerOptions{PathPrefix: "/splitter"})

	ref := &views.ElementRef{}
	body := components(
		views.ButtonWithLabel(views.ButtonProps{
			Type:    "button",
			Ref:     ref,
			OnClick: "window.clicks = (window.clicks || 0) + 1",
		}, "Referenced"),
		views.ButtonWithLabel(views.ButtonProps{
			ID:      "destructive",
			Type:    "button",
			Variant: views.ButtonVariantDestructive,
			Class:   "mt-4",
		}, "Delete"),
		views.ButtonWithLabel(views.ButtonProps{
			ID:    "override",
			Type:  "button",
			Class: "bg-green-600",
		}, "Override"),
		views.ButtonWithLabel(views.ButtonProps{
			ID:       "disabled",
			Type:     "button",
			Disabled: true,
			OnClick:  "window.disabledClicks = (window.disabledClicks || 0) + 1",
		}, "Disabled"),
	)

	var b strings.Builder
	if err := views.Page("Buttons", body).Render(ctx, &b); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ta.mu.Lock()
	ta.buttonRef = *ref
	ta.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, b.String())
}

func components(cs ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range cs {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// ButtonRef returns the ref of the referenced button from the last /buttons render.
func (ta *TestApp) ButtonRef() views.ElementRef {
	ta.mu.Lock()
	defer ta.mu.Unlock()
	return ta.buttonRef
}

// WriteInput writes an input file and returns its path.
func (ta *TestApp) WriteInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(ta.InputDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Close shuts down the test application and releases resources.
func (ta *TestApp) Close() {
	ta.Splitter.Close()
	ta.Server.Close()
}
