package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/crisiscore-systems/textsplitter"
	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/dashboard"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard",
		Long: `Start the dashboard. It splits files entered in the browser, lists recent
jobs with a preview of every chunk and streams the log output.

Examples:
  textsplitter serve
  textsplitter serve --host 0.0.0.0 --port 9000
  textsplitter serve --path-prefix /splitter`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("host", "localhost", "host to bind to")
	cmd.Flags().IntP("port", "p", 8080, "port to serve on")
	cmd.Flags().String("path-prefix", "", "path the dashboard is mounted at, e.g. /splitter")
	bindFlag(cmd.Flags(), "host", "server.host")
	bindFlag(cmd.Flags(), "port", "server.port")
	bindFlag(cmd.Flags(), "path-prefix", "server.path_prefix")

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	previewLimit, err := a.config.Server.PreviewLimitBytes()
	if err != nil {
		return err
	}

	inst := textsplitter.New()
	defer inst.Close()

	// Log records go to stderr and into the dashboard's output panel
	a.logger = a.fanOut(inst.CollectSlogLogs(collector.CollectSlogLogsOptions{Level: a.level}))
	inst.SetLogger(a.logger)

	prefix := strings.TrimSuffix(a.config.Server.PathPrefix, "/")
	handler := mountDashboard(prefix, inst.DashboardHandler(prefix,
		dashboard.WithPreviewLimit(previewLimit),
		dashboard.WithOutputDir(a.config.Split.OutputDir),
		dashboard.WithSectionOptions(a.sectionOptions()),
	))

	ln, err := net.Listen("tcp", a.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.config.Server.Addr(), err)
	}

	a.logger.InfoContext(ctx, "Dashboard started", slog.String("url", fmt.Sprintf("http://%s%s/", ln.Addr(), prefix)))

	return runServer(ctx, a.logger, ln, handler, inst.Close)
}

// mountDashboard serves handler below prefix and redirects / to it.
func mountDashboard(prefix string, handler http.Handler) http.Handler {
	mux := http.NewServeMux()
	if prefix == "" {
		mux.Handle("/", handler)
		return mux
	}
	mux.Handle(prefix+"/", http.StripPrefix(prefix, handler))
	mux.Handle("/{$}", http.RedirectHandler(prefix+"/", http.StatusTemporaryRedirect))
	return mux
}

// runServer serves handler on ln until ctx is done. closeStreams must end open log
// streams, Shutdown waits for them otherwise.
func runServer(ctx context.Context, logger *slog.Logger, ln net.Listener, handler http.Handler, closeStreams func()) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	closeStreams()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
