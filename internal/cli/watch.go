package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crisiscore-systems/textsplitter/internal/watch"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Split files as they are created or modified",
		Long: `Watch DIR and split every file matching --pattern once it was created or
modified and no further change happened for --debounce. Splitter output in DIR
is ignored. Runs until interrupted.

Examples:
  textsplitter watch ./inbox
  textsplitter watch ./inbox --pattern '*.md' --mode sections --debounce 2s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSplitter(a.config.Batch.Mode)
			if err != nil {
				return err
			}

			fw, err := watch.NewFileWatcher(a.config.Watch.Debounce, a.logger)
			if err != nil {
				return err
			}
			fw.AddFilter(watch.PatternFilter(a.config.Batch.Pattern))
			fw.AddFilter(watch.NoOutputFilter)
			fw.AddFilter(watch.NoHiddenFilter)
			fw.AddHandler(splitChangedFiles(s, a.logger))
			if err := fw.AddPath(args[0]); err != nil {
				return err
			}

			a.logger.InfoContext(cmd.Context(), "Watching for files", slog.String("dir", args[0]), slog.String("pattern", a.config.Batch.Pattern))
			return fw.Run(cmd.Context())
		},
	}

	cmd.Flags().String("pattern", splitter.DefaultBatchPattern, "glob pattern of files to split")
	cmd.Flags().String("mode", "lines", "split mode (lines, sections)")
	cmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet time after the last change before a file is split")
	bindFlag(cmd.Flags(), "pattern", "batch.pattern")
	bindFlag(cmd.Flags(), "mode", "batch.mode")
	bindFlag(cmd.Flags(), "debounce", "watch.debounce")

	return cmd
}

// splitChangedFiles splits created and modified regular files. Failures are logged per file.
func splitChangedFiles(s splitter.Splitter, logger *slog.Logger) watch.ChangeHandler {
	return func(ctx context.Context, events []watch.ChangeEvent) error {
		for _, event := range events {
			if event.Type != watch.EventTypeCreated && event.Type != watch.EventTypeModified {
				continue
			}
			if info, err := os.Stat(event.Path); err != nil || !info.Mode().IsRegular() {
				continue
			}

			paths, err := s.SplitFile(ctx, event.Path)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to split file", slog.String("path", event.Path), slog.String("error", err.Error()))
				continue
			}
			logger.InfoContext(ctx, "Split changed file",
				slog.String("path", event.Path),
				slog.String("change", event.Type.String()),
				slog.Int("files", len(paths)),
			)
		}
		return nil
	}
}
