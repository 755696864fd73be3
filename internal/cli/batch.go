package cli

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

func newBatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Split every matching file of a directory",
		Long: `Split every file of DIR matching --pattern. Failures of single files are
reported and do not stop the batch; the command fails if any file failed.

Examples:
  textsplitter batch ./docs
  textsplitter batch ./docs --pattern '*.md' --mode sections -j 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSplitter(a.config.Batch.Mode)
			if err != nil {
				return err
			}

			batch := splitter.NewBatchSplitter(s, splitter.BatchOptions{
				Concurrency: a.config.Batch.Concurrency,
				Logger:      a.logger,
			})
			results, err := batch.ProcessDirectory(cmd.Context(), args[0], a.config.Batch.Pattern)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			paths := lo.Keys(results)
			slices.Sort(paths)
			for _, path := range paths {
				result := results[path]
				if result.Status == splitter.BatchStatusSuccess {
					fmt.Fprintf(w, "ok    %s (%d files)\n", path, len(result.OutputFiles))
				} else {
					fmt.Fprintf(w, "error %s: %s\n", path, result.Error)
				}
			}

			failed := lo.CountBy(lo.Values(results), func(r splitter.BatchResult) bool {
				return r.Status == splitter.BatchStatusError
			})
			fmt.Fprintf(w, "Processed %d files, %d failed\n", len(results), failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().String("pattern", splitter.DefaultBatchPattern, "glob pattern of files to split")
	cmd.Flags().String("mode", "lines", "split mode (lines, sections)")
	cmd.Flags().IntP("concurrency", "j", 4, "number of files split at the same time")
	bindFlag(cmd.Flags(), "pattern", "batch.pattern")
	bindFlag(cmd.Flags(), "mode", "batch.mode")
	bindFlag(cmd.Flags(), "concurrency", "batch.concurrency")

	return cmd
}
