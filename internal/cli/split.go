package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/crisiscore-systems/textsplitter/internal/utils"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

func newSplitCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Split a file into chunks of whole lines",
		Long: `Split a file into chunks of at most SIZE bytes without breaking lines.
Chunks are written as FILE.cc000.txt, FILE.cc001.txt, ... next to the input
or into the output directory. Lines longer than SIZE are skipped with a warning.

Examples:
  textsplitter split big.txt                 # 1 MiB chunks
  textsplitter split big.txt -s 512KB        # 512,000 byte chunks
  textsplitter split big.txt -s 64KiB -o out # 65,536 byte chunks in ./out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := a.lineOptions()
			if err != nil {
				return err
			}
			s, err := splitter.NewLineSplitter(options)
			if err != nil {
				return err
			}

			result, err := s.Split(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringP("size", "s", "1MiB", "maximum chunk size in bytes or with unit (KB, MB, KiB, MiB)")
	cmd.Flags().StringP("output-dir", "o", "", "directory for chunks (default is next to the input)")
	bindFlag(cmd.Flags(), "size", "split.chunk_size")
	bindFlag(cmd.Flags(), "output-dir", "split.output_dir")

	return cmd
}

func printResult(w io.Writer, result *splitter.Result) {
	fmt.Fprintf(w, "Created %d files from %s (%s, %s)\n", len(result.Chunks), result.Input, utils.FormatSize(result.TotalSize()), result.Encoding)
	for _, chunk := range result.Chunks {
		fmt.Fprintf(w, "  %s\t%s\t%d lines\n", chunk.Path, utils.FormatSize(chunk.Size), chunk.Lines)
	}
	if result.SkippedLines > 0 {
		fmt.Fprintf(w, "Skipped %d lines exceeding the chunk size\n", result.SkippedLines)
	}
}
