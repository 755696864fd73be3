package cli

import (
	"github.com/spf13/cobra"

	"github.com/crisiscore-systems/textsplitter/splitter"
)

func newSectionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections FILE",
		Short: "Split a file at headings",
		Long: `Split a file into sections starting at headings: markdown headers,
title lines ending in a colon, numbered sections and ALL CAPS lines.
A section is closed before it would exceed --max bytes once it holds at least
--min bytes. Sections are written as NAME_section_001.EXT, ... into the output directory.

Examples:
  textsplitter sections manual.md
  textsplitter sections manual.md --max 8192 --min 1024 -o parts
  textsplitter sections notes.txt --pattern '^== .+$'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := splitter.NewSectionSplitter(a.sectionOptions())
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

	cmd.Flags().Int("max", splitter.DefaultMaxSectionSize, "maximum section size in bytes")
	cmd.Flags().Int("min", splitter.DefaultMinSectionSize, "minimum section size in bytes")
	cmd.Flags().StringP("output-dir", "o", splitter.DefaultSectionOutputDir, "directory for sections")
	cmd.Flags().StringSlice("pattern", nil, "heading pattern (regular expression, repeatable)")
	bindFlag(cmd.Flags(), "max", "sections.max_size")
	bindFlag(cmd.Flags(), "min", "sections.min_size")
	bindFlag(cmd.Flags(), "output-dir", "sections.output_dir")
	bindFlag(cmd.Flags(), "pattern", "sections.heading_patterns")

	return cmd
}
