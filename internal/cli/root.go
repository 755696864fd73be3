// Package cli provides the textsplitter command-line interface.
//
// Configuration is read with clear precedence:
//  1. Command-line flags (--size, --port, etc.) - highest priority
//  2. Environment variables (TEXTSPLITTER_SPLIT_CHUNK_SIZE, TEXTSPLITTER_SERVER_PORT, etc.)
//  3. Configuration file (--config or .textsplitter.yml) - lowest priority
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/internal/config"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

// configKeyAnnotation marks flags that override a configuration key.
const configKeyAnnotation = "textsplitter/config-key"

// app is the state shared by all commands of one invocation.
type app struct {
	cfgFile string

	config  *config.Config
	level   slog.Level
	stderr  io.Writer
	handler slog.Handler
	logger  *slog.Logger
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "textsplitter",
		Short: "Split large text files into smaller files",
		Long: `textsplitter splits large text files into smaller files without breaking lines.

Modes:
  split      chunks of at most a given size, line boundaries preserved
  sections   sections starting at headings, between a minimum and maximum size

Quick Start:
  textsplitter split big.txt -s 512KB       Split into 512 KB chunks
  textsplitter sections manual.md           Split at headings
  textsplitter batch ./docs --mode lines    Split every *.txt file of a directory
  textsplitter watch ./inbox                Split files as they arrive
  textsplitter serve                        Start the dashboard`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .textsplitter.yml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	bindFlag(rootCmd.PersistentFlags(), "log-level", "log-level")

	rootCmd.AddCommand(
		newSplitCommand(a),
		newSectionsCommand(a),
		newBatchCommand(a),
		newWatchCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)

	return rootCmd, a
}

// Execute runs the command line and returns the logger used, so the caller can report errors with it.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) (*slog.Logger, error) {
	rootCmd, a := newRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	logger := a.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	return logger, err
}

// bindFlag overrides config key with the flag when it is set on the command line.
func bindFlag(flags *pflag.FlagSet, flagName, key string) {
	_ = flags.SetAnnotation(flagName, configKeyAnnotation, []string{key})
}

func bindAnnotatedFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(keys[0], f)
	})
	return bindErr
}

// setup loads the configuration and creates the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	v, err := config.New(a.cfgFile)
	if err != nil {
		return err
	}
	if err := bindAnnotatedFlags(v, cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.config = cfg
	a.level = level
	a.stderr = cmd.ErrOrStderr()
	a.handler = slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})
	a.logger = slog.New(a.handler)

	return nil
}

// fanOut returns a logger writing to stderr and to extra handlers.
func (a *app) fanOut(extra ...slog.Handler) *slog.Logger {
	return slog.New(slogmulti.Fanout(append([]slog.Handler{a.handler}, extra...)...))
}

func (a *app) lineOptions() (splitter.LineOptions, error) {
	size, err := a.config.Split.ChunkSizeBytes()
	if err != nil {
		return splitter.LineOptions{}, err
	}
	return splitter.LineOptions{
		MaxChunkSize: size,
		OutputDir:    a.config.Split.OutputDir,
		Logger:       a.logger,
	}, nil
}

func (a *app) sectionOptions() splitter.SectionOptions {
	return splitter.SectionOptions{
		MaxSectionSize:  a.config.Sections.MaxSize,
		MinSectionSize:  a.config.Sections.MinSize,
		HeadingPatterns: a.config.Sections.HeadingPatterns,
		OutputDir:       a.config.Sections.OutputDir,
		Logger:          a.logger,
	}
}

// newSplitter creates the splitter for mode ("lines" or "sections").
func (a *app) newSplitter(mode string) (splitter.Splitter, error) {
	kind, ok := collector.ParseJobKind(mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if kind == collector.JobKindSections {
		return splitter.NewSectionSplitter(a.sectionOptions())
	}
	options, err := a.lineOptions()
	if err != nil {
		return nil, err
	}
	return splitter.NewLineSplitter(options)
}
