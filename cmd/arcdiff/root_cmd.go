package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"arcdiff/internal/archiver"
	"arcdiff/internal/config"
	"arcdiff/internal/source"
)

type rootOpts struct {
	configPath string
	verbose    bool
	color      string
	workers    int

	cfg    *config.Config
	logger *slog.Logger
	loader *source.Loader
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
arcdiff reads archive listings and BSA containers into one tree model and
compares them.

Inputs are chosen by extension:
  *.bsa                  binary BSA container, decoded directly
  *.txt, *.log, *.lst    saved output of "7z l" or "7z l -slt"
  *.json, *.yaml, *.yml  snapshot written by "arcdiff snapshot"
  anything else          listed with the configured 7-Zip executable

Workflow:
  arcdiff list Data/Skyrim\ -\ Meshes.bsa        # What is inside?
  arcdiff snapshot mods.7z before.yaml          # Remember the current state.
  arcdiff diff before.yaml mods.7z              # What changed since?
  arcdiff scan Data/                            # Summarize every archive under a directory.
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "arcdiff",
		Long:              rootLongHelp,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.PersistentPreRunE,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "config file path")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&opts.color, "color", "", "(auto|always|never) colorize output; overrides the config file")
	cmd.PersistentFlags().IntVarP(&opts.workers, "workers", "w", 0, "number of archives loaded in parallel; overrides the config file")

	cmd.AddCommand(
		newList(opts).Command(),
		newDiff(opts).Command(),
		newScan(opts).Command(),
		newSnapshot(opts).Command(),
	)

	return cmd
}

func (opts *rootOpts) PersistentPreRunE(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = opts.color
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return usageError{error: err}
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if opts.verbose {
		level = slog.LevelDebug
	}
	opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	opts.cfg = cfg

	lister := archiver.New(cfg.Archiver, cfg.TechnicalListing, archiver.WithLogger(opts.logger))
	opts.loader = source.New(lister, source.WithLogger(opts.logger))
	return nil
}
