package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"arcdiff/internal/model"
	"arcdiff/internal/progress"
	"arcdiff/internal/snapshot"
	"arcdiff/internal/walker"
)

type scanOpts struct {
	*rootOpts
	noProgress bool
}

func newScan(root *rootOpts) *scanOpts {
	return &scanOpts{rootOpts: root}
}

func (opts *scanOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Find archives under a directory and summarize each of them",
		RunE:  opts.RunE,
	}
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "do not draw a progress bar")
	return cmd
}

func (opts *scanOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errorWantedOneArg
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	walkResult, err := walker.Walk(root, opts.cfg.Include, opts.cfg.Exclude)
	if err != nil {
		return err
	}
	for _, werr := range walkResult.Errors {
		opts.logger.Warn("skipped path while scanning", "error", werr)
	}
	opts.logger.Info("found archives", "root", root, "count", len(walkResult.Files))

	var bar *progress.Bar
	if !opts.noProgress {
		bar = progress.New(int64(len(walkResult.Files)), cmd.ErrOrStderr())
	}

	load := func(ctx context.Context, file walker.FileInfo) ([]model.Archive, error) {
		return opts.loader.Load(ctx, file.Path)
	}
	result, err := walker.LoadFiles(cmd.Context(), walkResult.Files, opts.cfg.Workers, load, bar)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := newTabwriter(out)
	fmt.Fprintln(tw, "FILE\tTYPE\tFILES\tFOLDERS\tSIZE\tDIGEST")
	var archives int
	for _, loaded := range result.Loaded {
		rel, err := filepath.Rel(root, loaded.File.Path)
		if err != nil {
			rel = loaded.File.Path
		}
		for _, a := range loaded.Archives {
			single := nestedOf(a)
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
				rel, a.Type(), single.FileCount(), single.FolderCount(), snapshot.FormatSize(a.PhysicalSize()), loaded.Digest)
			archives++
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d archives in %d files\n", archives, len(result.Loaded))
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "⚠ Skipped %d files due to errors\n", len(result.Errors))
		for _, e := range result.Errors {
			opts.logger.Warn("failed to load archive", "error", e)
		}
	}
	return nil
}

// nestedOf returns the archive holding the entries of a.
func nestedOf(a model.Archive) *model.SingleArchive {
	if split, ok := a.(*model.SplitArchive); ok {
		return split.Nested()
	}
	return a.(*model.SingleArchive)
}
