package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arcdiff/internal/compare"
	"arcdiff/internal/fingerprint"
	"arcdiff/internal/model"
)

type diffOpts struct {
	*rootOpts
	showSame bool
	quiet    bool
}

func newDiff(root *rootOpts) *diffOpts {
	return &diffOpts{rootOpts: root}
}

func (opts *diffOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two archives property by property and entry by entry",
		Long: `Compare two archives property by property and entry by entry.

Exits 0 when nothing differs, 1 when differences were found and 2 when an
input could not be read.`,
		RunE: opts.RunE,
	}
	cmd.Flags().BoolVar(&opts.showSame, "show-same", false, "also list unchanged entries; overrides the config file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "print nothing, only set the exit status")
	return cmd
}

func (opts *diffOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("please supply two inputs")
	}

	left, err := opts.loader.LoadOne(cmd.Context(), args[0])
	if err != nil {
		return &exitError{code: exitLoadError, err: err}
	}
	right, err := opts.loader.LoadOne(cmd.Context(), args[1])
	if err != nil {
		return &exitError{code: exitLoadError, err: err}
	}

	showSame := opts.cfg.ShowSame
	if cmd.Flags().Changed("show-same") {
		showSame = opts.showSame
	}

	result := compare.Diff(left, right)
	if !opts.quiet {
		out := cmd.OutOrStdout()
		if same, err := sameFingerprint(left, right); err != nil {
			opts.logger.Debug("fingerprint unavailable", "error", err)
		} else if same {
			fmt.Fprintln(out, "Entry trees are identical (fingerprints match).")
		}
		fmt.Fprint(out, compare.FormatReport(result, compare.ReportOptions{
			Color:    colorEnabled(opts.cfg.Color, out),
			ShowSame: showSame,
		}))
	}

	if result.HasChanges() {
		return &exitError{code: exitChanges}
	}
	return nil
}

func sameFingerprint(left, right model.Archive) (bool, error) {
	l, err := fingerprint.Compute(left)
	if err != nil {
		return false, err
	}
	r, err := fingerprint.Compute(right)
	if err != nil {
		return false, err
	}
	return l == r, nil
}
