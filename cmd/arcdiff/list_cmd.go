package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arcdiff/internal/fingerprint"
)

type listOpts struct {
	*rootOpts
	fingerprint bool
	summary     bool
}

func newList(root *rootOpts) *listOpts {
	return &listOpts{rootOpts: root}
}

func (opts *listOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <input>",
		Short: "Print the archives described by an input as a tree",
		RunE:  opts.RunE,
	}
	cmd.Flags().BoolVar(&opts.fingerprint, "fingerprint", false, "print the Merkle fingerprint of each archive's entries")
	cmd.Flags().BoolVarP(&opts.summary, "summary", "s", false, "print only the archive headers")
	return cmd
}

func (opts *listOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errorWantedOneArg
	}

	archives, err := opts.loader.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := newTreePrinter(out, colorEnabled(opts.cfg.Color, out))
	for i, a := range archives {
		if i > 0 {
			fmt.Fprintln(out)
		}
		p.archiveHeader(a)
		if opts.fingerprint {
			fp, err := fingerprint.Compute(a)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "fingerprint %s\n", fp)
		}
		if !opts.summary {
			p.entries(a.Contents(), "")
		}
	}
	return nil
}
