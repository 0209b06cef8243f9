package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arcdiff/internal/fingerprint"
	"arcdiff/internal/snapshot"
)

type snapshotOpts struct {
	*rootOpts
}

func newSnapshot(root *rootOpts) *snapshotOpts {
	return &snapshotOpts{rootOpts: root}
}

func (opts *snapshotOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <input> <output.json|output.yaml>",
		Short: "Save the archives described by an input for later comparison",
		RunE:  opts.RunE,
	}
	return cmd
}

func (opts *snapshotOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return newUsageError("please supply an input and an output file")
	}
	input, output := args[0], args[1]

	archives, err := opts.loader.Load(cmd.Context(), input)
	if err != nil {
		return err
	}

	doc := snapshot.NewDocument(archives)
	for i, a := range archives {
		fp, err := fingerprint.Compute(a)
		if err != nil {
			return err
		}
		doc.Archives[i].Fingerprint = fp
	}

	if err := doc.Save(output); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Snapshot saved\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Archives: %d\n", len(archives))
	fmt.Fprintf(cmd.OutOrStdout(), "  Output: %s\n", output)
	return nil
}
