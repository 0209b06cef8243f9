package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRoot().Command()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", exit.err)
		}
		return exit.code
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) {
		cmd.PrintErrln("")
		cmd.PrintErrln(cmd.UsageString())
	}
	return 1
}
