package main

import (
	"errors"
	"fmt"
)

type usageError struct {
	error
}

func newUsageError(msg string) usageError {
	return usageError{error: errors.New(msg)}
}

// exitError ends the process with code. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// Exit codes of the diff command.
const (
	exitChanges   = 1
	exitLoadError = 2
)

var errorWantedOneArg = newUsageError("expected exactly one (non-flag) argument")
