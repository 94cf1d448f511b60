package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"harextract/internal/services"
)

const exitInterrupted = 130

// exitError carries a process status for runs that ended without a failure
// worth printing, such as policy aborts that were already logged.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("exit status %d", e.code)
}

// exitCode reports err on w when appropriate and returns the process status.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.msg != "" {
			fmt.Fprintln(w, exitErr.msg)
		}
		return exitErr.code
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "interrupted by user")
		return exitInterrupted
	}
	fmt.Fprintln(w, err)
	return services.ExitCode(err)
}
