package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"clipper/internal/batch"
)

// Exit codes distinguish input mistakes from runtime failures so scripts can
// decide whether retrying makes sense.
const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}
	if batch.IsValidationFailure(err) {
		return exitValidation
	}
	return exitFailure
}
