package main

import (
	"fmt"
	"io"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrConfigRead is returned when the configuration file cannot be read.
	ErrConfigRead = errors.NewKind("Failed to read file: %s")
	// ErrConfigInvalid is returned for malformed configuration content or
	// missing required keys.
	ErrConfigInvalid = errors.NewKind("invalid configuration %s")
	// ErrFacadeOpen is returned when the façade repository can be neither
	// opened nor initialized.
	ErrFacadeOpen = errors.NewKind("Failed to create or open repository.")
	// ErrRepositoryAccess is returned when a source repository cannot be
	// opened or its HEAD cannot be resolved.
	ErrRepositoryAccess = errors.NewKind("cannot access repository %s")
	// ErrStorage is returned when a repository or working-tree operation
	// fails part way through a run.
	ErrStorage = errors.NewKind("%s failed")
)

// report writes the diagnostic for err and returns the process exit code
func report(stderr io.Writer, err error) int {
	switch {
	case ErrConfigRead.Is(err):
		fmt.Fprintln(stderr, err)
		return 1
	case ErrFacadeOpen.Is(err):
		// the cause is only logged
		fmt.Fprintln(stderr, ErrFacadeOpen.New())
		return 1
	case ErrConfigInvalid.Is(err):
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	case ErrRepositoryAccess.Is(err):
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 3
	case ErrStorage.Is(err):
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 4
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}
