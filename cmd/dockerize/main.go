package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitWriteError  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	return execute(afero.NewOsFs(), os.Args[1:], os.Stdout, os.Stderr)
}

// execute runs the command line against fsys and maps the outcome to an
// exit code.
func execute(fsys afero.Fs, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(fsys, stdout, stderr)
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		var cErr *CommandError
		if errors.As(err, &cErr) {
			fmt.Fprintf(stderr, "Error: %v\n", cErr)
			return cErr.ExitCode
		}
		// Flag parsing and unknown commands.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitConfigError
	}
	return ExitSuccess
}

// =============================================================================
// Errors
// =============================================================================

// CommandError represents a command failure with the exit code it maps to.
type CommandError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *CommandError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
