package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	crncerrors "crnc/internal/errors"
	"crnc/internal/frontend"
	"crnc/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The model has errors or a pass failed
	ExitCommandError = 2 // Bad invocation: unreadable files, invalid config
)

// ExitError is an error with a process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// loadModel reads and builds a model, printing its diagnostics to errOut.
// Warnings do not fail the load.
func loadModel(path, name string, errOut io.Writer) (*ir.Network, []crncerrors.CompilerError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to read model", err)
	}

	net, diags := frontend.Load(path, string(source), name)
	if len(diags) > 0 {
		reporter := crncerrors.NewErrorReporter(path, string(source))
		fmt.Fprint(errOut, reporter.FormatAll(diags))
	}
	if net == nil || frontend.HasErrors(diags) {
		return nil, diags, NewExitError(ExitFailure, fmt.Sprintf("%s: %s", path, crncerrors.Summary(diags)))
	}
	return net, diags, nil
}

func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}

func failure(w io.Writer, format string, args ...any) {
	color.New(color.FgRed).Fprintf(w, format+"\n", args...)
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
