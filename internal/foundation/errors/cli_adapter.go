package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitNotFound   = 3
	ExitConfig     = 7
	ExitInternal   = 10
	ExitProcessing = 11
	ExitRuntime    = 12
)

var exitByCategory = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryNotFound:   ExitNotFound,
	CategoryConfig:     ExitConfig,
	CategoryInternal:   ExitInternal,
	CategoryRender:     ExitProcessing,
	CategoryFileSystem: ExitProcessing,
	CategoryRuntime:    ExitRuntime,
}

// CLIErrorAdapter reports a command's error on stderr and exits with a code
// derived from its category.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

// NewCLIErrorAdapter returns an adapter; verbose prints full error chains.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, stderr: os.Stderr, exit: os.Exit}
}

// ExitCodeFor maps err onto an exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	if ce, ok := AsClassified(err); ok {
		if code, ok := exitByCategory[ce.Category()]; ok {
			return code
		}
	}
	return ExitFailure
}

// FormatError renders err for a terminal.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	switch {
	case !ok:
		return fmt.Sprintf("Error: %v", err)
	case a.verbose:
		return ce.Error()
	case ce.Category() == CategoryInternal:
		return "Internal error occurred (use -v for details)"
	case ce.Cause() != nil:
		return fmt.Sprintf("Error: %s: %v", ce.Message(), ce.Cause())
	default:
		return "Error: " + ce.Message()
	}
}

// HandleError logs err, prints it and exits. A nil err is ignored.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	ce, classified := AsClassified(err)
	switch {
	case !classified:
		a.logger.Error("Unclassified error", "error", err)
	case a.verbose || ce.IsFatal():
		attrs := append([]slog.Attr{slog.String("category", string(ce.Category()))}, ce.Context().Attrs()...)
		a.logger.LogAttrs(context.Background(), ce.Severity().Level(), ce.Message(), attrs...)
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}
