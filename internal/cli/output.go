package cli

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
	// ExitUsage covers bad flags and inputs that fail validation.
	ExitUsage = 2
	// ExitNotEligible means the calculation ran but yields no entitlement.
	ExitNotEligible = 3
)

// ExitError is an error carrying the process exit code.
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

// GetExitCode extracts the exit code from err; other errors map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes results as indented JSON or as aligned text with
// Korean digit grouping.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	printer *message.Printer
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		printer: message.NewPrinter(language.Korean),
	}
}

// Print writes v as JSON, or calls text for the text format.
func (f *OutputFormatter) Print(v any, text func(p *message.Printer, w io.Writer)) error {
	if f.Format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, err = fmt.Fprintln(f.Writer, string(data))
		return err
	}
	text(f.printer, f.Writer)
	return nil
}

// won prints one labelled amount line.
func won(p *message.Printer, w io.Writer, label string, amount int64) {
	p.Fprintf(w, "%-24s %15d원\n", label, amount)
}
