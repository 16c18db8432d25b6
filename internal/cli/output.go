package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/garyjia/leave-desk/internal/application/service"
	"github.com/garyjia/leave-desk/internal/domain/entity"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Workflow refused the operation (bad login, forbidden, not found)
	ExitCommandError = 2 // Command error (bad config, unreadable data directory)
)

// ExitError represents an error with a specific exit code.
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

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
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

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

// Success writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer) error) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// writeLeaveTable renders leaves as an aligned table. With withActions set
// each row also lists the review decisions the leave still accepts.
func writeLeaveTable(w io.Writer, leaves []entity.LeaveApplication, withActions bool) error {
	if len(leaves) == 0 {
		_, err := fmt.Fprintln(w, "No leave applications.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "ROW\tID\tEMPLOYEE\tSTART\tEND\tSTATUS\tREASON"
	if withActions {
		header += "\tACTIONS"
	}
	fmt.Fprintln(tw, header)
	for i, leave := range leaves {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\t%s",
			i, leave.ID, leave.EmployeeID, leave.StartDate, leave.EndDate, leave.Status, leave.Reason)
		if withActions {
			fmt.Fprintf(tw, "\t%s", joinDecisions(service.AllowedDecisions(leave.Status)))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func joinDecisions(decisions []service.Decision) string {
	names := make([]string, len(decisions))
	for i, d := range decisions {
		names[i] = string(d)
	}
	return strings.Join(names, ",")
}
