package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/garyjia/leave-desk/internal/application/service"
	"github.com/garyjia/leave-desk/internal/container"
	"github.com/garyjia/leave-desk/internal/domain/entity"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and show the resulting role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(session, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Logged in as %s (ID %d, role %s)\n", session.Name, session.EmployeeID, session.Role)
					return err
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)

	return cmd
}

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	StartDate string
	EndDate   string
	Reason    string
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}
	opts := &ApplyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Submit a leave application",
		Long: `Submit a leave application for the logged-in employee.

Dates use the YYYY-MM-DD form. The application starts out Pending.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				leave, err := c.LeaveService().SubmitLeave(cmd.Context(), session, service.SubmitLeaveInput{
					StartDate: opts.StartDate,
					EndDate:   opts.EndDate,
					Reason:    opts.Reason,
				})
				if err != nil {
					return WrapExitError(ExitFailure, "submission failed", err)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(leave, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Leave application #%d submitted (%s to %s, %s)\n",
						leave.ID, leave.StartDate, leave.EndDate, leave.Status)
					return err
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)
	cmd.Flags().StringVar(&opts.StartDate, "start", "", "first day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.EndDate, "end", "", "last day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "reason for the leave")

	return cmd
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your leave balance and applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				dashboard, err := c.LeaveService().Dashboard(cmd.Context(), session)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to load history", err)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(dashboard, func(w io.Writer) error {
					fmt.Fprintf(w, "%s (ID %d)\nLeave balance: %d\n\n", dashboard.Name, dashboard.EmployeeID, dashboard.LeaveBalance)
					return writeLeaveTable(w, dashboard.Leaves, false)
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every leave application (administrator)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				leaves, err := c.LeaveService().ListLeaves(cmd.Context(), session)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to list leave applications", err)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(leaves, func(w io.Writer) error {
					return writeLeaveTable(w, leaves, true)
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)

	return cmd
}

// NewReviewCommand creates the approve or reject command.
func NewReviewCommand(rootOpts *RootOptions, decision service.Decision) *cobra.Command {
	creds := &credentials{}
	var byPosition bool

	verb := string(decision)
	cmd := &cobra.Command{
		Use:   verb + " <leave-id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a leave application (administrator)",
		Long: fmt.Sprintf(`%s a leave application by its ID.

With --position the argument is the ROW shown by "leavectl list" instead,
for applications recorded without an ID.`, strings.ToUpper(verb[:1])+verb[1:]),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid leave reference", err)
			}

			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				var leave *entity.LeaveApplication
				if byPosition {
					leave, err = c.LeaveService().ReviewLeaveAt(cmd.Context(), session, int(ref), decision)
				} else {
					leave, err = c.LeaveService().ReviewLeave(cmd.Context(), session, ref, decision)
				}
				if err != nil {
					return WrapExitError(ExitFailure, verb+" failed", err)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(leave, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Leave application #%d is now %s\n", leave.ID, leave.Status)
					return err
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)
	cmd.Flags().BoolVar(&byPosition, "position", false, "treat the argument as a row in the leave table")

	return cmd
}

// NewReviewsCommand creates the reviews command.
func NewReviewsCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "reviews <leave-id>",
		Short: "Show the review journal of a leave application (administrator)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid leave ID", err)
			}

			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				records, err := c.LeaveService().ReviewHistory(cmd.Context(), session, id)
				if err != nil {
					return WrapExitError(ExitFailure, "failed to load review journal", err)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(records, func(w io.Writer) error {
					if len(records) == 0 {
						_, err := fmt.Fprintln(w, "No reviews recorded.")
						return err
					}
					for _, r := range records {
						fmt.Fprintf(w, "%s  %s -> %s  by %d\n",
							r.Timestamp.UTC().Format("2006-01-02 15:04:05"), r.PreviousStatus, r.NewStatus, r.ReviewerID)
					}
					return nil
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)

	return cmd
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	creds := &credentials{}
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the leave table to an Excel workbook (administrator)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), rootOpts, creds, func(c *container.Container, session service.Session) error {
				leaves, err := c.LeaveService().ListLeaves(cmd.Context(), session)
				if err != nil {
					return WrapExitError(ExitFailure, "export failed", err)
				}
				employees := c.Employees().LoadEmployees(cmd.Context()).Items

				if err := c.Exporter().SaveAs(output, leaves, employees); err != nil {
					return WrapExitError(ExitCommandError, "export failed", err)
				}

				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				result := map[string]interface{}{"path": output, "rows": len(leaves)}
				return out.Success(result, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Exported %d leave applications to %s\n", len(leaves), output)
					return err
				})
			})
		},
	}
	addCredentialFlags(cmd, creds)
	cmd.Flags().StringVarP(&output, "output", "o", "leaves.xlsx", "output file")

	return cmd
}
