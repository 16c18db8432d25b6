// Package cli implements leavectl, an operator tool that runs the leave
// workflow directly against a data directory.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyjia/leave-desk/internal/application/service"
	"github.com/garyjia/leave-desk/internal/config"
	"github.com/garyjia/leave-desk/internal/container"
	"github.com/garyjia/leave-desk/pkg/utils"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DataDir    string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for leavectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "leavectl",
		Short: "Leave desk operator tool",
		Long: `Submit, list and review leave applications stored in the
employees.json and leaves.json documents of a data directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "configs/config.yaml", "config file (optional)")
	cmd.PersistentFlags().StringVarP(&opts.DataDir, "data-dir", "d", "", "data directory (overrides storage.data_dir)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts, service.DecisionApprove))
	cmd.AddCommand(NewReviewCommand(opts, service.DecisionReject))
	cmd.AddCommand(NewReviewsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// credentials are the per-invocation login flags
type credentials struct {
	User     string
	Password string
}

func addCredentialFlags(cmd *cobra.Command, creds *credentials) {
	cmd.Flags().StringVarP(&creds.User, "user", "u", os.Getenv("LEAVE_USER"), "login name (env LEAVE_USER)")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", os.Getenv("LEAVE_PASSWORD"), "password (env LEAVE_PASSWORD)")
}

// withContainer loads configuration, starts the container, runs fn and
// closes the container again.
func withContainer(ctx context.Context, opts *RootOptions, fn func(c *container.Container) error) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.DataDir != "" {
		cfg.Storage.DataDir = opts.DataDir
	}
	// Chat notifications are a server concern
	cfg.Lark.Enabled = false

	logger, err := utils.NewCLILogger(opts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create logger", err)
	}
	defer logger.Sync()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if err := c.Start(ctx); err != nil {
		return WrapExitError(ExitCommandError, "failed to start", err)
	}
	defer c.Close()

	return fn(c)
}

// withSession is withContainer plus a login with the given credentials.
func withSession(ctx context.Context, opts *RootOptions, creds *credentials, fn func(c *container.Container, session service.Session) error) error {
	return withContainer(ctx, opts, func(c *container.Container) error {
		session, err := c.LeaveService().Authenticate(ctx, creds.User, creds.Password)
		if err != nil {
			return WrapExitError(ExitFailure, "login failed", err)
		}
		return fn(c, *session)
	})
}
