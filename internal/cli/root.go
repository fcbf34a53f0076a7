// Package cli provides the command-line interface for journalview.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/journalview/internal/cli/commands"
	"github.com/ccollicutt/journalview/pkg/loader"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitLoadFailed  = 1
	ExitConfigError = 2
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCommand(), os.Stderr)
}

func run(ctx context.Context, rootCmd *cobra.Command, stderr io.Writer) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

// exitCode maps a command error to the process exit code. Only a failed
// journal query is a load failure; everything else is a usage problem.
func exitCode(err error) int {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		return ExitLoadFailed
	}
	return ExitConfigError
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	global := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "journalview",
		Short: "View and filter the systemd journal",
		Long: `journalview loads entries from the systemd journal through journalctl,
locally or on a remote host over SSH, and shows them with their unit and
priority. Entries can be filtered by a case-insensitive substring of their
message or unit, and browsed one boot at a time.

Reading the full journal usually requires root or membership in the
systemd-journal group; use --sudo to run journalctl through sudo -n.

Exit codes:
  0 - Success
  1 - The journal query failed
  2 - Configuration or usage error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	global.AddFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewLogsCommand(global))
	rootCmd.AddCommand(commands.NewBootCommand(global))
	rootCmd.AddCommand(commands.NewBootsCommand(global))
	rootCmd.AddCommand(commands.NewBrowseCommand(global))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
