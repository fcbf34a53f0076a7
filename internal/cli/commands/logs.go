package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/journalview/pkg/collection"
	"github.com/ccollicutt/journalview/pkg/output"
)

// LogsOptions holds command-line options for the logs command.
type LogsOptions struct {
	Lines  string
	Filter string
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(global *GlobalOptions) *cobra.Command {
	opts := &LogsOptions{}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the most recent journal entries",
		Long: `Load the most recent journal entries and print them.

A line count that is not an unsigned integer falls back to 100.
The filter is a case-insensitive substring matched against each
entry's message and unit.

Exit codes:
  0 - Entries loaded
  1 - The journal query failed
  2 - Configuration or usage error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Lines, "lines", "n", "", "Number of entries to load (default from config, 100)")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Only show entries whose message or unit contains TEXT")

	return cmd
}

func runLogs(cmd *cobra.Command, global *GlobalOptions, opts *LogsOptions) error {
	ctx := commandContext(cmd)

	s, err := global.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()

	lines := opts.Lines
	if lines == "" {
		lines = s.cfg.DefaultLineCount
	}

	start := time.Now()
	records, err := s.loader.LoadByLineCount(ctx, lines)
	if err != nil {
		return err
	}

	c := collection.New()
	c.ReplaceAll(records)
	c.SetFilter(opts.Filter)

	return s.render(ctx, cmd.OutOrStdout(), output.NewView(c, output.Metadata{
		Query:    fmt.Sprintf("last %s", lines),
		LoadedAt: time.Now(),
		Duration: time.Since(start),
	}))
}
