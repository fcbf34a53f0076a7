package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/journalview/pkg/collection"
	"github.com/ccollicutt/journalview/pkg/journal"
	"github.com/ccollicutt/journalview/pkg/output"
)

// BootOptions holds command-line options for the boot command.
type BootOptions struct {
	Filter string
}

// NewBootCommand creates the boot command.
func NewBootCommand(global *GlobalOptions) *cobra.Command {
	opts := &BootOptions{}

	cmd := &cobra.Command{
		Use:   "boot [selector]",
		Short: "Show every journal entry of one boot",
		Long: `Load every journal entry of one boot session and print them.

The selector is passed to journalctl -b unchanged: 0 is the current
boot, -1 the previous one, and a boot ID selects that boot directly.
Use "journalview boots" to list the available boots, and put "--"
before a negative offset: journalview boot -- -1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := journal.CurrentBoot
			if len(args) == 1 {
				selector = args[0]
			}
			return runBoot(cmd, global, opts, selector)
		},
	}

	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "Only show entries whose message or unit contains TEXT")

	return cmd
}

func runBoot(cmd *cobra.Command, global *GlobalOptions, opts *BootOptions, selector string) error {
	ctx := commandContext(cmd)

	s, err := global.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()

	start := time.Now()
	records, err := s.loader.LoadByBootSelector(ctx, selector)
	if err != nil {
		return err
	}

	c := collection.New()
	c.ReplaceAll(records)
	c.SetFilter(opts.Filter)

	return s.render(ctx, cmd.OutOrStdout(), output.NewView(c, output.Metadata{
		Query:    "boot " + selector,
		LoadedAt: time.Now(),
		Duration: time.Since(start),
	}))
}
