package commands

import (
	"github.com/spf13/cobra"
)

// NewBootsCommand creates the boots command.
func NewBootsCommand(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "boots",
		Short: "List boot sessions recorded in the journal",
		Long: `List the boot sessions known to the journal, oldest first.

The offset column is the selector to pass to "journalview boot".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoots(cmd, global)
		},
	}
}

func runBoots(cmd *cobra.Command, global *GlobalOptions) error {
	ctx := commandContext(cmd)

	s, err := global.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()

	boots, err := s.loader.LoadBootList(ctx)
	if err != nil {
		return err
	}

	return s.formatter.FormatBoots(ctx, boots, cmd.OutOrStdout())
}
