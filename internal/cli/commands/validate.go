package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/journalview/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a journalview configuration file without querying the journal.

Checks:
  - YAML syntax
  - journalctl path
  - Output format
  - Remote host settings and credentials`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  journalctl:  %s", cfg.Journalctl.Path)
	if cfg.Journalctl.Sudo {
		fmt.Fprint(w, " (sudo)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Line count:  %s\n", cfg.DefaultLineCount)
	fmt.Fprintf(w, "  Output:      %s\n", cfg.Output.Format)

	if cfg.IsRemote() {
		fmt.Fprintf(w, "  Remote:      %s@%s:%d\n", cfg.Remote.User, cfg.Remote.Host, cfg.Remote.Port)
		if cfg.Remote.InsecureIgnoreHostKey {
			fmt.Fprintf(w, "\nWarning: host key verification is disabled\n")
		}
	} else {
		fmt.Fprintf(w, "  Remote:      none (local journal)\n")
	}

	if cfg.Metrics.Textfile != "" {
		fmt.Fprintf(w, "  Metrics:     %s\n", cfg.Metrics.Textfile)
	}

	return nil
}
