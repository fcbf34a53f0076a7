package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/journalview/pkg/output"
	"github.com/ccollicutt/journalview/pkg/viewer"
)

const browseHelp = `Commands:
  TEXT           filter by message or unit (empty line shows everything)
  :load [N]      load the last N entries
  :boot [OFFSET] load one boot (current boot when OFFSET is omitted)
  :boots         list boot sessions
  :clear         clear the filter
  :help          show this help
  :quit          exit`

// BrowseOptions holds command-line options for the browse command.
type BrowseOptions struct {
	Lines string
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand(global *GlobalOptions) *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the journal interactively",
		Long: `Load the most recent journal entries and read commands from stdin.

A plain line of text sets the filter; lines starting with ':' are commands.

` + browseHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Lines, "lines", "n", "", "Number of entries to load (default from config, 100)")

	return cmd
}

func runBrowse(cmd *cobra.Command, global *GlobalOptions, opts *BrowseOptions) error {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	s, err := global.newSession(cmd)
	if err != nil {
		return err
	}
	defer s.finish()

	out := &lockedWriter{w: cmd.OutOrStdout()}

	model := viewer.NewModel(s.loader)
	program := viewer.NewProgram(model, viewer.WithRender(func(m *viewer.Model) {
		if err := renderModel(ctx, s, out, m); err != nil {
			s.logger.Printf("rendering: %v", err)
		}
	}))

	lines := opts.Lines
	if lines == "" {
		lines = s.cfg.DefaultLineCount
	}
	program.Send(viewer.UpdateLineCount{Count: lines})
	program.Send(viewer.LoadLogs{})

	// When ctx is cancelled Run returns while the reader is still blocked
	// in Scan. Stdin cannot be interrupted, so the goroutine is left to exit
	// with the process; its late Sends are dropped once Run has returned.
	go readCommands(cmd.InOrStdin(), out, program)

	return program.Run(ctx)
}

// renderModel prints the part of the model that changed the user's view.
func renderModel(ctx context.Context, s *session, w io.Writer, m *viewer.Model) error {
	switch {
	case m.Loading():
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case m.ShowingBootList():
		return s.formatter.FormatBoots(ctx, m.Boots(), w)
	default:
		view := output.NewView(m.Records(), output.Metadata{Query: m.Query()})
		view.Err = m.Err()
		return s.render(ctx, w, view)
	}
}

// readCommands turns stdin lines into messages until EOF or :quit.
func readCommands(in io.Reader, out io.Writer, p *viewer.Program) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		msgs, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if msgs == nil {
			fmt.Fprintln(out, browseHelp)
			continue
		}
		for _, msg := range msgs {
			p.Send(msg)
		}
	}
	p.Send(viewer.Quit{})
}

// parseCommand maps one input line to the messages it sends. A nil slice
// with a nil error means the help text was requested.
func parseCommand(line string) ([]viewer.Msg, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		return []viewer.Msg{viewer.UpdateFilter{Text: line}}, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		return []viewer.Msg{viewer.Quit{}}, nil
	case "clear":
		return []viewer.Msg{viewer.ClearFilter{}}, nil
	case "load":
		if arg == "" {
			return []viewer.Msg{viewer.LoadLogs{}}, nil
		}
		return []viewer.Msg{viewer.UpdateLineCount{Count: arg}, viewer.LoadLogs{}}, nil
	case "boot":
		if arg == "" {
			return []viewer.Msg{viewer.ShowCurrentBoot{}}, nil
		}
		offset, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid boot offset %q", arg)
		}
		return []viewer.Msg{viewer.SelectBoot{Offset: offset}}, nil
	case "boots":
		return []viewer.Msg{viewer.ShowBootList{}}, nil
	case "help", "h", "?":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown command %q (try :help)", ":"+name)
	}
}

// lockedWriter serializes writes from the render loop and the input reader.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
