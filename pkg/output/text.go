package output

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/journalview/pkg/journal"
)

// TimestampLayout is how record times are shown when timestamps are enabled.
const TimestampLayout = "2006-01-02 15:04:05"

// TextFormatter formats views as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// styles are bound to a renderer so color detection follows the writer,
// not os.Stdout.
type styles struct {
	plain    bool
	critical lipgloss.Style // 0-3
	warning  lipgloss.Style // 4
	notice   lipgloss.Style // 5
	muted    lipgloss.Style // 6, 7 and unknown
	unit     lipgloss.Style
	status   lipgloss.Style
	errText  lipgloss.Style
}

func (f *TextFormatter) styles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		plain:    f.opts.NoColor,
		critical: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // red
		warning:  r.NewStyle().Foreground(lipgloss.Color("208")),            // orange
		notice:   r.NewStyle().Foreground(lipgloss.Color("33")),             // blue
		muted:    r.NewStyle().Foreground(lipgloss.Color("245")),            // gray
		unit:     r.NewStyle().Foreground(lipgloss.Color("39")).Faint(true),
		status:   r.NewStyle().Faint(true),
		errText:  r.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return style.Render(text)
}

// priorityStyle picks the color for a raw priority code.
func (s styles) priorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "0", "1", "2", "3":
		return s.critical
	case "4":
		return s.warning
	case "5":
		return s.notice
	default:
		return s.muted
	}
}

// FormatView renders the filtered records followed by the status line.
func (f *TextFormatter) FormatView(ctx context.Context, view *View, w io.Writer) error {
	st := f.styles(w)

	for i, rec := range view.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, f.formatRecord(st, i+1, rec)); err != nil {
			return err
		}
	}

	if f.opts.Quiet {
		return nil
	}

	status := view.Status()
	if view.Err != "" {
		status = st.render(st.errText, status)
	} else {
		status = st.render(st.status, status)
	}
	if view.Filter != "" && !view.Loading && view.Err == "" {
		status += st.render(st.status, fmt.Sprintf(" (filter: %q)", view.Filter))
	}
	_, err := fmt.Fprintln(w, status)
	return err
}

func (f *TextFormatter) formatRecord(st styles, row int, rec journal.LogRecord) string {
	label := st.render(st.priorityStyle(rec.Priority), fmt.Sprintf("%-6s", rec.PriorityLabel))
	unit := st.render(st.unit, rec.Unit)

	line := fmt.Sprintf("%5d %s %s: %s", row, label, unit, rec.Message)
	if f.opts.ShowTimestamps {
		line = fmt.Sprintf("%5d %s %s %s: %s", row, formatTimestamp(rec.Timestamp), label, unit, rec.Message)
	}
	return line
}

// formatTimestamp renders a raw realtime value in local time. Missing or
// malformed values are shown as a placeholder of the same width.
func formatTimestamp(raw string) string {
	ts, err := journal.ParseRealtime(raw)
	if err != nil {
		return fmt.Sprintf("%-*s", len(TimestampLayout), "-")
	}
	return ts.Local().Format(TimestampLayout)
}

// FormatBoots renders one line per boot session, oldest first.
func (f *TextFormatter) FormatBoots(ctx context.Context, boots []journal.BootSession, w io.Writer) error {
	st := f.styles(w)

	if !f.opts.Quiet {
		header := fmt.Sprintf("%6s  %-32s  %-19s  %s", "OFFSET", "BOOT ID", "FIRST ENTRY", "LAST ENTRY")
		if _, err := fmt.Fprintln(w, st.render(st.status, header)); err != nil {
			return err
		}
	}

	for _, b := range boots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%6d  %-32s  %-19s  %s\n", b.Offset, b.ID, b.FirstEntry, b.LastEntry); err != nil {
			return err
		}
	}

	if !f.opts.Quiet && len(boots) == 0 {
		_, err := fmt.Fprintln(w, st.render(st.status, "No boots found"))
		return err
	}
	return nil
}
