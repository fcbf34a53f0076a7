package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/journalview/pkg/journal"
)

// Formatter renders views and boot lists in a specific format.
type Formatter interface {
	// FormatView renders the records of a view to the given writer.
	FormatView(ctx context.Context, view *View, w io.Writer) error

	// FormatBoots renders a boot session listing.
	FormatBoots(ctx context.Context, boots []journal.BootSession, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Quiet omits the status line and boot list header.
	Quiet bool

	// NoColor disables priority colors.
	NoColor bool

	// ShowTimestamps prefixes each record with its local time.
	ShowTimestamps bool
}

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "", "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
