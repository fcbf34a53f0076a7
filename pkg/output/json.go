package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/journalview/pkg/journal"
)

// JSONFormatter formats views as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// FormatView renders the view as JSON.
func (f *JSONFormatter) FormatView(ctx context.Context, view *View, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: just the records
		return encoder.Encode(nonNil(view.Records))
	}

	v := *view
	v.Records = nonNil(v.Records)
	return encoder.Encode(&v)
}

// FormatBoots renders the boot list as a JSON array.
func (f *JSONFormatter) FormatBoots(ctx context.Context, boots []journal.BootSession, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nonNil(boots))
}

// nonNil keeps empty results encoding as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
