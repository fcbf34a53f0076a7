// Package output renders journal records and boot sessions for the terminal.
package output

import (
	"fmt"
	"time"

	"github.com/ccollicutt/journalview/pkg/collection"
	"github.com/ccollicutt/journalview/pkg/journal"
)

// View is a snapshot of what is on screen.
type View struct {
	// Records is the filtered view, in journal order.
	Records []journal.LogRecord `json:"records"`

	// Total is the size of the unfiltered collection.
	Total int `json:"total"`

	// Filter is the active filter text, if any.
	Filter string `json:"filter,omitempty"`

	// Loading is set while a load is in flight.
	Loading bool `json:"loading,omitempty"`

	// Err is the user-facing message of the last failed load.
	Err string `json:"error,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Metadata describes where the records came from.
type Metadata struct {
	// Source names the journal that was queried ("local" or a host).
	Source string `json:"source,omitempty"`

	// Query is the selection that produced the records, such as
	// "last 100" or "boot -1".
	Query string `json:"query,omitempty"`

	LoadedAt time.Time     `json:"loaded_at,omitzero"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// NewView snapshots a collection.
func NewView(c *collection.Collection, meta Metadata) *View {
	return &View{
		Records:  c.Filtered(),
		Total:    c.Len(),
		Filter:   c.Filter(),
		Metadata: meta,
	}
}

// Status returns the one-line status shown under the records.
func (v *View) Status() string {
	switch {
	case v.Loading:
		return "Loading..."
	case v.Err != "":
		return "Error: " + v.Err
	default:
		return fmt.Sprintf("Showing %d of %d records", len(v.Records), v.Total)
	}
}
