// Package collection holds the loaded journal records and the filtered view
// derived from them.
package collection

import (
	"strings"
	"sync"

	"github.com/ccollicutt/journalview/pkg/journal"
)

// Collection is the full set of loaded records plus the view matching the
// active filter. The filtered view is recomputed under the same lock that
// guards the set and the filter, so readers never see them disagree.
type Collection struct {
	mu       sync.RWMutex
	all      []journal.LogRecord
	filtered []journal.LogRecord
	filter   string
}

// New returns an empty collection with no filter.
func New() *Collection {
	return &Collection{}
}

// ReplaceAll installs a new record set, discarding the previous one, and
// recomputes the filtered view with the current filter.
func (c *Collection) ReplaceAll(records []journal.LogRecord) {
	all := make([]journal.LogRecord, len(records))
	copy(all, records)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = all
	c.recompute()
}

// SetFilter changes the filter text and recomputes the filtered view.
func (c *Collection) SetFilter(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = text
	c.recompute()
}

// ClearFilter is SetFilter("").
func (c *Collection) ClearFilter() {
	c.SetFilter("")
}

// Filter returns the active filter text.
func (c *Collection) Filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// All returns a copy of every loaded record in load order.
func (c *Collection) All() []journal.LogRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.all)
}

// Filtered returns a copy of the records matching the active filter.
func (c *Collection) Filtered() []journal.LogRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.filtered)
}

// Len returns the number of loaded records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

// FilteredLen returns the number of records in the filtered view.
func (c *Collection) FilteredLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.filtered)
}

// recompute must be called with c.mu held for writing.
func (c *Collection) recompute() {
	if c.filter == "" {
		c.filtered = c.all
		return
	}

	needle := strings.ToLower(c.filter)
	filtered := make([]journal.LogRecord, 0, len(c.all))
	for _, rec := range c.all {
		if matchesLower(rec, needle) {
			filtered = append(filtered, rec)
		}
	}
	c.filtered = filtered
}

// Matches reports whether rec is retained by filter: the filter is empty,
// or its lowercase form is a substring of the lowercase message or unit.
func Matches(rec journal.LogRecord, filter string) bool {
	if filter == "" {
		return true
	}
	return matchesLower(rec, strings.ToLower(filter))
}

func matchesLower(rec journal.LogRecord, needle string) bool {
	return strings.Contains(strings.ToLower(rec.Message), needle) ||
		strings.Contains(strings.ToLower(rec.Unit), needle)
}

func clone(records []journal.LogRecord) []journal.LogRecord {
	out := make([]journal.LogRecord, len(records))
	copy(out, records)
	return out
}
