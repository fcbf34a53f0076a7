// Package viewer holds the interactive state of a journal viewer and the
// single Update function that applies commands and load results to it.
package viewer

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/ccollicutt/journalview/pkg/collection"
	"github.com/ccollicutt/journalview/pkg/journal"
)

// DefaultLineCount is the initial line count text.
const DefaultLineCount = "100"

// Source performs journal loads. *loader.Loader implements it.
type Source interface {
	LoadByLineCount(ctx context.Context, n string) ([]journal.LogRecord, error)
	LoadByBootSelector(ctx context.Context, selector string) ([]journal.LogRecord, error)
	LoadBootList(ctx context.Context) ([]journal.BootSession, error)
}

// Cmd is deferred work returned by Update. It runs off the update loop and
// its result message is fed back into Update.
type Cmd func(ctx context.Context) Msg

// Model is the viewer state. It is owned by a single goroutine (normally a
// Program); only its Collection may be read concurrently.
type Model struct {
	source  Source
	records *collection.Collection

	lineCount    string
	query        string
	loading      bool
	err          string
	boots        []journal.BootSession
	showBootList bool

	// pending identifies the most recent load; older completions are stale.
	pending uuid.UUID
}

// NewModel creates a model that loads through source.
func NewModel(source Source) *Model {
	return &Model{
		source:    source,
		records:   collection.New(),
		lineCount: DefaultLineCount,
	}
}

// Update applies msg and returns the command to run next, if any.
func (m *Model) Update(msg Msg) Cmd {
	switch msg := msg.(type) {
	case LoadLogs:
		lineCount := m.lineCount
		m.query = "last " + lineCount
		return m.startLoad(func(ctx context.Context, id uuid.UUID) Msg {
			records, err := m.source.LoadByLineCount(ctx, lineCount)
			return LogsLoaded{RequestID: id, Records: records, Err: err}
		})

	case LogsLoaded:
		if msg.RequestID != m.pending {
			return nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			return nil
		}
		m.records.ReplaceAll(msg.Records)

	case UpdateFilter:
		m.records.SetFilter(msg.Text)

	case UpdateLineCount:
		m.lineCount = msg.Count

	case ClearFilter:
		m.records.ClearFilter()

	case ShowCurrentBoot:
		return m.loadBoot(journal.CurrentBoot)

	case ShowBootList:
		m.showBootList = true
		return m.startLoad(func(ctx context.Context, id uuid.UUID) Msg {
			boots, err := m.source.LoadBootList(ctx)
			return BootListLoaded{RequestID: id, Boots: boots, Err: err}
		})

	case BootListLoaded:
		if msg.RequestID != m.pending {
			return nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err.Error()
			m.showBootList = false
			return nil
		}
		m.boots = msg.Boots

	case SelectBoot:
		m.showBootList = false
		return m.loadBoot(strconv.Itoa(msg.Offset))
	}

	return nil
}

func (m *Model) loadBoot(selector string) Cmd {
	m.query = "boot " + selector
	return m.startLoad(func(ctx context.Context, id uuid.UUID) Msg {
		records, err := m.source.LoadByBootSelector(ctx, selector)
		return LogsLoaded{RequestID: id, Records: records, Err: err}
	})
}

// startLoad marks a new load in flight, superseding any earlier one.
func (m *Model) startLoad(load func(ctx context.Context, id uuid.UUID) Msg) Cmd {
	id := uuid.New()
	m.pending = id
	m.loading = true
	m.err = ""
	return func(ctx context.Context) Msg {
		return load(ctx, id)
	}
}

// Records returns the loaded collection.
func (m *Model) Records() *collection.Collection { return m.records }

// Query describes the most recently issued record load, such as
// "last 100" or "boot -1". It is empty until the first load.
func (m *Model) Query() string { return m.query }

// LineCount returns the line count text used by LoadLogs.
func (m *Model) LineCount() string { return m.lineCount }

// Loading reports whether a load is in flight.
func (m *Model) Loading() bool { return m.loading }

// Err returns the message of the last failed load, or "".
func (m *Model) Err() string { return m.err }

// Boots returns the last loaded boot list.
func (m *Model) Boots() []journal.BootSession {
	out := make([]journal.BootSession, len(m.boots))
	copy(out, m.boots)
	return out
}

// ShowingBootList reports whether the boot list should be displayed.
func (m *Model) ShowingBootList() bool { return m.showBootList }
