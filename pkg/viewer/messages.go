package viewer

import (
	"github.com/google/uuid"

	"github.com/ccollicutt/journalview/pkg/journal"
)

// Msg is an input to Model.Update: a user command or a load completion.
type Msg interface {
	msg()
}

// LoadLogs loads the most recent entries using the model's line count.
type LoadLogs struct{}

// LogsLoaded delivers the result of a record load.
type LogsLoaded struct {
	RequestID uuid.UUID
	Records   []journal.LogRecord
	Err       error
}

// UpdateFilter replaces the filter text.
type UpdateFilter struct {
	Text string
}

// UpdateLineCount replaces the line count text used by LoadLogs.
type UpdateLineCount struct {
	Count string
}

// ClearFilter empties the filter text.
type ClearFilter struct{}

// ShowCurrentBoot loads every entry of the current boot.
type ShowCurrentBoot struct{}

// ShowBootList loads and shows the boot list.
type ShowBootList struct{}

// BootListLoaded delivers the result of a boot list load.
type BootListLoaded struct {
	RequestID uuid.UUID
	Boots     []journal.BootSession
	Err       error
}

// SelectBoot loads every entry of the boot at Offset and hides the boot list.
type SelectBoot struct {
	Offset int
}

// Quit stops a running Program.
type Quit struct{}

func (LoadLogs) msg()        {}
func (LogsLoaded) msg()      {}
func (UpdateFilter) msg()    {}
func (UpdateLineCount) msg() {}
func (ClearFilter) msg()     {}
func (ShowCurrentBoot) msg() {}
func (ShowBootList) msg()    {}
func (BootListLoaded) msg()  {}
func (SelectBoot) msg()      {}
func (Quit) msg()            {}
