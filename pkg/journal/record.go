// Package journal decodes journalctl output into log records and boot sessions.
package journal

// Defaults applied when a journal field is missing.
const (
	DefaultMessage  = "(no message)"
	DefaultUnit     = "unknown"
	DefaultPriority = "6"

	// UnknownPriorityLabel is the label for any priority outside 0-7.
	UnknownPriorityLabel = "?"
)

// LogRecord is one decoded journal entry.
type LogRecord struct {
	// Message is the human-readable text of the entry.
	Message string `json:"message"`

	// Unit is the originating systemd unit, or the syslog identifier
	// when the entry has no unit.
	Unit string `json:"unit"`

	// Priority is the raw syslog priority code ("0" through "7").
	Priority string `json:"priority"`

	// PriorityLabel is the severity name derived from Priority at decode time.
	PriorityLabel string `json:"priority_label"`

	// Timestamp is the raw __REALTIME_TIMESTAMP value (microseconds since
	// the epoch), or empty when absent.
	Timestamp string `json:"timestamp"`
}

var priorityLabels = map[string]string{
	"0": "EMERG",
	"1": "ALERT",
	"2": "CRIT",
	"3": "ERROR",
	"4": "WARN",
	"5": "NOTICE",
	"6": "INFO",
	"7": "DEBUG",
}

// PriorityLabel maps a raw priority code to its severity name.
// Any value other than "0" through "7" maps to UnknownPriorityLabel.
func PriorityLabel(code string) string {
	if label, ok := priorityLabels[code]; ok {
		return label
	}
	return UnknownPriorityLabel
}
