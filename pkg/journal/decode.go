package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNotObject = errors.New("journal entry is not a JSON object")

// entry mirrors one object of `journalctl -o json` output.
// Every field is optional; a JSON null is treated like an absent field.
type entry struct {
	Message          *string `json:"MESSAGE"`
	Unit             *string `json:"_SYSTEMD_UNIT"`
	Priority         *string `json:"PRIORITY"`
	Timestamp        *string `json:"__REALTIME_TIMESTAMP"`
	SyslogIdentifier *string `json:"SYSLOG_IDENTIFIER"`
}

// DecodeError describes a single line that could not be decoded.
type DecodeError struct {
	// Line is the 1-based line number within the batch.
	Line int

	// Raw is the offending line.
	Raw string

	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeRecord decodes one line of journal JSON output.
func DecodeRecord(line string) (LogRecord, error) {
	if !strings.HasPrefix(strings.TrimSpace(line), "{") {
		return LogRecord{}, errNotObject
	}

	var e entry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		return LogRecord{}, fmt.Errorf("parsing journal entry: %w", err)
	}
	return e.record(), nil
}

func (e *entry) record() LogRecord {
	rec := LogRecord{
		Message:  DefaultMessage,
		Unit:     DefaultUnit,
		Priority: DefaultPriority,
	}

	if e.Message != nil {
		rec.Message = *e.Message
	}

	switch {
	case e.Unit != nil:
		rec.Unit = *e.Unit
	case e.SyslogIdentifier != nil:
		rec.Unit = *e.SyslogIdentifier
	}

	if e.Priority != nil {
		rec.Priority = *e.Priority
	}
	rec.PriorityLabel = PriorityLabel(rec.Priority)

	if e.Timestamp != nil {
		rec.Timestamp = *e.Timestamp
	}

	return rec
}

// DecodeRecords decodes a batch of line-delimited journal output.
// Blank lines are skipped. Lines that fail to decode are passed to onError
// (when non-nil) and skipped; decoding always continues with the next line.
func DecodeRecords(text string, onError func(*DecodeError)) []LogRecord {
	var records []LogRecord

	lineNum := 0
	for line := range strings.Lines(text) {
		lineNum++
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := DecodeRecord(line)
		if err != nil {
			if onError != nil {
				onError(&DecodeError{Line: lineNum, Raw: line, Err: err})
			}
			continue
		}
		records = append(records, rec)
	}

	return records
}
