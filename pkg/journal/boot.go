package journal

import (
	"strconv"
	"strings"
)

// NoLastEntry is the LastEntry value of a session whose line has no
// last-entry columns.
const NoLastEntry = "N/A"

// minBootTokens is the fewest whitespace-separated tokens a boot line needs.
const minBootTokens = 5

// BootSession is one boot as reported by `journalctl --list-boots`.
type BootSession struct {
	// ID is the opaque boot identifier.
	ID string `json:"boot_id"`

	// Offset is relative to the current boot: 0 is current, negative is past.
	Offset int `json:"boot_offset"`

	FirstEntry string `json:"first_entry"`
	LastEntry  string `json:"last_entry"`
}

// ParseBootList parses the tabular output of `journalctl --list-boots`.
//
// Tokens are read positionally: offset, boot id, the two date/time tokens
// of the first entry, a zone token, then the two date/time tokens of the
// last entry. Lines with fewer than five tokens are dropped without error.
// An unparseable offset becomes 0. Output order follows input order.
func ParseBootList(text string) []BootSession {
	var sessions []BootSession

	for line := range strings.Lines(text) {
		fields := strings.Fields(line)
		if len(fields) < minBootTokens {
			continue
		}

		offset, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			offset = 0
		}

		session := BootSession{
			ID:         fields[1],
			Offset:     int(offset),
			FirstEntry: fields[2] + " " + fields[3],
			LastEntry:  NoLastEntry,
		}
		if len(fields) >= 7 {
			session.LastEntry = fields[5] + " " + fields[6]
		}

		sessions = append(sessions, session)
	}

	return sessions
}
