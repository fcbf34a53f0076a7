package journal

import (
	"strconv"
	"strings"
)

// DefaultLineCount is used when a requested line count cannot be parsed.
const DefaultLineCount uint32 = 100

// CurrentBoot selects the running boot in a boot-scoped query.
const CurrentBoot = "0"

// OutputFields lists the journal fields requested from journalctl.
var OutputFields = []string{
	"MESSAGE",
	"_SYSTEMD_UNIT",
	"PRIORITY",
	"__REALTIME_TIMESTAMP",
	"SYSLOG_IDENTIFIER",
}

// ParseLineCount parses a requested line count as an unsigned 32-bit
// integer. A single leading '+' is accepted. Anything else that does not
// parse yields DefaultLineCount.
func ParseLineCount(n string) uint32 {
	s := strings.TrimPrefix(n, "+")
	if s == "" || s[0] == '+' {
		return DefaultLineCount
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return DefaultLineCount
	}
	return uint32(v)
}

// LineCountArgs builds the journalctl arguments for the most recent n entries.
func LineCountArgs(n string) []string {
	count := strconv.FormatUint(uint64(ParseLineCount(n)), 10)
	return append([]string{"-n", count}, jsonOutputArgs()...)
}

// BootArgs builds the journalctl arguments for all entries of one boot.
// The selector is passed through unchanged ("0" for the current boot,
// "-1" for the previous one, or a boot id).
func BootArgs(selector string) []string {
	return append([]string{"-b", selector}, jsonOutputArgs()...)
}

// BootListArgs builds the journalctl arguments for the boot list.
func BootListArgs() []string {
	return []string{"--list-boots", "--no-pager"}
}

func jsonOutputArgs() []string {
	return []string{
		"--no-pager",
		"-o", "json",
		"--output-fields=" + strings.Join(OutputFields, ","),
	}
}
