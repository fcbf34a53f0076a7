package journal

import (
	"fmt"
	"strconv"
	"time"
)

// ParseRealtime converts a __REALTIME_TIMESTAMP value (microseconds since
// the Unix epoch) into a time.Time. Decoding never calls this; records keep
// the raw string and only presentation code converts it.
func ParseRealtime(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	usec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}

	return time.UnixMicro(usec), nil
}
