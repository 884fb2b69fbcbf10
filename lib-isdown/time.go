package isdown

import (
	"fmt"
	"strings"
	"time"
)

var (
	timeformats []string
)

func init() {
	dfs := []string{
		"2006-01-02T",
		"2006-01-02 ",
		"20060102T",
	}
	tfs := []string{
		"15:04:05",
		"15:04:05.999999999",
		"150405",
		"150405.999999999",
	}
	zfs := []string{
		"Z07:00",
		"Z0700",
		"Z07",
		"",
	}
	for _, df := range dfs {
		for _, tf := range tfs {
			for _, zf := range zfs {
				timeformats = append(timeformats, df+tf+zf)
			}
		}
	}
}

// ParseTime parses ISO-8601 timestamp in history file.
//
// This function supports RFC3339 and some variant formats.
// A timestamp without time zone is read as UTC, because older history files
// were written by a runner that used UTC as the local time.
func ParseTime(s string) (time.Time, error) {
	x := strings.ToUpper(strings.TrimSpace(s))
	for _, f := range timeformats {
		t, err := time.Parse(f, x)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
