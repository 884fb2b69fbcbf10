// Package logconv converts history to other formats for reporting.
//
// The "up" column of every format is the composite status used for uptime statistics,
// so that a record without a ping result counts as up.
package logconv

import (
	"strconv"

	api "github.com/macrat/isdown/lib-isdown"
)

func pingString(o api.Observation) string {
	if !o.HasPing() {
		return ""
	}
	return strconv.FormatBool(*o.PingUp)
}

func isUp(o api.Observation) bool {
	return api.CompositeStatus(o, api.FailOpen)
}
