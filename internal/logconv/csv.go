package logconv

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	api "github.com/macrat/isdown/lib-isdown"
)

func ToCSV(w io.Writer, h api.History) error {
	c := csv.NewWriter(w)

	err := c.Write([]string{"timestamp", "http_up", "ssh_up", "ping_up", "up"})
	if err != nil {
		return err
	}

	for _, o := range h {
		err := c.Write([]string{
			o.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatBool(o.HTTPUp),
			strconv.FormatBool(o.SSHUp),
			pingString(o),
			strconv.FormatBool(isUp(o)),
		})
		if err != nil {
			return err
		}
	}

	c.Flush()

	return c.Error()
}
