package logconv

import (
	"fmt"
	"io"
	"time"

	api "github.com/macrat/isdown/lib-isdown"
)

func ToLTSV(w io.Writer, h api.History) error {
	for _, o := range h {
		_, err := fmt.Fprintf(
			w,
			"timestamp:%s\thttp_up:%t\tssh_up:%t",
			o.Timestamp.UTC().Format(time.RFC3339),
			o.HTTPUp,
			o.SSHUp,
		)
		if err != nil {
			return err
		}

		if o.HasPing() {
			_, err := fmt.Fprintf(w, "\tping_up:%s", pingString(o))
			if err != nil {
				return err
			}
		}

		_, err = fmt.Fprintf(w, "\tup:%t\n", isUp(o))
		if err != nil {
			return err
		}
	}

	return nil
}
