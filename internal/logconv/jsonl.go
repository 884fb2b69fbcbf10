package logconv

import (
	"io"

	"github.com/goccy/go-json"
	api "github.com/macrat/isdown/lib-isdown"
)

// ToJSONLines writes one observation per line, in the same format as the history file.
func ToJSONLines(w io.Writer, h api.History) error {
	enc := json.NewEncoder(w)
	for _, o := range h {
		if err := enc.Encode(o); err != nil {
			return err
		}
	}
	return nil
}
