// Package report renders the status page and its text and JSON variants.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/macrat/isdown/internal/atomicfile"
	"github.com/macrat/isdown/internal/displaytime"
	"github.com/macrat/isdown/internal/isdownerr"
	"github.com/macrat/isdown/internal/uptime"
)

var (
	ErrRender        = errors.New("failed to render status")
	ErrUnknownFormat = errors.New("unknown output format")
)

const (
	DefaultTitle     = "Is WatGPU Down?"
	DefaultCheckNote = "checks every 15 mins"
)

// Options is the page settings that do not come from history.
type Options struct {
	Title string

	// CheckNote is shown after the last checked time, in parentheses. Empty means no note.
	CheckNote string
}

// UptimeView is an uptime percentage for display.
type UptimeView struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Text    string  `json:"text"`
}

// CheckView is a result of a check for display.
type CheckView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	OK    bool   `json:"ok"`
}

// View is the display model of the status page.
type View struct {
	Title       string       `json:"title"`
	Up          bool         `json:"up"`
	Status      string       `json:"status"`
	Uptimes     []UptimeView `json:"uptimes"`
	Checks      []CheckView  `json:"checks"`
	StartDate   string       `json:"start_date"`
	LastChecked string       `json:"last_checked"`
	HasData     bool         `json:"has_data"`

	// LastCheckedAt is nil if there is no observation.
	LastCheckedAt *time.Time `json:"last_checked_at"`

	Observations     int       `json:"observations"`
	ObservationsText string    `json:"-"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// NewView makes View from a Summary.
func NewView(s uptime.Summary, opts Options) View {
	v := View{
		Title:            opts.Title,
		Up:               s.Up,
		Status:           "DOWN",
		Uptimes:          make([]UptimeView, len(s.Uptimes)),
		HasData:          s.HasData,
		LastChecked:      "Never",
		Observations:     s.Observations,
		ObservationsText: humanize.Comma(int64(s.Observations)),
		GeneratedAt:      s.GeneratedAt.UTC(),
	}

	if v.Title == "" {
		v.Title = DefaultTitle
	}

	if s.Up {
		v.Status = "ONLINE"
	}

	for i, u := range s.Uptimes {
		v.Uptimes[i] = UptimeView{
			Label:   u.Window.Label,
			Percent: u.Percent,
			Text:    fmt.Sprintf("%.1f%%", u.Percent),
		}
	}

	v.Checks = []CheckView{
		{"ssh", "SSH Status (HPC)", s.Checks.SSH},
		{"ping", "Ping Status", s.Checks.Ping},
		{"http", "Website (HTTP)", s.Checks.HTTP},
	}

	if s.HasData {
		t := s.LastChecked.UTC()
		v.LastCheckedAt = &t

		v.LastChecked = displaytime.Eastern(s.LastChecked).Format("2006-01-02 15:04:05") + " ET"
		if opts.CheckNote != "" {
			v.LastChecked += " (" + opts.CheckNote + ")"
		}

		v.StartDate = displaytime.Eastern(s.FirstRecorded).Format("2006-01-02")
	} else {
		v.StartDate = s.GeneratedAt.Format("2006-01-02")
	}

	return v
}

// Format is the output format of the status.
type Format int8

const (
	FormatHTML Format = iota
	FormatText
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "html"
	}
}

// ParseFormat parses the name of a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "html":
		return FormatHTML, nil
	case "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatHTML, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// WriteHTML writes the status page.
func WriteHTML(w io.Writer, v View) error {
	return statusHTMLTemplate.Execute(w, v)
}

// WriteText writes the status as a plain text.
func WriteText(w io.Writer, v View) error {
	return statusTextTemplate.Execute(w, v)
}

// WriteJSON writes the status as a JSON object.
func WriteJSON(w io.Writer, v View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Write writes v in the format.
func Write(w io.Writer, f Format, v View) error {
	switch f {
	case FormatHTML:
		return WriteHTML(w, v)
	case FormatText:
		return WriteText(w, v)
	case FormatJSON:
		return WriteJSON(w, v)
	default:
		return ErrUnknownFormat
	}
}

// WriteFile writes v to the file at path.
// The existing file is replaced only if rendering succeeded.
func WriteFile(path string, f Format, v View) error {
	err := atomicfile.WriteFile(path, 0644, func(w io.Writer) error {
		return Write(w, f, v)
	})
	if err != nil {
		return isdownerr.New(ErrRender, err, "failed to write %s status to %s", f, path)
	}
	return nil
}
