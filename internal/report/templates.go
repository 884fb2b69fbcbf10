package report

import (
	_ "embed"
	"html/template"
	"strings"
	textTemplate "text/template"
)

//go:embed templates/base.html
var baseHTMLTemplateStr string

var baseHTMLTemplate = template.Must(template.New("base.html").Funcs(templateFuncs).Parse(baseHTMLTemplateStr))

func loadHTMLTemplate(s string) *template.Template {
	return template.Must(
		template.Must(baseHTMLTemplate.Clone()).Parse(s),
	)
}

//go:embed templates/status.html
var statusHTMLTemplateStr string

//go:embed templates/status.txt
var statusTextTemplateStr string

var (
	statusHTMLTemplate = loadHTMLTemplate(statusHTMLTemplateStr)
	statusTextTemplate = textTemplate.Must(textTemplate.New("status.txt").Funcs(templateFuncs).Parse(statusTextTemplateStr))
)

var (
	templateFuncs = map[string]interface{}{
		"check_mark": func(ok bool) string {
			if ok {
				return "✅ OK"
			}
			return "❌ FAIL"
		},
		"align_left": func(s string, width int) string {
			if len(s) >= width {
				return s
			}
			return s + strings.Repeat(" ", width-len(s))
		},
		"plural": func(n int, singular, plural string) string {
			if n == 1 {
				return singular
			}
			return plural
		},
	}
)
