package generator

import (
	"embed"
	"fmt"
	"io"
	"sync"
	"text/template"

	"go.uber.org/multierr"

	"github.com/calumari/codama/errors"
)

const (
	tmplReport  = "report"
	tmplSummary = "summary"
)

const templatePattern = "templates/*.gtpl"

//go:embed templates/*.gtpl
var templatesFS embed.FS

var (
	reportTmpl   *template.Template
	tmplInitOnce sync.Once
	tmplInitErr  error
)

var templateFuncs = template.FuncMap{
	"count": func(n int, noun string) string {
		if n == 1 {
			return "1 " + noun
		}
		return fmt.Sprintf("%d %ss", n, noun)
	},
}

// reportModel lists the failures of a run. A compilation failure expands
// into its diagnostics, anything else is a single message.
type reportModel struct {
	Failures []failureModel
}

type failureModel struct {
	Message     string
	Diagnostics []string
}

type summaryModel struct {
	Output       string
	Version      string
	Program      string
	Accounts     int
	Instructions int
	DefinedTypes int
	Errors       int
	Additional   int
}

// Report writes err to w, one diagnostic per line as `file:line:col: message`.
func Report(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	if err := ensureTemplates(); err != nil {
		return err
	}
	var data reportModel
	for _, e := range multierr.Errors(err) {
		f := failureModel{Message: e.Error()}
		for _, d := range errors.Diagnostics(e) {
			f.Diagnostics = append(f.Diagnostics, d.String())
		}
		data.Failures = append(data.Failures, f)
	}
	return reportTmpl.ExecuteTemplate(w, tmplReport, data)
}

func validateTemplates() error {
	for _, name := range []string{tmplReport, tmplSummary} {
		if reportTmpl.Lookup(name) == nil {
			return fmt.Errorf("required template %q not found", name)
		}
	}
	return nil
}

// ensureTemplates parses and validates templates exactly once.
func ensureTemplates() error {
	tmplInitOnce.Do(func() {
		var t *template.Template
		t, tmplInitErr = template.New(tmplReport).Funcs(templateFuncs).ParseFS(templatesFS, templatePattern)
		if tmplInitErr != nil {
			return
		}
		reportTmpl = t
		tmplInitErr = validateTemplates()
	})
	return tmplInitErr
}
