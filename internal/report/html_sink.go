package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"formatDuration": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
	"upper": strings.ToUpper,
}

// HTMLSink renders a Report to a single HTML file.
type HTMLSink struct {
	file string
	tmpl *template.Template
}

func NewHTMLSink(file string) (*HTMLSink, error) {
	tmpl, err := template.New("report").Funcs(templateFuncs).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &HTMLSink{file: file, tmpl: tmpl}, nil
}

func (s *HTMLSink) File() string {
	return s.file
}

// Render returns the HTML for r.
func (s *HTMLSink) Render(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders r and replaces the output file.
func (s *HTMLSink) Write(r *Report) error {
	html, err := s.Render(r)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.file); dir != "." {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	if err = os.WriteFile(s.file, html, 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}
	return nil
}
