package report

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DefaultFile = "TestReport.html"

// Options configure a Listener. Empty File means DefaultFile.
type Options struct {
	File       string
	Title      string
	Author     string
	EmployeeID string
	Company    string
}

// Listener turns test lifecycle events into a Report and writes it as HTML
// when the run finishes. Events must come from one goroutine.
type Listener struct {
	opts    Options
	report  *Report
	current *Entry
	now     func() time.Time
}

func NewListener(opts Options) *Listener {
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.Title == "" {
		opts.Title = "Test Report"
	}
	return &Listener{
		opts: opts,
		now:  time.Now,
	}
}

// Report returns the report of the current run, or nil before OnStart.
func (l *Listener) Report() *Report {
	return l.report
}

func (l *Listener) File() string {
	return l.opts.File
}

// OnStart begins a new, empty report.
func (l *Listener) OnStart() {
	l.report = &Report{
		RunID:   uuid.New().String(),
		Title:   l.opts.Title,
		Started: l.now(),
	}
	l.current = nil
	l.setSystemInfo("Author", l.opts.Author)
	l.setSystemInfo("Employee ID", l.opts.EmployeeID)
	l.setSystemInfo("Company", l.opts.Company)
	log.Debugf("Report %s started, output %s", l.report.RunID, l.opts.File)
}

func (l *Listener) setSystemInfo(name, value string) {
	if value == "" {
		return
	}
	l.report.SystemInfo = append(l.report.SystemInfo, SystemInfo{Name: name, Value: value})
}

func (l *Listener) started(event string) bool {
	if l.report == nil {
		log.Warnf("Report event %s received before run start, ignored", event)
		return false
	}
	return true
}

// OnTestStart creates the entry for a test.
func (l *Listener) OnTestStart(name string) {
	if !l.started("test start") {
		return
	}
	l.current = &Entry{
		Name:   name,
		Author: l.opts.Author,
		Status: StatusInfo,
		Start:  l.now(),
	}
	l.report.Entries = append(l.report.Entries, l.current)
}

// entry returns the entry for name, creating one when the test start event was missed.
func (l *Listener) entry(name string) *Entry {
	if l.current != nil && l.current.Name == name {
		return l.current
	}
	if e := l.report.find(name); e != nil {
		return e
	}
	log.Debugf("No start event for test %s, creating entry", name)
	l.OnTestStart(name)
	return l.current
}

func (l *Listener) finish(name string, status Status, label Label, detail string) {
	e := l.entry(name)
	e.Status = status
	e.End = l.now()
	e.Logs = append(e.Logs, Log{Time: e.End, Status: status, Label: &label})
	if detail != "" {
		e.Logs = append(e.Logs, Log{Time: e.End, Status: status, Detail: detail})
	}
}

func (l *Listener) OnTestSuccess(name string) {
	if !l.started("test success") {
		return
	}
	l.finish(name, StatusPass, Label{Text: "Test Case Passed", Color: ColorGreen}, "")
}

// OnTestFailure marks the test failed and attaches err as the failure detail.
func (l *Listener) OnTestFailure(name string, err error) {
	if !l.started("test failure") {
		return
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	l.finish(name, StatusFail, Label{Text: "Test Case Failed", Color: ColorRed}, detail)
}

func (l *Listener) OnTestSkipped(name, reason string) {
	if !l.started("test skipped") {
		return
	}
	l.finish(name, StatusSkip, Label{Text: "Test Case Skipped", Color: ColorOrange}, reason)
}

// Info appends an informational line to the test's log.
func (l *Listener) Info(name, message string) {
	if !l.started("info") {
		return
	}
	e := l.entry(name)
	e.Logs = append(e.Logs, Log{Time: l.now(), Status: StatusInfo, Detail: message})
}

// OnFinish writes the report to the output file.
func (l *Listener) OnFinish() error {
	if l.report == nil {
		return errors.New("report not started")
	}
	l.report.Finished = l.now()

	sink, err := NewHTMLSink(l.opts.File)
	if err != nil {
		return err
	}
	if err = sink.Write(l.report); err != nil {
		return err
	}
	log.Infof("Report written to %s (%d passed, %d failed, %d skipped)", l.opts.File, l.report.Passed(), l.report.Failed(), l.report.Skipped())
	return nil
}

// Observe records t in the report and returns a testing.TB that forwards to
// t. Failures and skips reported through the returned value are kept as the
// entry's detail. The outcome is taken when t finishes.
func (l *Listener) Observe(t testing.TB) testing.TB {
	t.Helper()
	name := t.Name()
	l.OnTestStart(name)
	o := &observedTB{TB: t}
	t.Cleanup(func() {
		switch {
		case t.Skipped():
			l.OnTestSkipped(name, o.detail(&o.skip))
		case t.Failed():
			detail := o.detail(&o.failures)
			if detail == "" {
				detail = "test failed"
			}
			l.OnTestFailure(name, errors.New(detail))
		default:
			l.OnTestSuccess(name)
		}
	})
	return o
}

type observedTB struct {
	testing.TB

	mu       sync.Mutex
	failures []string
	skip     []string
}

func (o *observedTB) record(to *[]string, msg string) {
	o.mu.Lock()
	*to = append(*to, msg)
	o.mu.Unlock()
}

func (o *observedTB) detail(from *[]string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(*from, "\n")
}

func (o *observedTB) Error(args ...any) {
	o.TB.Helper()
	o.record(&o.failures, sprintln(args...))
	o.TB.Error(args...)
}

func (o *observedTB) Errorf(format string, args ...any) {
	o.TB.Helper()
	o.record(&o.failures, fmt.Sprintf(format, args...))
	o.TB.Errorf(format, args...)
}

func (o *observedTB) Fatal(args ...any) {
	o.TB.Helper()
	o.record(&o.failures, sprintln(args...))
	o.TB.Fatal(args...)
}

func (o *observedTB) Fatalf(format string, args ...any) {
	o.TB.Helper()
	o.record(&o.failures, fmt.Sprintf(format, args...))
	o.TB.Fatalf(format, args...)
}

func (o *observedTB) Skip(args ...any) {
	o.TB.Helper()
	o.record(&o.skip, sprintln(args...))
	o.TB.Skip(args...)
}

func (o *observedTB) Skipf(format string, args ...any) {
	o.TB.Helper()
	o.record(&o.skip, fmt.Sprintf(format, args...))
	o.TB.Skipf(format, args...)
}

// sprintln formats like testing.T.Error.
func sprintln(args ...any) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}
