package report

import (
	"time"
)

type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
	StatusInfo Status = "info"
)

type Color string

const (
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorGrey   Color = "grey"
)

// Label is a colored status marker shown in an entry's log.
type Label struct {
	Text  string
	Color Color
}

// Log is one line of an entry's log.
type Log struct {
	Time   time.Time
	Status Status
	Label  *Label
	Detail string
}

// Entry is the record of one test.
type Entry struct {
	Name   string
	Author string
	Status Status
	Start  time.Time
	End    time.Time
	Logs   []Log
}

// Detail returns the failure detail of the entry, if any.
func (e *Entry) Detail() string {
	for _, l := range e.Logs {
		if l.Status == StatusFail && l.Detail != "" {
			return l.Detail
		}
	}
	return ""
}

func (e *Entry) Duration() time.Duration {
	if e.End.IsZero() {
		return 0
	}
	return e.End.Sub(e.Start)
}

type SystemInfo struct {
	Name  string
	Value string
}

// Report is the in-memory model that is rendered to HTML at the end of a run.
type Report struct {
	RunID      string
	Title      string
	Started    time.Time
	Finished   time.Time
	SystemInfo []SystemInfo
	Entries    []*Entry
}

func (r *Report) Count(status Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Passed() int  { return r.Count(StatusPass) }
func (r *Report) Failed() int  { return r.Count(StatusFail) }
func (r *Report) Skipped() int { return r.Count(StatusSkip) }
func (r *Report) Total() int   { return len(r.Entries) }

// find returns the most recent entry named name.
func (r *Report) find(name string) *Entry {
	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Name == name {
			return r.Entries[i]
		}
	}
	return nil
}
