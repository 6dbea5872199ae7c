package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/luispater/uiTestKit/internal/locator"
	"github.com/luispater/uiTestKit/internal/report"
	log "github.com/sirupsen/logrus"
)

// Summary counts the outcome of a run.
type Summary struct {
	Passed  int
	Failed  int
	Skipped int
}

type Option func(*RunnerManager)

// WithScreenshotDir makes the runner capture a screenshot named after the
// test case into dir when a step fails.
func WithScreenshotDir(dir string) Option {
	return func(r *RunnerManager) {
		r.screenshotDir = dir
	}
}

// RunnerManager executes keyword test cases against a browser and records the
// outcome of each case in a report listener.
type RunnerManager struct {
	actions       Actions
	listener      *report.Listener
	screenshotDir string
	variables     map[string]string
	sleep         func(time.Duration)
	abort         atomic.Bool
}

func NewRunnerManager(actions Actions, listener *report.Listener, opts ...Option) *RunnerManager {
	r := &RunnerManager{
		actions:   actions,
		listener:  listener,
		variables: make(map[string]string),
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Abort stops the run before the next step. Remaining cases are reported as
// skipped. Safe to call from another goroutine.
func (r *RunnerManager) Abort() {
	r.abort.Store(true)
}

// AbortOn calls Abort when a value arrives on signals. The returned stop
// function ends the watch and waits for it to exit.
func (r *RunnerManager) AbortOn(signals <-chan os.Signal) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case _, ok := <-signals:
			if ok {
				log.Infof("Received shutdown signal, stopping after the current step...")
				r.Abort()
			}
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

// SetVariable stores a value that later steps can reference as #name#.
func (r *RunnerManager) SetVariable(name, value string) {
	r.variables[name] = value
}

func (r *RunnerManager) Variable(name string) (string, bool) {
	v, ok := r.variables[name]
	return v, ok
}

var variablePattern = regexp.MustCompile(`#([A-Za-z0-9_.-]+)#`)

// expand replaces #name# references with stored variables. Unknown names are
// left as they are.
func (r *RunnerManager) expand(s string) string {
	if !strings.Contains(s, "#") {
		return s
	}
	return variablePattern.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := r.variables[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Run executes the cases in order and writes the report. The summary is
// returned even when writing the report fails.
func (r *RunnerManager) Run(cases []TestCase) (Summary, error) {
	var summary Summary
	r.listener.OnStart()
	for _, tc := range cases {
		if r.abort.Load() {
			log.Debugf("Get abort signal, skip test case %s", tc.Name)
			r.listener.OnTestSkipped(tc.Name, "run aborted")
			summary.Skipped++
			continue
		}
		if err := r.RunCase(tc); err != nil {
			summary.Failed++
		} else {
			summary.Passed++
		}
	}
	log.Infof("Run finished: %d passed, %d failed, %d skipped", summary.Passed, summary.Failed, summary.Skipped)
	if err := r.listener.OnFinish(); err != nil {
		return summary, fmt.Errorf("failed to write report: %w", err)
	}
	return summary, nil
}

// RunCase executes one test case, stopping at the first failing step.
func (r *RunnerManager) RunCase(tc TestCase) error {
	log.Infof("Starting test case: %s", tc.Name)
	r.listener.OnTestStart(tc.Name)

	for i, step := range tc.Steps {
		if r.abort.Load() {
			err := fmt.Errorf("aborted before step %d", i+1)
			r.listener.OnTestFailure(tc.Name, err)
			return err
		}
		r.listener.Info(tc.Name, fmt.Sprintf("Step %d: %s", i+1, step))
		if err := r.runStep(step); err != nil {
			err = fmt.Errorf("step %d (%s) %s failed: %w", i+1, step.Source, step.Action, err)
			log.Errorf("Test case %s failed: %v", tc.Name, err)
			r.captureFailure(tc.Name)
			r.listener.OnTestFailure(tc.Name, err)
			return err
		}
	}

	log.Infof("Test case passed: %s", tc.Name)
	r.listener.OnTestSuccess(tc.Name)
	return nil
}

// runStep executes a step, retrying it up to step.Retry more times. Abort
// stops further attempts.
func (r *RunnerManager) runStep(step Step) error {
	a, ok := lookupAction(normalizeAction(step.Action))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, step.Action)
	}

	var l locator.Locator
	if a.locator {
		var err error
		l, err = locator.New(step.Kind, r.expand(step.Value))
		if err != nil {
			return err
		}
	}
	data := r.expand(step.Data)

	var err error
	for attempt := 0; attempt <= step.Retry; attempt++ {
		if attempt > 0 {
			if r.abort.Load() {
				log.Debugf("Get abort signal, stop retrying %s", step.Action)
				break
			}
			log.Debugf("Retrying %s, attempt %d of %d", step.Action, attempt, step.Retry)
		}
		if err = a.do(r, l, data); err == nil {
			return nil
		}
	}
	return err
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

func (r *RunnerManager) captureFailure(name string) {
	if r.screenshotDir == "" {
		return
	}
	filename := filepath.Join(r.screenshotDir, unsafeFileChars.ReplaceAllString(name, "_")+".png")
	if err := r.actions.TakeScreenshot(filename); err != nil {
		log.Warnf("Failed to capture screenshot for %s: %v", name, err)
		return
	}
	r.listener.Info(name, "Screenshot: "+filename)
}
