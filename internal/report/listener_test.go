package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestListener(t *testing.T) *Listener {
	t.Helper()
	l := NewListener(Options{
		File:       filepath.Join(t.TempDir(), "out", "report.html"),
		Author:     "Jane Tester",
		EmployeeID: "E-1001",
		Company:    "Acme",
	})
	l.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return l
}

func TestNewListenerDefaults(t *testing.T) {
	l := NewListener(Options{})
	assert.Equal(t, DefaultFile, l.File())
	assert.Nil(t, l.Report())
}

func TestListenerPassAndFail(t *testing.T) {
	l := newTestListener(t)
	l.OnStart()

	l.OnTestStart("testLogin")
	l.OnTestSuccess("testLogin")
	l.OnTestStart("testCheckout")
	l.OnTestFailure("testCheckout", errors.New("element not found: By.id: pay"))

	r := l.Report()
	require.NotNil(t, r)
	require.Len(t, r.Entries, 2)
	assert.NotEmpty(t, r.RunID)

	login := r.Entries[0]
	assert.Equal(t, "testLogin", login.Name)
	assert.Equal(t, "Jane Tester", login.Author)
	assert.Equal(t, StatusPass, login.Status)
	require.Len(t, login.Logs, 1)
	assert.Equal(t, &Label{Text: "Test Case Passed", Color: ColorGreen}, login.Logs[0].Label)
	assert.Equal(t, time.Second, login.Duration())

	checkout := r.Entries[1]
	assert.Equal(t, StatusFail, checkout.Status)
	require.Len(t, checkout.Logs, 2)
	assert.Equal(t, &Label{Text: "Test Case Failed", Color: ColorRed}, checkout.Logs[0].Label)
	assert.Equal(t, "element not found: By.id: pay", checkout.Detail())

	assert.Equal(t, 1, r.Passed())
	assert.Equal(t, 1, r.Failed())
	assert.Equal(t, 0, r.Skipped())
	assert.Equal(t, 2, r.Total())

	assert.Equal(t, []SystemInfo{
		{Name: "Author", Value: "Jane Tester"},
		{Name: "Employee ID", Value: "E-1001"},
		{Name: "Company", Value: "Acme"},
	}, r.SystemInfo)
}

func TestListenerWritesReportOnFinish(t *testing.T) {
	l := newTestListener(t)
	l.OnStart()
	l.OnTestStart("testLogin")
	l.Info("testLogin", "opened login page")
	l.OnTestSuccess("testLogin")
	l.OnTestStart("testCheckout")
	l.OnTestFailure("testCheckout", errors.New("boom <b>"))
	l.OnTestSkipped("testRefund", "not ready")

	require.NoError(t, l.OnFinish())

	data, err := os.ReadFile(l.File())
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "testLogin")
	assert.Contains(t, html, "testCheckout")
	assert.Contains(t, html, "testRefund")
	assert.Contains(t, html, "Test Case Passed")
	assert.Contains(t, html, "Test Case Failed")
	assert.Contains(t, html, "opened login page")
	assert.Contains(t, html, "boom &lt;b&gt;")
	assert.Contains(t, html, "Employee ID")
	assert.Contains(t, html, "Acme")
	assert.NotContains(t, html, "boom <b>")
}

func TestListenerFinishOverwrites(t *testing.T) {
	l := newTestListener(t)
	l.OnStart()
	l.OnTestStart("first")
	l.OnTestSuccess("first")
	require.NoError(t, l.OnFinish())

	l.OnStart()
	l.OnTestStart("second")
	l.OnTestSuccess("second")
	require.NoError(t, l.OnFinish())

	data, err := os.ReadFile(l.File())
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.NotContains(t, string(data), "first")
}

func TestListenerIgnoresEventsBeforeStart(t *testing.T) {
	l := newTestListener(t)
	l.OnTestStart("early")
	l.OnTestSuccess("early")
	l.OnTestFailure("early", errors.New("x"))
	l.OnTestSkipped("early", "x")
	l.Info("early", "x")

	assert.Nil(t, l.Report())
	assert.Error(t, l.OnFinish())

	l.OnStart()
	assert.Empty(t, l.Report().Entries)
}

func TestListenerOutcomeWithoutStartEvent(t *testing.T) {
	l := newTestListener(t)
	l.OnStart()
	l.OnTestFailure("orphan", nil)

	r := l.Report()
	require.Len(t, r.Entries, 1)
	assert.Equal(t, StatusFail, r.Entries[0].Status)
	assert.Equal(t, "", r.Entries[0].Detail())
}

func TestListenerObserve(t *testing.T) {
	l := newTestListener(t)
	l.OnStart()

	t.Run("passes", func(t *testing.T) {
		l.Observe(t)
	})
	t.Run("skips", func(t *testing.T) {
		tb := l.Observe(t)
		tb.Skip("not applicable")
	})

	r := l.Report()
	require.Len(t, r.Entries, 2)
	assert.Equal(t, "TestListenerObserve/passes", r.Entries[0].Name)
	assert.Equal(t, StatusPass, r.Entries[0].Status)
	assert.Equal(t, "TestListenerObserve/skips", r.Entries[1].Name)
	assert.Equal(t, StatusSkip, r.Entries[1].Status)
	last := r.Entries[1].Logs[len(r.Entries[1].Logs)-1]
	assert.Equal(t, "not applicable", last.Detail)
}

// fakeTB stands in for a failing test so the failure path can be observed
// without failing the real one.
type fakeTB struct {
	testing.TB
	name     string
	failed   bool
	cleanups []func()
}

func (f *fakeTB) Name() string { return f.name }
func (f *fakeTB) Helper() {}
func (f *fakeTB) Cleanup(fn func()) { f.cleanups = append(f.cleanups, fn) }
func (f *fakeTB) Failed() bool { return f.failed }
func (f *fakeTB) Skipped() bool { return false }
func (f *fakeTB) Error(...any) { f.failed = true }
func (f *fakeTB) Errorf(string, ...any) { f.failed = true }
func (f *fakeTB) Fail() { f.failed = true }

func (f *fakeTB) finish() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}

func TestListenerObserveFailureDetail(t *testing.T) {
	l := newTestListener(t)
	l.OnStart()

	failing := &fakeTB{name: "TestLogin"}
	tb := l.Observe(failing)
	tb.Errorf("status is %d, expected %d", 500, 200)
	tb.Error("body:", "empty")
	failing.finish()

	silent := &fakeTB{name: "TestLogout"}
	l.Observe(silent).Fail()
	silent.finish()

	r := l.Report()
	require.Len(t, r.Entries, 2)
	assert.Equal(t, StatusFail, r.Entries[0].Status)
	assert.Equal(t, "status is 500, expected 200\nbody: empty", r.Entries[0].Detail())
	assert.Equal(t, StatusFail, r.Entries[1].Status)
	assert.Equal(t, "test failed", r.Entries[1].Detail())
}

func TestHTMLSinkRender(t *testing.T) {
	sink, err := NewHTMLSink(filepath.Join(t.TempDir(), "r.html"))
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &Report{
		RunID:   "run-1",
		Title:   "Nightly",
		Started: start,
		Entries: []*Entry{{
			Name:   "testSearch",
			Status: StatusSkip,
			Start:  start,
			End:    start.Add(1500 * time.Millisecond),
			Logs:   []Log{{Time: start, Status: StatusSkip, Label: &Label{Text: "Test Case Skipped", Color: ColorOrange}}},
		}},
	}

	html, err := sink.Render(r)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Nightly")
	assert.Contains(t, string(html), "run-1")
	assert.Contains(t, string(html), "testSearch")
	assert.Contains(t, string(html), "1.5s")
	assert.Contains(t, string(html), "2024-03-01 12:00:00")
}
