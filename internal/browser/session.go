package browser

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Session is a handle to one live browser connection. It is not safe for
// concurrent use.
type Session struct {
	backend      backend
	implicitWait time.Duration
	closed       bool
}

// Context returns the chromedp context of the active tab.
func (s *Session) Context() (context.Context, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.backend.Context(), nil
}

// LookupContext returns the active tab context bounded by the implicit wait.
func (s *Session) LookupContext() (context.Context, context.CancelFunc, error) {
	ctx, err := s.Context()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.implicitWait)
	return ctx, cancel, nil
}

func (s *Session) ImplicitWait() time.Duration {
	return s.implicitWait
}

func (s *Session) Closed() bool {
	return s.closed
}

// CurrentWindow returns the handle of the active tab.
func (s *Session) CurrentWindow() (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.backend.CurrentTarget(), nil
}

// WindowHandles lists the handles of every open tab or window.
func (s *Session) WindowHandles() ([]string, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.backend.PageTargets()
}

// SwitchToWindow makes the tab identified by handle the active one.
func (s *Session) SwitchToWindow(handle string) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.backend.SwitchTarget(handle)
}

// Close quits the browser. Later calls are no-ops.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	log.Debug("Closing browser session...")
	return s.backend.Close()
}
