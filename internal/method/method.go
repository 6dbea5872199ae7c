package method

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/luispater/uiTestKit/internal/browser"
	"github.com/luispater/uiTestKit/internal/config"
	"github.com/luispater/uiTestKit/internal/locator"
)

var (
	// ErrWaitTimeout is returned when an explicit wait condition is not met in time.
	ErrWaitTimeout = errors.New("wait timed out")
	// ErrAssertion is returned by Assert when the condition is false.
	ErrAssertion = errors.New("assertion failed")
)

// Method performs single browser actions and assertions on a session it
// borrows from the driver. It is not safe for concurrent use.
type Method struct {
	session *browser.Session
	timeout time.Duration
	frame   *cdp.Node
}

type Option func(*Method)

// WithExplicitWait sets how long element conditions are polled before an
// action gives up. The default is 10 seconds.
func WithExplicitWait(d time.Duration) Option {
	return func(m *Method) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func NewMethod(session *browser.Session, opts ...Option) *Method {
	m := &Method{
		session: session,
		timeout: config.DefaultWait,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ExplicitWait returns the configured wait timeout.
func (m *Method) ExplicitWait() time.Duration {
	return m.timeout
}

// waitContext bounds an operation by the explicit wait.
func (m *Method) waitContext() (context.Context, context.CancelFunc, error) {
	ctx, err := m.session.Context()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	return ctx, cancel, nil
}

// query returns the selector and options for l, scoped to the current frame.
// When all is false only the first match is resolved.
func (m *Method) query(l locator.Locator, all bool) (string, []chromedp.QueryOption) {
	var (
		sel  string
		opts []chromedp.QueryOption
	)
	if all {
		sel, opts = l.Query()
	} else {
		sel, opts = l.QueryFirst()
	}
	if m.frame != nil {
		opts = append(opts, chromedp.FromNode(m.frame))
	}
	return sel, opts
}

// run executes actions under the explicit wait and maps a deadline to ErrWaitTimeout.
func (m *Method) run(what string, l locator.Locator, build func(sel string, opts []chromedp.QueryOption) []chromedp.Action) error {
	sel, opts := m.query(l, false)
	ctx, cancel, err := m.waitContext()
	if err != nil {
		return err
	}
	defer cancel()

	if err = chromedp.Run(ctx, build(sel, opts)...); err != nil {
		return m.wrap(what, l, err)
	}
	return nil
}

func (m *Method) wrap(what string, l locator.Locator, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s after %s", ErrWaitTimeout, what, l, m.timeout)
	}
	return fmt.Errorf("error %s %s: %w", what, l, err)
}

// callOnNode calls function with node bound to this and decodes the result
// into res.
func callOnNode(ctx context.Context, node *cdp.Node, function string, res any, args ...any) error {
	obj, err := dom.ResolveNode().WithNodeID(node.NodeID).Do(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = runtime.ReleaseObject(obj.ObjectID).Do(ctx)
	}()
	return chromedp.CallFunctionOn(function, res, func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
		return p.WithObjectID(obj.ObjectID)
	}, args...).Do(ctx)
}
