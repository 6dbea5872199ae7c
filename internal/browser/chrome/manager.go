package chrome

import (
	"context"
	"errors"
	"fmt"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// Manager owns one Chrome process and the tab contexts attached to it.
type Manager struct {
	opts          Options
	allocator     context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	current       target.ID
	tabs          map[target.ID]context.Context
	tabCancels    []context.CancelFunc
}

// NewManager creates a Manager. The browser is not started until
// LaunchBrowserAndContext is called.
func NewManager(opts Options) *Manager {
	return &Manager{
		opts: opts,
		tabs: make(map[target.ID]context.Context),
	}
}

// LaunchBrowserAndContext starts Chrome and attaches to its first tab. The
// parent context must stay alive for as long as the browser is used.
func (m *Manager) LaunchBrowserAndContext(parent context.Context) error {
	if m.browserCtx != nil {
		return fmt.Errorf("browser already launched")
	}

	m.allocator, m.allocCancel = chromedp.NewExecAllocator(parent, m.opts.AllocatorOptions()...)
	m.browserCtx, m.browserCancel = chromedp.NewContext(
		m.allocator,
		chromedp.WithLogf(log.Infof),
		// chromedp.WithDebugf(log.Debugf),
		chromedp.WithErrorf(log.Debugf),
	)

	if err := chromedp.Run(m.browserCtx); err != nil {
		_ = m.Close()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	if c := chromedp.FromContext(m.browserCtx); c != nil && c.Target != nil {
		m.current = c.Target.TargetID
		m.tabs[m.current] = m.browserCtx
	}

	if m.opts.Maximize && !m.opts.Headless {
		if err := m.maximize(); err != nil {
			log.Warnf("Failed to maximize browser window: %v", err)
		}
	}

	log.Infof("Chromedp browser launched successfully with path: %s", m.opts.ExecPath)
	return nil
}

func (m *Manager) maximize() error {
	return chromedp.Run(m.Context(), chromedp.ActionFunc(func(ctx context.Context) error {
		windowID, _, err := cdpbrowser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return err
		}
		return cdpbrowser.SetWindowBounds(windowID, &cdpbrowser.Bounds{
			WindowState: cdpbrowser.WindowStateMaximized,
		}).Do(ctx)
	}))
}

// Context returns the context of the tab that actions are sent to.
func (m *Manager) Context() context.Context {
	if ctx, ok := m.tabs[m.current]; ok {
		return ctx
	}
	return m.browserCtx
}

// CurrentTarget returns the id of the active tab.
func (m *Manager) CurrentTarget() string {
	return string(m.current)
}

// PageTargets lists the ids of all open tabs and windows.
func (m *Manager) PageTargets() ([]string, error) {
	if m.browserCtx == nil {
		return nil, fmt.Errorf("browser context not initialized. Call LaunchBrowserAndContext first")
	}
	infos, err := chromedp.Targets(m.browserCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Type == "page" {
			ids = append(ids, string(info.TargetID))
		}
	}
	return ids, nil
}

// SwitchTarget makes the tab with the given id the active one.
func (m *Manager) SwitchTarget(id string) error {
	if m.browserCtx == nil {
		return fmt.Errorf("browser context not initialized. Call LaunchBrowserAndContext first")
	}
	targetID := target.ID(id)
	if _, ok := m.tabs[targetID]; !ok {
		tabCtx, tabCancel := chromedp.NewContext(m.browserCtx, chromedp.WithTargetID(targetID))
		if err := chromedp.Run(tabCtx); err != nil {
			tabCancel()
			return fmt.Errorf("failed to attach to target %s: %w", id, err)
		}
		m.tabs[targetID] = tabCtx
		m.tabCancels = append(m.tabCancels, tabCancel)
	}
	m.current = targetID

	if err := chromedp.Run(m.tabs[targetID], chromedp.ActionFunc(func(ctx context.Context) error {
		return target.ActivateTarget(targetID).Do(ctx)
	})); err != nil {
		log.Debugf("Failed to bring target %s to front: %v", id, err)
	}
	log.Debugf("Switched to target %s", id)
	return nil
}

// Close shuts the browser process down. Calling it more than once is safe.
func (m *Manager) Close() error {
	var firstErr error

	for i := len(m.tabCancels) - 1; i >= 0; i-- {
		m.tabCancels[i]()
	}
	m.tabCancels = nil
	m.tabs = make(map[target.ID]context.Context)

	if m.browserCancel != nil {
		log.Debug("Cancelling Chromedp browser context...")
		if err := chromedp.Cancel(m.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Debugf("Error closing browser: %v", err)
			firstErr = err
		}
		m.browserCancel()
		m.browserCancel = nil
		m.browserCtx = nil
		log.Info("Chromedp browser context cancelled.")
	}

	if m.allocCancel != nil {
		log.Debug("Cancelling Chromedp allocator context...")
		m.allocCancel()
		m.allocCancel = nil
		m.allocator = nil
		log.Info("Chromedp allocator context cancelled and browser process shut down.")
	}

	return firstErr
}
