package method

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// runLookup executes actions bounded by the session's implicit wait.
func (m *Method) runLookup(actions ...chromedp.Action) error {
	ctx, cancel, err := m.session.LookupContext()
	if err != nil {
		return err
	}
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (m *Method) OpenURL(url string) error {
	log.Infof("Opening URL: %s", url)
	m.frame = nil
	if err := m.runLookup(chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("error opening %s: %w", url, err)
	}
	return nil
}

func (m *Method) NavigateBack() error {
	log.Info("Navigating back")
	m.frame = nil
	if err := m.runLookup(chromedp.NavigateBack()); err != nil {
		return fmt.Errorf("error navigating back: %w", err)
	}
	return nil
}

func (m *Method) NavigateForward() error {
	log.Info("Navigating forward")
	m.frame = nil
	if err := m.runLookup(chromedp.NavigateForward()); err != nil {
		return fmt.Errorf("error navigating forward: %w", err)
	}
	return nil
}

// WaitForPageLoad blocks until document.readyState is "complete".
func (m *Method) WaitForPageLoad() error {
	log.Info("Waiting for page to load")
	ctx, cancel, err := m.waitContext()
	if err != nil {
		return err
	}
	defer cancel()

	var complete bool
	err = chromedp.Run(ctx, chromedp.Poll(`document.readyState === "complete"`, &complete, chromedp.WithPollingTimeout(m.timeout)))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, chromedp.ErrPollingTimeout) {
			return fmt.Errorf("%w: page load after %s", ErrWaitTimeout, m.timeout)
		}
		return fmt.Errorf("error waiting for page load: %w", err)
	}
	return nil
}

func (m *Method) GetURL() (string, error) {
	var currentURL string
	err := m.runLookup(chromedp.Location(&currentURL))
	if err != nil {
		return "", err
	}
	return currentURL, nil
}

func (m *Method) GetTitle() (string, error) {
	var title string
	if err := m.runLookup(chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}
