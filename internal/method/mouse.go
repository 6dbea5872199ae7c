package method

import (
	"github.com/chromedp/chromedp"
	"github.com/luispater/uiTestKit/internal/locator"
	log "github.com/sirupsen/logrus"
)

// ClickElement waits until the element is visible and enabled, then clicks it.
func (m *Method) ClickElement(l locator.Locator) error {
	log.Infof("Clicking element: %s", l)
	return m.run("clicking", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.WaitEnabled(sel, opts...),
			chromedp.Click(sel, opts...),
		}
	})
}

// CheckCheckbox clicks the checkbox unless it is already checked.
func (m *Method) CheckCheckbox(l locator.Locator) error {
	log.Infof("Checking checkbox: %s", l)
	checked, err := m.IsSelected(l)
	if err != nil {
		return err
	}
	if checked {
		log.Debugf("Checkbox %s already checked", l)
		return nil
	}
	return m.run("checking", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.Click(sel, opts...),
		}
	})
}
