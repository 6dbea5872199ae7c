package method

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/luispater/uiTestKit/internal/locator"
	log "github.com/sirupsen/logrus"
)

// FindElements waits until at least one element is present and returns all matches.
func (m *Method) FindElements(l locator.Locator) ([]*cdp.Node, error) {
	sel, opts := m.query(l, true)
	ctx, cancel, err := m.waitContext()
	if err != nil {
		return nil, err
	}
	defer cancel()

	var nodes []*cdp.Node
	if err = chromedp.Run(ctx,
		chromedp.WaitReady(sel, opts...),
		chromedp.Nodes(sel, &nodes, opts...),
	); err != nil {
		return nil, m.wrap("finding", l, err)
	}
	return nodes, nil
}

// VerifyElementPresent reports whether at least one element matches. It does
// not wait for elements to appear.
func (m *Method) VerifyElementPresent(l locator.Locator) bool {
	log.Infof("Verifying element presence: %s", l)
	sel, opts := m.query(l, true)

	var nodes []*cdp.Node
	opts = append(opts, chromedp.AtLeast(0))
	if err := m.runLookup(chromedp.Nodes(sel, &nodes, opts...)); err != nil {
		log.Debugf("Error counting elements %s: %v", l, err)
		return false
	}
	return len(nodes) > 0
}

func (m *Method) WaitForElement(l locator.Locator) error {
	log.Infof("Waiting for element: %s", l)
	return m.run("waiting for", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
		}
	})
}

// GetText returns the rendered text of the first visible match.
func (m *Method) GetText(l locator.Locator) (string, error) {
	var text string
	err := m.run("reading text of", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Text(sel, &text, opts...),
		}
	})
	if err != nil {
		return "", err
	}
	log.Debugf("GetText %s: %s", l, text)
	return strings.TrimSpace(text), nil
}

// VerifyText compares the element's text with expectedText.
func (m *Method) VerifyText(l locator.Locator, expectedText string) (bool, error) {
	log.Infof("Verifying text: %s, for element: %s", expectedText, l)
	actualText, err := m.GetText(l)
	if err != nil {
		return false, err
	}
	return actualText == expectedText, nil
}

// GetValue returns the value property of an input, select or textarea.
func (m *Method) GetValue(l locator.Locator) (string, error) {
	var value string
	err := m.run("getting value from", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitReady(sel, opts...),
			chromedp.Value(sel, &value, opts...),
		}
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (m *Method) GetAttribute(l locator.Locator, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := m.run("getting attribute "+name+" from", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitReady(sel, opts...),
			chromedp.AttributeValue(sel, name, &value, &ok, opts...),
		}
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

const isSelectedJS = `function() {
	return !!(this.checked || this.selected);
}`

// IsSelected reports whether a checkbox, radio button or option is selected.
func (m *Method) IsSelected(l locator.Locator) (bool, error) {
	var selected bool
	err := m.run("reading selected state of", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		var nodes []*cdp.Node
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Nodes(sel, &nodes, opts...),
			chromedp.ActionFunc(func(ctx context.Context) error {
				if len(nodes) == 0 {
					return fmt.Errorf("no element matches %s", l)
				}
				return callOnNode(ctx, nodes[0], isSelectedJS, &selected)
			}),
		}
	})
	return selected, err
}

const scrollIntoViewJS = `function() {
	this.scrollIntoView(true);
}`

// ScrollToElement aligns the top of the first match with the top of the
// viewport, even when it is already visible.
func (m *Method) ScrollToElement(l locator.Locator) error {
	log.Infof("Scrolling to element: %s", l)
	return m.run("scrolling to", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		var nodes []*cdp.Node
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Nodes(sel, &nodes, opts...),
			chromedp.ActionFunc(func(ctx context.Context) error {
				if len(nodes) == 0 {
					return fmt.Errorf("no element matches %s", l)
				}
				return callOnNode(ctx, nodes[0], scrollIntoViewJS, nil)
			}),
		}
	})
}
