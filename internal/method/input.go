package method

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/luispater/uiTestKit/internal/locator"
	log "github.com/sirupsen/logrus"
)

// EnterText clears the visible input and types text into it.
func (m *Method) EnterText(l locator.Locator, text string) error {
	log.Infof("Entering text: %s, into element: %s", text, l)
	return m.run("entering text into", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Clear(sel, opts...),
			chromedp.SendKeys(sel, text, opts...),
		}
	})
}

func (m *Method) ClearText(l locator.Locator) error {
	log.Infof("Clearing text in element: %s", l)
	return m.run("clearing", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Clear(sel, opts...),
		}
	})
}

func (m *Method) SubmitForm(l locator.Locator) error {
	log.Infof("Submitting form with element: %s", l)
	return m.run("submitting form with", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Submit(sel, opts...),
		}
	})
}

const selectByTextJS = `function(text) {
	const wanted = text.trim();
	const option = Array.from(this.options || []).find(o => o.text.trim() === wanted);
	if (!option) {
		return false;
	}
	option.selected = true;
	this.dispatchEvent(new Event("input", {bubbles: true}));
	this.dispatchEvent(new Event("change", {bubbles: true}));
	return true;
}`

// SelectOption selects the <option> whose visible text is optionText.
func (m *Method) SelectOption(l locator.Locator, optionText string) error {
	log.Infof("Selecting option: %s, from element: %s", optionText, l)
	var found bool
	err := m.run("selecting option in", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		var nodes []*cdp.Node
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Nodes(sel, &nodes, opts...),
			chromedp.ActionFunc(func(ctx context.Context) error {
				if len(nodes) == 0 {
					return fmt.Errorf("no element matches %s", l)
				}
				return callOnNode(ctx, nodes[0], selectByTextJS, &found, optionText)
			}),
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("option %q not found in %s", optionText, l)
	}
	return nil
}
