package method

import (
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/luispater/uiTestKit/internal/locator"
	log "github.com/sirupsen/logrus"
)

// SwitchToFrame scopes later element lookups to the document of the matched
// <iframe> or <frame>.
func (m *Method) SwitchToFrame(l locator.Locator) error {
	log.Infof("Switching to frame: %s", l)
	var nodes []*cdp.Node
	err := m.run("switching to frame", l, func(sel string, opts []chromedp.QueryOption) []chromedp.Action {
		return []chromedp.Action{
			chromedp.WaitVisible(sel, opts...),
			chromedp.Nodes(sel, &nodes, opts...),
		}
	})
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("no element matches %s", l)
	}
	name := strings.ToUpper(nodes[0].NodeName)
	if name != "IFRAME" && name != "FRAME" {
		return fmt.Errorf("element %s is a %s, not a frame", l, nodes[0].NodeName)
	}
	if nodes[0].ContentDocument != nil {
		m.frame = nodes[0].ContentDocument
	} else {
		m.frame = nodes[0]
	}
	return nil
}

// SwitchToDefaultContent leaves any frame and returns to the top document.
func (m *Method) SwitchToDefaultContent() {
	log.Info("Switching to default content")
	m.frame = nil
}

func (m *Method) SwitchToWindow(handle string) error {
	log.Infof("Switching to window: %s", handle)
	if err := m.session.SwitchToWindow(handle); err != nil {
		return err
	}
	m.frame = nil
	return nil
}

func (m *Method) WindowHandles() ([]string, error) {
	return m.session.WindowHandles()
}

func (m *Method) CurrentWindow() (string, error) {
	return m.session.CurrentWindow()
}
