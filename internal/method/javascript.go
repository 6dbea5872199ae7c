package method

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// ExecuteJavaScript runs script as the body of a function, so a top level
// "return" is allowed. The result is discarded.
func (m *Method) ExecuteJavaScript(script string) error {
	log.Infof("Executing JavaScript: %s", script)
	return m.EvaluateJavaScript(script, nil)
}

// EvaluateJavaScript runs script like ExecuteJavaScript and decodes its
// return value into res. A nil res discards the value. After SwitchToFrame
// the script runs in the frame's window with this bound to its document.
func (m *Method) EvaluateJavaScript(script string, res interface{}) error {
	var action chromedp.Action
	if frame := m.frame; frame != nil {
		action = chromedp.ActionFunc(func(ctx context.Context) error {
			return callOnNode(ctx, frame, fmt.Sprintf("function() {\n%s\n}", script), res)
		})
	} else {
		action = chromedp.Evaluate(fmt.Sprintf("(function() {\n%s\n})()", script), res)
	}
	if err := m.runLookup(action); err != nil {
		log.Error(err)
		return fmt.Errorf("error executing script: %w", err)
	}
	return nil
}
