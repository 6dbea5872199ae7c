package runner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/luispater/uiTestKit/internal/config"
	"github.com/luispater/uiTestKit/internal/locator"
	"github.com/luispater/uiTestKit/internal/method"
	"github.com/luispater/uiTestKit/internal/utils"
)

var _ Actions = (*method.Method)(nil)

// Actions is the browser surface the runner drives. *method.Method
// implements it.
type Actions interface {
	OpenURL(url string) error
	NavigateBack() error
	NavigateForward() error
	WaitForPageLoad() error
	GetTitle() (string, error)
	GetURL() (string, error)
	ClickElement(l locator.Locator) error
	CheckCheckbox(l locator.Locator) error
	EnterText(l locator.Locator, text string) error
	ClearText(l locator.Locator) error
	SubmitForm(l locator.Locator) error
	SelectOption(l locator.Locator, optionText string) error
	VerifyElementPresent(l locator.Locator) bool
	VerifyText(l locator.Locator, expectedText string) (bool, error)
	WaitForElement(l locator.Locator) error
	GetText(l locator.Locator) (string, error)
	ScrollToElement(l locator.Locator) error
	SwitchToFrame(l locator.Locator) error
	SwitchToDefaultContent()
	SwitchToWindow(handle string) error
	WindowHandles() ([]string, error)
	ExecuteJavaScript(script string) error
	Assert(condition bool, message string) error
	TakeScreenshot(filename string) error
}

type action struct {
	// locator is set when the step addresses an element.
	locator bool
	do      func(r *RunnerManager, l locator.Locator, data string) error
}

var actions = map[string]action{
	"open": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		return r.actions.OpenURL(data)
	}},
	"back": {do: func(r *RunnerManager, _ locator.Locator, _ string) error {
		return r.actions.NavigateBack()
	}},
	"forward": {do: func(r *RunnerManager, _ locator.Locator, _ string) error {
		return r.actions.NavigateForward()
	}},
	"pageload": {do: func(r *RunnerManager, _ locator.Locator, _ string) error {
		return r.actions.WaitForPageLoad()
	}},
	"click": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.ClickElement(l)
	}},
	"check": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.CheckCheckbox(l)
	}},
	"type": {locator: true, do: func(r *RunnerManager, l locator.Locator, data string) error {
		return r.actions.EnterText(l, data)
	}},
	"clear": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.ClearText(l)
	}},
	"submit": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.SubmitForm(l)
	}},
	"select": {locator: true, do: func(r *RunnerManager, l locator.Locator, data string) error {
		return r.actions.SelectOption(l, data)
	}},
	"verifytext": {locator: true, do: func(r *RunnerManager, l locator.Locator, data string) error {
		ok, err := r.actions.VerifyText(l, data)
		if err != nil {
			return err
		}
		return r.actions.Assert(ok, fmt.Sprintf("text of %s is not %q", l, data))
	}},
	"verifypresent": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.Assert(r.actions.VerifyElementPresent(l), fmt.Sprintf("%s is not present", l))
	}},
	"verifytitle": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		title, err := r.actions.GetTitle()
		if err != nil {
			return err
		}
		return r.actions.Assert(title == data, fmt.Sprintf("title is %q, expected %q", title, data))
	}},
	"verifyurl": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		current, err := r.actions.GetURL()
		if err != nil {
			return err
		}
		return r.actions.Assert(utils.MatchURL(strings.Split(data, ","), current), fmt.Sprintf("url is %q, expected %q", current, data))
	}},
	"wait": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.WaitForElement(l)
	}},
	"storetext": {locator: true, do: func(r *RunnerManager, l locator.Locator, data string) error {
		if data == "" {
			return fmt.Errorf("storetext needs a variable name")
		}
		text, err := r.actions.GetText(l)
		if err != nil {
			return err
		}
		r.SetVariable(data, text)
		return nil
	}},
	"scroll": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.ScrollToElement(l)
	}},
	"frame": {locator: true, do: func(r *RunnerManager, l locator.Locator, _ string) error {
		return r.actions.SwitchToFrame(l)
	}},
	"defaultcontent": {do: func(r *RunnerManager, _ locator.Locator, _ string) error {
		r.actions.SwitchToDefaultContent()
		return nil
	}},
	"window": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		return r.switchWindow(data)
	}},
	"script": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		return r.actions.ExecuteJavaScript(data)
	}},
	"sleep": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		d, err := config.ParseWait(data)
		if err != nil {
			return err
		}
		r.sleep(d)
		return nil
	}},
	"screenshot": {do: func(r *RunnerManager, _ locator.Locator, data string) error {
		return r.actions.TakeScreenshot(data)
	}},
}

var actionAliases = map[string]string{
	"openurl":                "open",
	"navigateback":           "back",
	"navigateforward":        "forward",
	"waitforpageload":        "pageload",
	"clickelement":           "click",
	"checkcheckbox":          "check",
	"entertext":              "type",
	"cleartext":              "clear",
	"submitform":             "submit",
	"selectoption":           "select",
	"verifyelementpresent":   "verifypresent",
	"waitforelement":         "wait",
	"scrolltoelement":        "scroll",
	"switchtoframe":          "frame",
	"switchtodefaultcontent": "defaultcontent",
	"switchtowindow":         "window",
	"executejavascript":      "script",
	"takescreenshot":         "screenshot",
}

// lookupAction resolves a normalized keyword, accepting the long operation
// names as aliases.
func lookupAction(name string) (action, bool) {
	if alias, ok := actionAliases[name]; ok {
		name = alias
	}
	a, ok := actions[name]
	return a, ok
}

// Keywords lists the registered action keywords.
func Keywords() []string {
	keys := make([]string, 0, len(actions))
	for k := range actions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// switchWindow accepts a window handle or a zero-based index into the open
// windows.
func (r *RunnerManager) switchWindow(data string) error {
	data = strings.TrimSpace(data)
	if i, err := strconv.Atoi(data); err == nil {
		handles, errHandles := r.actions.WindowHandles()
		if errHandles != nil {
			return errHandles
		}
		if i < 0 || i >= len(handles) {
			return fmt.Errorf("window index %d out of range, %d windows open", i, len(handles))
		}
		data = handles[i]
	}
	return r.actions.SwitchToWindow(data)
}
