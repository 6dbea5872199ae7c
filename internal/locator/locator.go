package locator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// ErrInvalidArgument is returned for an unrecognized locator kind.
var ErrInvalidArgument = errors.New("invalid locator type")

type Kind string

const (
	KindID              Kind = "id"
	KindName            Kind = "name"
	KindClassName       Kind = "classname"
	KindTagName         Kind = "tagname"
	KindLinkText        Kind = "linktext"
	KindPartialLinkText Kind = "partiallinktext"
	KindCSSSelector     Kind = "cssselector"
	KindXPath           Kind = "xpath"
)

// Kinds lists every supported kind.
var Kinds = []Kind{
	KindID,
	KindName,
	KindClassName,
	KindTagName,
	KindLinkText,
	KindPartialLinkText,
	KindCSSSelector,
	KindXPath,
}

// Locator identifies zero or more elements on the current page.
type Locator struct {
	Kind  Kind
	Value string
}

// New maps a kind string to a typed Locator. The kind is matched without
// regard to case, and separators such as "_", "-" or spaces are ignored, so
// "CssSelector", "css_selector" and "css selector" are the same kind.
func New(kind, value string) (Locator, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Locator{}, err
	}
	return Locator{Kind: k, Value: value}, nil
}

// Must is like New but panics on an unknown kind.
func Must(kind, value string) Locator {
	l, err := New(kind, value)
	if err != nil {
		panic(err)
	}
	return l
}

func ParseKind(kind string) (Kind, error) {
	normalized := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ', '\t':
			return -1
		}
		return r
	}, strings.ToLower(kind))

	for _, k := range Kinds {
		if string(k) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidArgument, kind)
}

func ID(value string) Locator              { return Locator{Kind: KindID, Value: value} }
func Name(value string) Locator            { return Locator{Kind: KindName, Value: value} }
func ClassName(value string) Locator       { return Locator{Kind: KindClassName, Value: value} }
func TagName(value string) Locator         { return Locator{Kind: KindTagName, Value: value} }
func LinkText(value string) Locator        { return Locator{Kind: KindLinkText, Value: value} }
func PartialLinkText(value string) Locator { return Locator{Kind: KindPartialLinkText, Value: value} }
func CSS(value string) Locator             { return Locator{Kind: KindCSSSelector, Value: value} }
func XPath(value string) Locator           { return Locator{Kind: KindXPath, Value: value} }

func (l Locator) String() string {
	return fmt.Sprintf("By.%s: %s", l.Kind, l.Value)
}

// IsXPath reports whether the selector produced by Query is an XPath
// expression rather than a CSS selector.
func (l Locator) IsXPath() bool {
	switch l.Kind {
	case KindLinkText, KindPartialLinkText, KindXPath:
		return true
	}
	return false
}

// Selector renders the locator as a CSS selector or XPath expression.
func (l Locator) Selector() string {
	switch l.Kind {
	case KindID:
		return fmt.Sprintf(`[id=%s]`, cssString(l.Value))
	case KindName:
		return fmt.Sprintf(`[name=%s]`, cssString(l.Value))
	case KindClassName:
		return fmt.Sprintf(`[class~=%s]`, cssString(l.Value))
	case KindTagName, KindCSSSelector:
		return l.Value
	case KindLinkText:
		return fmt.Sprintf(`//a[normalize-space(.)=%s]`, xpathString(strings.TrimSpace(l.Value)))
	case KindPartialLinkText:
		return fmt.Sprintf(`//a[contains(., %s)]`, xpathString(l.Value))
	default:
		return l.Value
	}
}

// Query returns the selector together with the chromedp query options that
// select every matching node.
func (l Locator) Query() (string, []chromedp.QueryOption) {
	if l.IsXPath() {
		sel := l.Selector()
		return sel, []chromedp.QueryOption{byXPath(sel, false)}
	}
	return l.Selector(), []chromedp.QueryOption{chromedp.ByQueryAll}
}

// QueryFirst is like Query but only selects the first match in document order.
func (l Locator) QueryFirst() (string, []chromedp.QueryOption) {
	if l.IsXPath() {
		sel := l.Selector()
		return sel, []chromedp.QueryOption{byXPath(sel, true)}
	}
	return l.Selector(), []chromedp.QueryOption{chromedp.ByQuery}
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// xpathString quotes s as an XPath 1.0 literal. XPath has no escapes, so a
// value containing both quote kinds is built with concat().
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if part != "" {
			quoted = append(quoted, `"`+part+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
