package locator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"unicode"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want Kind
	}{
		{"id", KindID},
		{"ID", KindID},
		{"name", KindName},
		{"className", KindClassName},
		{"class_name", KindClassName},
		{"TagName", KindTagName},
		{"linkText", KindLinkText},
		{"link text", KindLinkText},
		{"PARTIALLINKTEXT", KindPartialLinkText},
		{"cssSelector", KindCSSSelector},
		{"css-selector", KindCSSSelector},
		{"XPath", KindXPath},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			l, err := New(tt.kind, "value")
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Kind)
			assert.Equal(t, "value", l.Value)
		})
	}
}

func TestNewRejectsUnknownKind(t *testing.T) {
	for _, kind := range []string{"", "css", "label", "jspath", "idx"} {
		_, err := New(kind, "value")
		require.Error(t, err, kind)
		assert.True(t, errors.Is(err, ErrInvalidArgument), kind)
	}
}

func TestMustPanicsOnUnknownKind(t *testing.T) {
	assert.Panics(t, func() { Must("bogus", "x") })
	assert.NotPanics(t, func() { Must("xpath", "//a") })
}

func TestNewAnyCase(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.SampledFrom(Kinds).Draw(t, "kind")
		flips := rapid.SliceOfN(rapid.Bool(), len(kind), len(kind)).Draw(t, "flips")
		value := rapid.String().Draw(t, "value")

		var b strings.Builder
		for i, r := range string(kind) {
			if flips[i] {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
		}

		l, err := New(b.String(), value)
		if err != nil {
			t.Fatalf("New(%q): %v", b.String(), err)
		}
		if l.Kind != kind || l.Value != value {
			t.Fatalf("New(%q, %q) = %+v", b.String(), value, l)
		}
	})
}

func TestNewUnknownKindProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.StringMatching(`[a-z]{1,16}`).Draw(t, "kind")
		if _, err := ParseKind(kind); err == nil {
			return
		}
		if _, err := New(kind, "v"); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("New(%q) error = %v, want ErrInvalidArgument", kind, err)
		}
	})
}

func TestSelector(t *testing.T) {
	tests := []struct {
		locator Locator
		want    string
		xpath   bool
	}{
		{ID("login"), `[id="login"]`, false},
		{Name("user"), `[name="user"]`, false},
		{ClassName("btn"), `[class~="btn"]`, false},
		{TagName("h1"), `h1`, false},
		{CSS("form > input.primary"), `form > input.primary`, false},
		{LinkText(" Sign in "), `//a[normalize-space(.)="Sign in"]`, true},
		{PartialLinkText("Sign"), `//a[contains(., "Sign")]`, true},
		{XPath("//div[@id='x']"), `//div[@id='x']`, true},
		{ID(`a"b`), `[id="a\"b"]`, false},
		{LinkText(`say "hi"`), `//a[normalize-space(.)='say "hi"']`, true},
		{LinkText(`it's "x"`), `//a[normalize-space(.)=concat("it's ", '"', "x", '"')]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.locator.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.locator.Selector())
			assert.Equal(t, tt.xpath, tt.locator.IsXPath())
		})
	}
}

func TestQueryOptions(t *testing.T) {
	sel, opts := XPath("//a").Query()
	assert.Equal(t, "//a", sel)
	assert.Len(t, opts, 1)
	// BySearch ignores FromNode and descends into frames.
	assert.NotEqual(t, funcName(chromedp.BySearch), funcName(opts[0]))

	sel, opts = LinkText("Next").QueryFirst()
	assert.Equal(t, `//a[normalize-space(.)="Next"]`, sel)
	assert.Len(t, opts, 1)
	assert.NotEqual(t, funcName(chromedp.BySearch), funcName(opts[0]))

	sel, opts = CSS("a.b").Query()
	assert.Equal(t, "a.b", sel)
	assert.Equal(t, funcName(chromedp.ByQueryAll), funcName(opts[0]))

	_, opts = CSS("a.b").QueryFirst()
	assert.Equal(t, funcName(chromedp.ByQuery), funcName(opts[0]))
}

func TestXPathFunction(t *testing.T) {
	quoted, err := json.Marshal(`//a[@title="it's"]`)
	require.NoError(t, err)

	first := fmt.Sprintf(xpathFunction, quoted, true)
	assert.Contains(t, first, `doc.evaluate("//a[@title=\"it's\"]", this,`)
	assert.Contains(t, first, "const n = true ? Math.min(result.snapshotLength, 1)")

	all := fmt.Sprintf(xpathFunction, quoted, false)
	assert.Contains(t, all, "const n = false ?")
}

func TestString(t *testing.T) {
	assert.Equal(t, "By.xpath: //a", XPath("//a").String())
}

func funcName(f any) string {
	return runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
}
