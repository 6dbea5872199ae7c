package chrome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsFlagsHeadless(t *testing.T) {
	opts := Options{Headless: true, Maximize: true, WindowWidth: 1920, WindowHeight: 1080}

	flags := opts.Flags()
	assert.Equal(t, true, flags["headless"])
	assert.Equal(t, true, flags["disable-gpu"])
	assert.Equal(t, "1920,1080", flags["window-size"])
	assert.NotContains(t, flags, "start-maximized")
}

func TestOptionsFlagsHeadful(t *testing.T) {
	opts := Options{Maximize: true, WindowWidth: 1920, WindowHeight: 1080}

	flags := opts.Flags()
	assert.NotContains(t, flags, "headless")
	assert.NotContains(t, flags, "window-size")
	assert.Equal(t, true, flags["start-maximized"])
}

func TestOptionsFlagsArgs(t *testing.T) {
	opts := Options{Args: []string{"--no-sandbox", "", "--lang=en-US", "proxy-server=http://127.0.0.1:8080"}}

	flags := opts.Flags()
	assert.Equal(t, map[string]interface{}{
		"no-sandbox":   true,
		"lang":         "en-US",
		"proxy-server": "http://127.0.0.1:8080",
	}, flags)
}

func TestOptionsArgsOverrideDefaults(t *testing.T) {
	opts := Options{Headless: true, Args: []string{"--disable-gpu=false"}}
	assert.Equal(t, "false", opts.Flags()["disable-gpu"])
}

func TestAllocatorOptions(t *testing.T) {
	opts := Options{ExecPath: "/opt/chrome", UserDataDir: "/tmp/profile", Headless: true, WindowWidth: 800, WindowHeight: 600}
	// NoFirstRun, NoDefaultBrowserCheck, ExecPath, UserDataDir + 3 flags
	assert.Len(t, opts.AllocatorOptions(), 7)
}

func TestFindExecPath(t *testing.T) {
	assert.Equal(t, "/configured/chrome", FindExecPath("/configured/chrome"))

	t.Setenv("CHROME_BIN", "/env/chrome")
	assert.Equal(t, "/env/chrome", FindExecPath(""))
}
