package chrome

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
	log "github.com/sirupsen/logrus"
)

// Options describes the Chrome process to launch.
type Options struct {
	ExecPath     string
	UserDataDir  string
	Headless     bool
	Maximize     bool
	WindowWidth  int
	WindowHeight int
	Args         []string
}

// Flags returns the command line switches for o, keyed by switch name
// without the leading dashes.
func (o Options) Flags() map[string]interface{} {
	flags := map[string]interface{}{}

	if o.Headless {
		flags["headless"] = true
		flags["disable-gpu"] = true
		if o.WindowWidth > 0 && o.WindowHeight > 0 {
			flags["window-size"] = fmt.Sprintf("%d,%d", o.WindowWidth, o.WindowHeight)
		}
	} else if o.Maximize {
		flags["start-maximized"] = true
	}

	for _, arg := range o.Args {
		if arg != "" {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) == 2 {
				flags[strings.TrimPrefix(parts[0], "--")] = parts[1]
			} else {
				flags[strings.TrimPrefix(parts[0], "--")] = true
			}
		}
	}
	return flags
}

// AllocatorOptions converts o to chromedp exec allocator options.
func (o Options) AllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
	}

	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	if o.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(o.UserDataDir))
	}

	flags := o.Flags()
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, chromedp.Flag(name, flags[name]))
	}
	return opts
}

// FindExecPath resolves the browser binary: the configured path, then
// CHROME_BIN, then a search of the usual install locations. An empty result
// leaves the lookup to chromedp.
func FindExecPath(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	if path, found := launcher.LookPath(); found {
		return path
	}
	log.Warn("Chrome path not specified in config or CHROME_BIN env, will attempt auto-detection.")
	return ""
}
