package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/luispater/uiTestKit/internal/browser/chrome"
	"github.com/luispater/uiTestKit/internal/config"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidArgument is returned for a missing or unsupported browser name.
	ErrInvalidArgument = errors.New("invalid browser name")
	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("browser session is closed")
)

// backend is the part of a browser implementation a Session talks to.
type backend interface {
	LaunchBrowserAndContext(ctx context.Context) error
	Context() context.Context
	CurrentTarget() string
	PageTargets() ([]string, error)
	SwitchTarget(id string) error
	Close() error
}

type backendFactory func(opts chrome.Options) backend

var backends = map[string]backendFactory{
	"chrome": func(opts chrome.Options) backend {
		return chrome.NewManager(opts)
	},
}

// Driver creates and owns the browser session of one test run.
type Driver struct {
	cfg        *config.AppConfig
	name       string
	newBackend backendFactory
	session    *Session
}

// NewDriver selects the browser backend named by cfg.Browser. No browser
// process is started here.
func NewDriver(cfg *config.AppConfig) (*Driver, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is nil", ErrInvalidArgument)
	}
	name := strings.ToLower(strings.TrimSpace(cfg.Browser))
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArgument, cfg.Browser)
	}
	return &Driver{
		cfg:        cfg,
		name:       name,
		newBackend: factory,
	}, nil
}

// Name returns the normalized browser name.
func (d *Driver) Name() string {
	return d.name
}

// ImplicitWait is the default lookup timeout applied to new sessions.
func (d *Driver) ImplicitWait() time.Duration {
	if d.cfg.ImplicitWait.Duration > 0 {
		return d.cfg.ImplicitWait.Duration
	}
	return config.DefaultWait
}

// LaunchOptions returns what Open will launch.
func (d *Driver) LaunchOptions() chrome.Options {
	return chrome.Options{
		ExecPath:     chrome.FindExecPath(d.cfg.Chrome.ExecPath),
		UserDataDir:  d.cfg.Chrome.UserDataDir,
		Headless:     d.cfg.Headless,
		Maximize:     true,
		WindowWidth:  d.cfg.Chrome.WindowWidth,
		WindowHeight: d.cfg.Chrome.WindowHeight,
		Args:         d.cfg.Chrome.Args,
	}
}

// Open launches the browser and returns the session. While a session is
// open, Open returns that same session. ctx must outlive the session.
func (d *Driver) Open(ctx context.Context) (*Session, error) {
	if d.session != nil && !d.session.Closed() {
		return d.session, nil
	}

	opts := d.LaunchOptions()
	log.Debugf("Launching %s (headless: %t)", d.name, opts.Headless)

	b := d.newBackend(opts)
	if err := b.LaunchBrowserAndContext(ctx); err != nil {
		return nil, err
	}

	d.session = &Session{
		backend:      b,
		implicitWait: d.ImplicitWait(),
	}
	log.Infof("Browser %s started, implicit wait %s", d.name, d.session.implicitWait)
	return d.session, nil
}

// Session returns the current session, or nil if Open has not succeeded.
func (d *Driver) Session() *Session {
	return d.session
}

// Close closes the session if one is open. It is a no-op otherwise.
func (d *Driver) Close() error {
	if d.session == nil {
		return nil
	}
	return d.session.Close()
}
