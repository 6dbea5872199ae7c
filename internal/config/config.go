package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/magiconair/properties"
)

const (
	DefaultPath         = "resources/config.properties"
	DefaultLogConfig    = "resources/log.yaml"
	DefaultReportFile   = "TestReport.html"
	DefaultWait         = 10 * time.Second
	DefaultWindowWidth  = 1920
	DefaultWindowHeight = 1080
)

// ErrConfigLoad is returned when the configuration file cannot be read or parsed.
var ErrConfigLoad = errors.New("config: load failed")

// AppConfig holds the settings of one test run. It is loaded once and must
// be treated as read-only afterwards.
type AppConfig struct {
	Debug        bool            `yaml:"debug"`
	Browser      string          `yaml:"browser"`
	Headless     bool            `yaml:"headless"`
	ImplicitWait Duration        `yaml:"implicit-wait"`
	ExplicitWait Duration        `yaml:"explicit-wait"`
	LogConfig    string          `yaml:"log-config"`
	Chrome       AppConfigChrome `yaml:"chrome"`
	Report       AppConfigReport `yaml:"report"`
}

type AppConfigChrome struct {
	ExecPath     string   `yaml:"path"`
	Args         []string `yaml:"args"`
	UserDataDir  string   `yaml:"user-data-dir,omitempty"`
	WindowWidth  int      `yaml:"window-width"`
	WindowHeight int      `yaml:"window-height"`
}

type AppConfigReport struct {
	File       string `yaml:"file"`
	Title      string `yaml:"title"`
	Author     string `yaml:"author"`
	EmployeeID string `yaml:"employee-id"`
	Company    string `yaml:"company"`
}

// Duration accepts either a Go duration ("1500ms") or a bare number of seconds ("10").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(b []byte) error {
	var raw string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseWait(raw)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// ParseWait parses a timeout value. Empty input yields zero.
func ParseWait(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative wait %q", value)
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid wait %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative wait %q", value)
	}
	return d, nil
}

// LoadConfig reads the configuration file at path. Files ending in .yaml or
// .yml are decoded as YAML, anything else as a Java style properties file.
func LoadConfig(path string) (*AppConfig, error) {
	var (
		cfg *AppConfig
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = loadYAML(path)
	default:
		cfg, err = loadProperties(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigLoad, path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func loadYAML(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config AppConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func loadProperties(path string) (*AppConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, err
	}
	return FromProperties(p)
}

// FromProperties maps a parsed properties set onto an AppConfig. Defaults are
// not applied.
func FromProperties(p *properties.Properties) (*AppConfig, error) {
	cfg := &AppConfig{
		Browser:   strings.TrimSpace(p.GetString("browser", "")),
		Headless:  parseBool(p.GetString("headless", "")),
		Debug:     parseBool(p.GetString("debug", "")),
		LogConfig: p.GetString("log.config", ""),
		Chrome: AppConfigChrome{
			ExecPath:    p.GetString("chrome.path", ""),
			UserDataDir: p.GetString("chrome.user.data.dir", ""),
		},
		Report: AppConfigReport{
			File:       p.GetString("report.file", ""),
			Title:      p.GetString("report.title", ""),
			Author:     p.GetString("report.author", ""),
			EmployeeID: p.GetString("report.employee.id", ""),
			Company:    p.GetString("report.company", ""),
		},
	}

	for _, arg := range strings.Split(p.GetString("chrome.args", ""), ",") {
		if arg = strings.TrimSpace(arg); arg != "" {
			cfg.Chrome.Args = append(cfg.Chrome.Args, arg)
		}
	}

	var err error
	if cfg.ImplicitWait.Duration, err = ParseWait(p.GetString("implicit.wait", "")); err != nil {
		return nil, fmt.Errorf("implicit.wait: %w", err)
	}
	if cfg.ExplicitWait.Duration, err = ParseWait(p.GetString("explicit.wait", "")); err != nil {
		return nil, fmt.Errorf("explicit.wait: %w", err)
	}
	if cfg.Chrome.WindowWidth, err = parseInt(p.GetString("window.width", "")); err != nil {
		return nil, fmt.Errorf("window.width: %w", err)
	}
	if cfg.Chrome.WindowHeight, err = parseInt(p.GetString("window.height", "")); err != nil {
		return nil, fmt.Errorf("window.height: %w", err)
	}
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.ImplicitWait.Duration == 0 {
		c.ImplicitWait.Duration = DefaultWait
	}
	if c.ExplicitWait.Duration == 0 {
		c.ExplicitWait.Duration = DefaultWait
	}
	if c.Report.File == "" {
		c.Report.File = DefaultReportFile
	}
	if c.Chrome.WindowWidth == 0 {
		c.Chrome.WindowWidth = DefaultWindowWidth
	}
	if c.Chrome.WindowHeight == 0 {
		c.Chrome.WindowHeight = DefaultWindowHeight
	}
	if c.LogConfig == "" {
		c.LogConfig = DefaultLogConfig
	}
}

// parseBool follows java.lang.Boolean.parseBoolean: only "true", in any case, is true.
func parseBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func parseInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
