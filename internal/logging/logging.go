package logging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/goccy/go-yaml"
	log "github.com/sirupsen/logrus"
)

// LogFormatter renders "[time] [level] [file:line] message".
type LogFormatter struct {
}

func (m *LogFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	var newLog string
	if entry.HasCaller() {
		newLog = fmt.Sprintf("[%s] [%s] [%s:%d] %s\n", timestamp, entry.Level, path.Base(entry.Caller.File), entry.Caller.Line, entry.Message)
	} else {
		newLog = fmt.Sprintf("[%s] [%s] %s\n", timestamp, entry.Level, entry.Message)
	}

	b.WriteString(newLog)
	return b.Bytes(), nil
}

// Config is the content of the optional logging configuration file.
type Config struct {
	Level        string `yaml:"level"`
	ReportCaller *bool  `yaml:"report-caller"`
	Output       string `yaml:"output"`
	Format       string `yaml:"format"`
}

// Setup configures the process wide logger. It must be called once by the
// entry point before any other component logs. A missing configuration file
// is not an error; the defaults are used instead.
func Setup(configPath string, debug bool) (io.Closer, error) {
	log.SetOutput(os.Stdout)
	log.SetReportCaller(true)
	log.SetFormatter(&LogFormatter{})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if configPath == "" {
		return nopCloser{}, nil
	}
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Debugf("Logging configuration %s not found, using defaults", configPath)
		return nopCloser{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read logging configuration %s: %w", configPath, err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse logging configuration %s: %w", configPath, err)
	}
	return Apply(cfg, debug)
}

// Apply installs cfg on the standard logger. The debug flag wins over a less
// verbose configured level.
func Apply(cfg Config, debug bool) (io.Closer, error) {
	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		if debug && level < log.DebugLevel {
			level = log.DebugLevel
		}
		log.SetLevel(level)
	}
	if cfg.ReportCaller != nil {
		log.SetReportCaller(*cfg.ReportCaller)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&LogFormatter{})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stdout":
		log.SetOutput(os.Stdout)
	case "stderr":
		log.SetOutput(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
		}
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		closer = f
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
