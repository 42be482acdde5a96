package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/doctree/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfigFile     = "DOCTREE_CONFIG"
	envPosition       = "DOCTREE_POSITION"
	envInterval       = "DOCTREE_INTERVAL"
	envMaxAge         = "DOCTREE_MAX_AGE"
	envHTTPTimeout    = "DOCTREE_HTTP_TIMEOUT"
	envWidth          = "DOCTREE_WIDTH"
	envHeight         = "DOCTREE_HEIGHT"
	envShowFooter     = "DOCTREE_FOOTER"
	envSanitizeHTML   = "DOCTREE_SANITIZE_HTML"
	envTemplateLocked = "DOCTREE_TEMPLATE_LOCKED"
	envTrace          = "DOCTREE_TRACE"
	envLogFile        = "DOCTREE_LOG_FILE"
)

const (
	defaultInterval    = 500 * time.Millisecond
	defaultMaxAge      = 5 * time.Second
	defaultHTTPTimeout = 30 * time.Second
)

// Values holds flag destinations. Defaults come from the environment; a YAML
// config file fills in whatever neither a flag nor the environment set.
type Values struct {
	ConfigFile     string
	Interval       time.Duration
	MaxAge         time.Duration
	HTTPTimeout    time.Duration
	Width          int
	Height         int
	ShowFooter     bool
	SanitizeHTML   bool
	TemplateLocked bool
	Trace          bool
	LogFile        string

	env map[string]string
}

// fileSettings mirrors Values for the YAML config file. Pointers distinguish
// unset keys from zero values.
type fileSettings struct {
	Position       *string        `yaml:"position"`
	Interval       *time.Duration `yaml:"interval"`
	MaxAge         *time.Duration `yaml:"max_age"`
	HTTPTimeout    *time.Duration `yaml:"http_timeout"`
	Width          *int           `yaml:"width"`
	Height         *int           `yaml:"height"`
	Footer         *bool          `yaml:"footer"`
	SanitizeHTML   *bool          `yaml:"sanitize_html"`
	TemplateLocked *bool          `yaml:"template_locked"`
	Trace          *bool          `yaml:"trace"`
	LogFile        *string        `yaml:"log_file"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("doctree", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	values := RegisterFlags(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := Build(fs, values, fs.Args())
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// RegisterFlags declares every setting on fs with environment-derived
// defaults. The same registration serves a standalone FlagSet and a cobra
// command's flags.
func RegisterFlags(fs *pflag.FlagSet, environ []string) *Values {
	env := parseEnv(environ)
	v := &Values{env: env}
	fs.StringVar(&v.ConfigFile, "config", envOrDefault(env, envConfigFile, ""), "path to a YAML config file")
	fs.DurationVar(&v.Interval, "interval", envOrDuration(env, envInterval, defaultInterval), "how often the document is polled")
	fs.DurationVar(&v.MaxAge, "max-age", envOrDuration(env, envMaxAge, defaultMaxAge), "how long a fetched document is reused before it is fetched again")
	fs.DurationVar(&v.HTTPTimeout, "http-timeout", envOrDuration(env, envHTTPTimeout, defaultHTTPTimeout), "timeout for a single URL fetch")
	fs.IntVar(&v.Width, "width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	fs.IntVar(&v.Height, "height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	fs.BoolVar(&v.ShowFooter, "footer", envOrBool(env, envShowFooter, false), "enable footer hint row")
	fs.BoolVar(&v.SanitizeHTML, "sanitize-html", envOrBool(env, envSanitizeHTML, false), "strip scripts and unsafe markup from HTML before parsing")
	fs.BoolVar(&v.TemplateLocked, "template-locked", envOrBool(env, envTemplateLocked, false), "refuse to add columns to the template")
	fs.BoolVar(&v.Trace, "trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	fs.StringVar(&v.LogFile, "log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	return v
}

// Build turns parsed flag values and positional arguments into a Config.
func Build(fs *pflag.FlagSet, v *Values, args []string) (Config, error) {
	if len(args) > 1 {
		return Config{}, fmt.Errorf("expected at most one position, got %d", len(args))
	}
	position := envOrDefault(v.env, envPosition, "")
	if v.ConfigFile != "" {
		settings, err := loadFile(v.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		if settings.Position != nil && position == "" {
			position = *settings.Position
		}
		v.apply(fs, settings)
	}
	if len(args) == 1 {
		position = args[0]
	}

	cfg := Config{
		App: app.Config{
			Position:       strings.TrimSpace(position),
			Interval:       v.Interval,
			MaxAge:         v.MaxAge,
			HTTPTimeout:    v.HTTPTimeout,
			Width:          v.Width,
			Height:         v.Height,
			ShowFooter:     v.ShowFooter,
			SanitizeHTML:   v.SanitizeHTML,
			TemplateLocked: v.TemplateLocked,
		},
		Logging: Logging{
			FilePath: v.LogFile,
			Trace:    v.Trace,
		},
		Flags: map[string]string{
			"config":         v.ConfigFile,
			"position":       position,
			"interval":       v.Interval.String(),
			"maxAge":         v.MaxAge.String(),
			"httpTimeout":    v.HTTPTimeout.String(),
			"width":          strconv.Itoa(v.Width),
			"height":         strconv.Itoa(v.Height),
			"footer":         strconv.FormatBool(v.ShowFooter),
			"sanitizeHTML":   strconv.FormatBool(v.SanitizeHTML),
			"templateLocked": strconv.FormatBool(v.TemplateLocked),
			"trace":          strconv.FormatBool(v.Trace),
			"logFile":        v.LogFile,
		},
		Args: append([]string(nil), args...),
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string) (fileSettings, error) {
	var settings fileSettings
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return settings, nil
}

// apply copies file settings into v for keys that no flag or environment
// variable set.
func (v *Values) apply(fs *pflag.FlagSet, s fileSettings) {
	unset := func(flag, envKey string) bool {
		if fs.Changed(flag) {
			return false
		}
		_, ok := v.env[envKey]
		return !ok
	}
	if s.Interval != nil && unset("interval", envInterval) {
		v.Interval = *s.Interval
	}
	if s.MaxAge != nil && unset("max-age", envMaxAge) {
		v.MaxAge = *s.MaxAge
	}
	if s.HTTPTimeout != nil && unset("http-timeout", envHTTPTimeout) {
		v.HTTPTimeout = *s.HTTPTimeout
	}
	if s.Width != nil && unset("width", envWidth) {
		v.Width = *s.Width
	}
	if s.Height != nil && unset("height", envHeight) {
		v.Height = *s.Height
	}
	if s.Footer != nil && unset("footer", envShowFooter) {
		v.ShowFooter = *s.Footer
	}
	if s.SanitizeHTML != nil && unset("sanitize-html", envSanitizeHTML) {
		v.SanitizeHTML = *s.SanitizeHTML
	}
	if s.TemplateLocked != nil && unset("template-locked", envTemplateLocked) {
		v.TemplateLocked = *s.TemplateLocked
	}
	if s.Trace != nil && unset("trace", envTrace) {
		v.Trace = *s.Trace
	}
	if s.LogFile != nil && unset("log-file", envLogFile) {
		v.LogFile = *s.LogFile
	}
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects settings the application cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.Interval <= 0 {
		return fmt.Errorf("interval must be positive (got %s)", cfg.App.Interval)
	}
	if cfg.App.MaxAge < 0 {
		return fmt.Errorf("max-age must be >= 0 (got %s)", cfg.App.MaxAge)
	}
	if cfg.App.HTTPTimeout < 0 {
		return fmt.Errorf("http-timeout must be >= 0 (got %s)", cfg.App.HTTPTimeout)
	}
	return nil
}
