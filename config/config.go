package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/probe/coderender"
	"github.com/jonwraymond/probe/logwriter"
	"github.com/jonwraymond/probe/observe"
	"github.com/jonwraymond/probe/render"
	"github.com/jonwraymond/probe/secret"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidColors lists the accepted color modes.
var ValidColors = []string{ColorAuto, ColorAlways, ColorNever}

// Environment overrides.
const (
	EnvMaxDepth       = "PROBE_MAX_DEPTH"
	EnvDeepLevel      = "PROBE_DEEP_LEVEL"
	EnvRevealInternal = "PROBE_REVEAL_INTERNAL"
	EnvIntrospection  = "PROBE_INTROSPECTION"
	EnvColor          = "PROBE_COLOR"
	EnvLogPath        = logwriter.EnvPath
	EnvTraceDepth     = "PROBE_TRACE_DEPTH"
	EnvLogLevel       = "PROBE_LOG_LEVEL"
)

// Config holds all probe settings.
type Config struct {
	Render  RenderConfig   `yaml:"render"`
	Log     LogConfig      `yaml:"log"`
	Observe observe.Config `yaml:"observe"`
}

// RenderConfig configures value rendering.
type RenderConfig struct {
	MaxDepth       int      `yaml:"max_depth"`
	DeepLevel      int      `yaml:"deep_level"`
	RevealInternal bool     `yaml:"reveal_internal"`
	Introspection  []string `yaml:"introspection"` // disasm|syntax|source|all
	Color          string   `yaml:"color"`         // auto|always|never
}

// LogConfig configures the trace log.
type LogConfig struct {
	// Path of the log file. Empty means logwriter.DefaultPath().
	Path string `yaml:"path"`

	// Perm is the octal mode used when the file is created.
	Perm string `yaml:"perm"`

	// TraceDepth bounds how deep traced arguments are rendered.
	TraceDepth int `yaml:"trace_depth"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Render: RenderConfig{
			MaxDepth:  render.DefaultMaxDepth,
			DeepLevel: render.DefaultDeepLevel,
			Color:     ColorAuto,
		},
		Log: LogConfig{
			Perm:       "0600",
			TraceDepth: observe.DefaultTraceDepth,
		},
		Observe: observe.Config{
			ServiceName: "probe",
			Logging:     observe.LoggingConfig{Enabled: true, Level: "warn"},
		},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file. envFiles are
// loaded first; with none given, a .env in the working directory is
// loaded if present.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if cfg.Log.Path != "" {
		expanded, err := secret.ExpandEnvStrict(cfg.Log.Path)
		if err != nil {
			return nil, fmt.Errorf("config: log path: %w", err)
		}
		cfg.Log.Path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load env files: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookup secret.LookupFunc) error {
	var errs []error
	intVar := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, key, v))
				return
			}
			*dst = n
		}
	}

	intVar(EnvMaxDepth, &c.Render.MaxDepth)
	intVar(EnvDeepLevel, &c.Render.DeepLevel)
	intVar(EnvTraceDepth, &c.Log.TraceDepth)

	if v, ok := lookup(EnvRevealInternal); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvRevealInternal, v))
		} else {
			c.Render.RevealInternal = b
		}
	}
	if v, ok := lookup(EnvIntrospection); ok {
		c.Render.Introspection = strings.Split(v, ",")
	}
	if v, ok := lookup(EnvColor); ok && v != "" {
		c.Render.Color = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogPath); ok && v != "" {
		c.Log.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Observe.Logging.Enabled = true
		c.Observe.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	return errors.Join(errs...)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Render.MaxDepth < 0 || c.Log.TraceDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.Render.DeepLevel < 0 {
		return ErrInvalidDeepLevel
	}
	if !slices.Contains(ValidColors, c.Render.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Render.Color)
	}
	if _, err := coderender.ParseFlags(c.Render.Introspection...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Log.FileMode(); err != nil {
		return err
	}
	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// FileMode parses Perm. An empty Perm is 0600.
func (l LogConfig) FileMode() (fs.FileMode, error) {
	if l.Perm == "" {
		return 0o600, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(l.Perm, "0o"), 8, 32)
	if err != nil || n > 0o777 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPerm, l.Perm)
	}
	return fs.FileMode(n), nil
}

// RenderOptions returns the options for interactive rendering.
func (c *Config) RenderOptions() (render.Options, error) {
	flags, err := coderender.ParseFlags(c.Render.Introspection...)
	if err != nil {
		return render.Options{}, fmt.Errorf("config: %w", err)
	}
	return render.Options{
		MaxDepth:       c.Render.MaxDepth,
		DeepLevel:      c.Render.DeepLevel,
		RevealInternal: c.Render.RevealInternal,
		Introspection:  flags,
	}, nil
}

// TraceOptions returns the options for rendering traced arguments and
// results: the interactive options bounded by TraceDepth, without code
// introspection.
func (c *Config) TraceOptions() (render.Options, error) {
	opts, err := c.RenderOptions()
	if err != nil {
		return render.Options{}, err
	}
	opts.MaxDepth = min(opts.MaxDepth, c.Log.TraceDepth)
	opts.DeepLevel = min(opts.DeepLevel, observe.DefaultTraceDeepLevel)
	opts.Introspection = 0
	return opts, nil
}

// Writer returns a log writer for the configured path.
func (c *Config) Writer() (*logwriter.Writer, error) {
	perm, err := c.Log.FileMode()
	if err != nil {
		return nil, err
	}
	path := c.Log.Path
	if path == "" {
		path = logwriter.DefaultPath()
	}
	return logwriter.New(path, logwriter.WithPerm(perm))
}
