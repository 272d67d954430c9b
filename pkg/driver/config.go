package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are searched, in order, by FindConfig.
var ConfigFileNames = []string{"evalui.yml", "evalui.yaml", "evalui.toml"}

// Scheduler names accepted in configuration.
const (
	SchedulerImmediate = "immediate"
	SchedulerManual    = "manual"
	SchedulerSerial    = "serial"
)

// Output formats accepted in configuration.
const (
	OutputOutline = "outline"
	OutputYAML    = "yaml"
	OutputMsgpack = "msgpack"
)

// Config is the parsed contents of evalui.yml or evalui.toml.
type Config struct {
	Path      string            `yaml:"-" toml:"-"`
	Entry     string            `yaml:"entry" toml:"entry"`
	LogLevel  string            `yaml:"log_level" toml:"log_level"`
	Scheduler string            `yaml:"scheduler" toml:"scheduler"`
	Output    string            `yaml:"output" toml:"output"`
	Aliases   map[string]string `yaml:"aliases" toml:"aliases"`
	Fixtures  []string          `yaml:"fixtures" toml:"fixtures"`
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Entry == "" {
		c.Entry = "ContentView"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Scheduler == "" {
		c.Scheduler = SchedulerImmediate
	}
	if c.Output == "" {
		c.Output = OutputOutline
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// FindConfig walks up from startDir looking for a configuration file.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("config: resolve %s: %w", startDir, err)
	}
	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("config: stat %s: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig parses a YAML or TOML configuration file, chosen by
// extension, and returns it with defaults applied and validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", absPath, err)
	}
	var cfg *Config
	switch strings.ToLower(filepath.Ext(absPath)) {
	case ".toml":
		cfg, err = parseTOML(data)
	case ".yml", ".yaml":
		cfg, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("config: %s: unsupported extension", absPath)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func parseTOML(data []byte) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if strings.TrimSpace(c.Entry) == "" {
		errs.Issues = append(errs.Issues, "entry must name a view type")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	switch c.Scheduler {
	case SchedulerImmediate, SchedulerManual, SchedulerSerial:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("scheduler %q must be one of immediate, manual, serial", c.Scheduler))
	}
	switch c.Output {
	case OutputOutline, OutputYAML, OutputMsgpack:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("output %q must be one of outline, yaml, msgpack", c.Output))
	}
	for from, to := range c.Aliases {
		if from == "" || to == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("aliases must map non-empty kinds (%q -> %q)", from, to))
		}
	}
	for i, fixture := range c.Fixtures {
		if strings.TrimSpace(fixture) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("fixtures[%d] must be a non-empty path", i))
		}
	}
	if len(errs.Issues) > 0 {
		sort.Strings(errs.Issues)
		return &errs
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(name string) (slog.Level, bool) {
	switch name {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// FixturePaths resolves fixture globs relative to the config file.
func (c *Config) FixturePaths() ([]string, error) {
	base := "."
	if c.Path != "" {
		base = filepath.Dir(c.Path)
	}
	var out []string
	for _, pattern := range c.Fixtures {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("config: fixture pattern %s: %w", pattern, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}
