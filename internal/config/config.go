package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raygun/raygun-tui/internal/breathing"
	"github.com/raygun/raygun-tui/internal/store"
)

// CustomPattern selects the phases listed under breathing.custom
const CustomPattern = "custom"

// Config represents the user's configuration
type Config struct {
	Store     store.Backend   `yaml:"store"`
	DataDir   string          `yaml:"data_dir,omitempty"` // Defaults to ~/.raygun
	LogLevel  string          `yaml:"log_level"`
	Breathing BreathingConfig `yaml:"breathing"`
	Timings   TimingsConfig   `yaml:"timings"`

	source string // File the config was read from, empty for defaults
}

// BreathingConfig controls the guided breathing on the interrupt screen
type BreathingConfig struct {
	Pattern         string            `yaml:"pattern"`
	Cycles          int               `yaml:"cycles"`
	ReducedMotion   bool              `yaml:"reduced_motion"`
	CompletionDelay time.Duration     `yaml:"completion_delay"`
	Custom          breathing.Pattern `yaml:"custom,omitempty"`
}

// TimingsConfig holds the flow's delays
type TimingsConfig struct {
	FrameFeedback  time.Duration `yaml:"frame_feedback"`
	InterruptStart time.Duration `yaml:"interrupt_start"`
	Freshness      time.Duration `yaml:"freshness"`
}

// Overrides are command-line values applied on top of file and env config.
// Nil fields are left alone.
type Overrides struct {
	Store         *string
	DataDir       *string
	Pattern       *string
	ReducedMotion *bool
	LogLevel      *string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Store:    store.BackendFile,
		LogLevel: "info",
		Breathing: BreathingConfig{
			Pattern:         breathing.DefaultPattern,
			Cycles:          2,
			CompletionDelay: time.Second,
		},
		Timings: TimingsConfig{
			FrameFeedback:  2 * time.Second,
			InterruptStart: 500 * time.Millisecond,
			Freshness:      24 * time.Hour,
		},
	}
}

// globalConfigDir returns the global config directory path (~/.raygun)
func globalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".raygun"), nil
}

// globalConfigPath returns the global config file path (~/.raygun/config.yaml)
func globalConfigPath() (string, error) {
	dir, err := globalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// projectConfigPath returns the project-level config path (.raygun/config.yaml in cwd)
func projectConfigPath() string {
	return filepath.Join(".raygun", "config.yaml")
}

// Load reads the config and applies RAYGUN_* environment overrides.
// An explicit path must exist. Otherwise the project config is tried first,
// then the global one, then defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	if path != "" {
		return readFile(path)
	}

	// Try project config first (.raygun/config.yaml in current directory)
	cfg, err := readFile(projectConfigPath())
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Fall back to global config (~/.raygun/config.yaml)
	globalPath, err := globalConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err = readFile(globalPath)
	if errors.Is(err, os.ErrNotExist) {
		// No config exists, return default (don't auto-create)
		return DefaultConfig(), nil
	}
	return cfg, err
}

// readFile decodes path over the defaults so omitted keys keep their default
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.source = path
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Store = store.Backend(envStr("RAYGUN_STORE", string(c.Store)))
	c.DataDir = envStr("RAYGUN_DATA_DIR", c.DataDir)
	c.LogLevel = envStr("RAYGUN_LOG_LEVEL", c.LogLevel)
	c.Breathing.Pattern = envStr("RAYGUN_PATTERN", c.Breathing.Pattern)
	c.Breathing.ReducedMotion = envBool("RAYGUN_REDUCED_MOTION", c.Breathing.ReducedMotion)
}

// Apply sets every non-nil override and revalidates
func (c *Config) Apply(o Overrides) error {
	if o.Store != nil {
		c.Store = store.Backend(*o.Store)
	}
	if o.DataDir != nil {
		c.DataDir = *o.DataDir
	}
	if o.Pattern != nil {
		c.Breathing.Pattern = *o.Pattern
	}
	if o.ReducedMotion != nil {
		c.Breathing.ReducedMotion = *o.ReducedMotion
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	return c.validate()
}

func (c *Config) validate() error {
	if !c.Store.Valid() {
		return fmt.Errorf("store must be one of file, sqlite or memory, got %q", c.Store)
	}
	if _, err := c.BreathingPattern(); err != nil {
		return err
	}
	if c.Breathing.Cycles < 1 {
		return fmt.Errorf("breathing.cycles must be positive, got %d", c.Breathing.Cycles)
	}
	if c.Breathing.CompletionDelay < 0 {
		return fmt.Errorf("breathing.completion_delay must not be negative")
	}
	if c.Timings.FrameFeedback < 0 || c.Timings.InterruptStart < 0 {
		return fmt.Errorf("timings must not be negative")
	}
	if c.Timings.Freshness <= 0 {
		return fmt.Errorf("timings.freshness must be positive, got %s", c.Timings.Freshness)
	}
	return nil
}

// BreathingPattern resolves the configured pattern name
func (c *Config) BreathingPattern() (breathing.Pattern, error) {
	if c.Breathing.Pattern == CustomPattern {
		if err := c.Breathing.Custom.Validate(); err != nil {
			return nil, fmt.Errorf("breathing.custom: %w", err)
		}
		return append(breathing.Pattern(nil), c.Breathing.Custom...), nil
	}
	p, ok := breathing.PatternByName(c.Breathing.Pattern)
	if !ok {
		return nil, fmt.Errorf("unknown breathing pattern %q", c.Breathing.Pattern)
	}
	return p, nil
}

// BreathingRun returns the runner configuration
func (c *Config) BreathingRun() (breathing.Config, error) {
	p, err := c.BreathingPattern()
	if err != nil {
		return breathing.Config{}, err
	}
	run := breathing.DefaultConfig()
	run.Pattern = p
	run.Cycles = c.Breathing.Cycles
	run.ReducedMotion = c.Breathing.ReducedMotion
	run.CompletionDelay = c.Breathing.CompletionDelay
	return run, nil
}

// ResolvedDataDir returns the data directory, defaulting to ~/.raygun
func (c *Config) ResolvedDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return globalConfigDir()
}

// LogFile returns the log file path under the data directory
func (c *Config) LogFile() (string, error) {
	dir, err := c.ResolvedDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "raygun.log"), nil
}

// Source returns the file the config was loaded from, or "" for defaults
func (c *Config) Source() string {
	return c.source
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToProject writes the config to the project-level location (.raygun/config.yaml)
func SaveToProject(cfg *Config) (string, error) {
	path := projectConfigPath()
	return path, writeFile(path, cfg)
}

// SaveToGlobal writes the config to the global location (~/.raygun/config.yaml)
func SaveToGlobal(cfg *Config) (string, error) {
	path, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	return path, writeFile(path, cfg)
}

func writeFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
