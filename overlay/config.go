package overlay

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the keeper configuration. Zero values are filled with
// defaults matching the hosted chat UI contract.
type Config struct {
	// SharePrefix marks read-only shared views. The keeper is entirely
	// inert on paths starting with it.
	SharePrefix string `yaml:"share_prefix"`

	// HeaderSelector locates the host header region the return control
	// is attached into when present.
	HeaderSelector string `yaml:"header_selector"`

	// ComposerSelector locates the host message-composition input that
	// receives focus after a dismissal.
	ComposerSelector string `yaml:"composer_selector"`

	// ReadmeTerms and ThemeTerms are the denylists matched against
	// interactive-element signatures. Matching is lowercase substring.
	ReadmeTerms []string `yaml:"readme_terms"`
	ThemeTerms  []string `yaml:"theme_terms"`

	// FadeDuration is the overlay fade transition; the detach after a
	// dismissal waits exactly this long.
	FadeDuration time.Duration `yaml:"fade_duration"`

	// FocusDelay is the wait before focusing the enter button after
	// presentation.
	FocusDelay time.Duration `yaml:"focus_delay"`

	// FrameDelay approximates one render opportunity: the just-attached
	// overlay flips from invisible to visible after it, so the entry
	// transition has a starting state to animate from.
	FrameDelay time.Duration `yaml:"frame_delay"`

	// Debounce controls host-mutation batching.
	Debounce DebounceConfig `yaml:"debounce"`

	// SessionDB is the path of the session SQLite database.
	SessionDB string `yaml:"session_db"`

	// Listen is the debug HTTP listen address.
	Listen string `yaml:"listen"`
}

// DebounceConfig controls mutation batching.
type DebounceConfig struct {
	Window    time.Duration `yaml:"window"`
	MaxBuffer int           `yaml:"max_buffer"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("overlay: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("overlay: parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SharePrefix == "" {
		c.SharePrefix = "/share"
	}
	if c.HeaderSelector == "" {
		c.HeaderSelector = "#header"
	}
	if c.ComposerSelector == "" {
		c.ComposerSelector = "#message-composer"
	}
	if len(c.ReadmeTerms) == 0 {
		c.ReadmeTerms = []string{"readme"}
	}
	if len(c.ThemeTerms) == 0 {
		c.ThemeTerms = []string{"theme", "dark mode", "light mode"}
	}
	if c.FadeDuration <= 0 {
		c.FadeDuration = 300 * time.Millisecond
	}
	if c.FocusDelay <= 0 {
		c.FocusDelay = 50 * time.Millisecond
	}
	if c.FrameDelay <= 0 {
		c.FrameDelay = 16 * time.Millisecond
	}
	if c.Debounce.Window <= 0 {
		c.Debounce.Window = 250 * time.Millisecond
	}
	if c.Debounce.MaxBuffer <= 0 {
		c.Debounce.MaxBuffer = 1000
	}
	if c.SessionDB == "" {
		c.SessionDB = "db/introveil.db"
	}
	if c.Listen == "" {
		c.Listen = ":8087"
	}
}
