package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/runningwild/grapher/pkg/analyze"
	"gopkg.in/yaml.v3"
)

// Config describes a plotting session: the view, the functions on it and the
// detector tuning.
type Config struct {
	Window    analyze.Window   `yaml:"window"`
	Functions []Function       `yaml:"functions" validate:"dive"`
	Detector  analyze.Detector `yaml:"detector"`
}

// Function is one plotted expression.
type Function struct {
	Expression string `yaml:"expression" validate:"required"`
	Color      string `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Hidden     bool   `yaml:"hidden,omitempty"`
}

var validate = validator.New()

// Default returns the initial session: the ±10 view with 1/x plotted.
func Default() *Config {
	return &Config{
		Window:    analyze.DefaultWindow(),
		Functions: []Function{{Expression: "1/x", Color: "#00adb5"}},
		Detector:  *analyze.DefaultDetector(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, fills in defaults for anything left unset and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Window == (analyze.Window{}) {
		c.Window = analyze.DefaultWindow()
	}

	def := analyze.DefaultDetector()
	d := &c.Detector
	if d.Samples == 0 {
		d.Samples = def.Samples
	}
	if d.JumpFactor == 0 {
		d.JumpFactor = def.JumpFactor
	}
	if d.HoleFactor == 0 {
		d.HoleFactor = def.HoleFactor
	}
	if d.HoleLimitFactor == 0 {
		d.HoleLimitFactor = def.HoleLimitFactor
	}
	if d.BlowupFactor == 0 {
		d.BlowupFactor = def.BlowupFactor
	}
	if d.FarOffset == 0 {
		d.FarOffset = def.FarOffset
	}
	if d.FarLimit == 0 {
		d.FarLimit = def.FarLimit
	}
	if d.FarSeparation == 0 {
		d.FarSeparation = def.FarSeparation
	}
	if d.VerticalDedup == 0 {
		d.VerticalDedup = def.VerticalDedup
	}
	if d.HorizontalDedup == 0 {
		d.HorizontalDedup = def.HorizontalDedup
	}
}

// Validate checks field constraints and the window bounds.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
