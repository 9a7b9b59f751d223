package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI looks for its configuration file.
const DefaultPath = "carvebench.yaml"

// Config holds all carvebench configuration.
type Config struct {
	Images  ImagesConfig  `yaml:"images"`
	Bench   BenchConfig   `yaml:"bench"`
	Peak    PeakConfig    `yaml:"peak"`
	Logging LoggingConfig `yaml:"logging"`
}

// ImagesConfig selects the test images.
type ImagesConfig struct {
	Dir           string `yaml:"dir"`
	Extension     string `yaml:"extension"`
	ExcludePrefix string `yaml:"exclude_prefix"`
}

// Binary is one carver executable under test.
type Binary struct {
	// Name is the testname column; the base name of Path when empty.
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
}

// BenchConfig configures the harness invocations.
type BenchConfig struct {
	Binaries   []Binary `yaml:"binaries"`
	Trials     int      `yaml:"trials"`
	OutputPath string   `yaml:"output_path"`
	// Divisions controls the seam step: max(width/Divisions, 1).
	Divisions  int    `yaml:"divisions"`
	Stage      bool   `yaml:"stage"`
	ScratchDir string `yaml:"scratch_dir"`
}

// Resolution is a reference image size for the peak model.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PeakConfig configures the theoretical peak model.
type PeakConfig struct {
	Variant     string       `yaml:"variant"` // constant, scaled
	Resolutions []Resolution `yaml:"resolutions"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // json, console
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Images: ImagesConfig{
			Dir:           ".",
			Extension:     ".jpg",
			ExcludePrefix: "new",
		},
		Bench: BenchConfig{
			Binaries: []Binary{
				{Path: "../bin/base"},
				{Path: "../bin/car"},
			},
			Trials:     16,
			OutputPath: "/dev/null",
			Divisions:  32,
			ScratchDir: "_tmp",
		},
		Peak: PeakConfig{
			Variant: "constant",
			Resolutions: []Resolution{
				{Width: 640, Height: 480},
				{Width: 1280, Height: 720},
				{Width: 1920, Height: 1080},
				{Width: 2560, Height: 1440},
				{Width: 3840, Height: 2160},
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CARVEBENCH_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Bench.Trials = n
		}
	}
	if v := os.Getenv("CARVEBENCH_BINARIES"); v != "" {
		var bins []Binary
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				bins = append(bins, Binary{Path: p})
			}
		}
		if len(bins) > 0 {
			c.Bench.Binaries = bins
		}
	}
	if v := os.Getenv("CARVEBENCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if len(c.Bench.Binaries) == 0 {
		return errors.New("bench: no binaries configured")
	}
	for i, b := range c.Bench.Binaries {
		if b.Path == "" {
			return fmt.Errorf("bench: binary %d has no path", i)
		}
	}
	if c.Bench.Trials < 1 {
		return fmt.Errorf("bench: trials must be positive, got %d", c.Bench.Trials)
	}
	if c.Bench.Divisions < 1 {
		return fmt.Errorf("bench: divisions must be positive, got %d", c.Bench.Divisions)
	}
	if c.Images.Extension == "" {
		return errors.New("images: extension must not be empty")
	}
	switch c.Peak.Variant {
	case "constant", "scaled":
	default:
		return fmt.Errorf("peak: unknown variant %q", c.Peak.Variant)
	}
	for _, r := range c.Peak.Resolutions {
		if r.Width <= 0 || r.Height <= 0 {
			return fmt.Errorf("peak: invalid resolution %dx%d", r.Width, r.Height)
		}
	}
	return nil
}

// DisplayName is the testname column for the binary.
func (b Binary) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return filepath.Base(b.Path)
}
