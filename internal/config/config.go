// Package config loads hexwalk settings from a YAML file with environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexwalk/internal/world"
)

// Config holds all hexwalk configuration
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Scene      SceneConfig      `yaml:"scene"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// GenerationConfig holds the terrain walk parameters
type GenerationConfig struct {
	Iterations *int    `yaml:"iterations"` // nil = default; 0 is a valid origin-only map
	StayProb   float64 `yaml:"stay_prob"`
	StepSize   float64 `yaml:"step_size"`
	Seed       int64   `yaml:"seed"` // 0 = draw a fresh seed
	ColorMode  string  `yaml:"color_mode"`
	PixelSize  float64 `yaml:"pixel_size"`
}

// SceneConfig holds renderer-facing extras
type SceneConfig struct {
	Lights [][3]float64 `yaml:"lights"` // directional light vectors
}

// StorageConfig holds the run archive settings
type StorageConfig struct {
	Path string `yaml:"path"` // empty = archiving disabled
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port          int `yaml:"port"` // 0 = API disabled
	MaxIterations int `yaml:"max_iterations"`
	RateLimit     int `yaml:"rate_limit"` // requests per minute per IP
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if _, err := cfg.GenConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := world.DefaultGenConfig()
	if c.Generation.Iterations == nil {
		n := def.Iterations
		c.Generation.Iterations = &n
	}
	if c.Generation.StayProb == 0 {
		c.Generation.StayProb = def.StayProb
	}
	if c.Generation.StepSize == 0 {
		c.Generation.StepSize = def.StepSize
	}
	if c.Generation.ColorMode == "" {
		c.Generation.ColorMode = def.ColorMode.String()
	}
	if c.Generation.PixelSize == 0 {
		c.Generation.PixelSize = def.PixelSize
	}
	if c.Server.MaxIterations == 0 {
		c.Server.MaxIterations = 64
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// applyEnv overrides file values with HEXWALK_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("HEXWALK_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HEXWALK_SEED: %w", err)
		}
		c.Generation.Seed = seed
	}
	if v := os.Getenv("HEXWALK_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEXWALK_ITERATIONS: %w", err)
		}
		c.Generation.Iterations = &n
	}
	if v := os.Getenv("HEXWALK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEXWALK_PORT: %w", err)
		}
		c.Server.Port = port
	}
	c.Storage.Path = envOrDefault("HEXWALK_DB", c.Storage.Path)
	c.Log.Level = envOrDefault("HEXWALK_LOG_LEVEL", c.Log.Level)
	return nil
}

// GenConfig converts the generation section into walk parameters and validates them.
func (c *Config) GenConfig() (world.GenConfig, error) {
	mode, err := world.ParseColorMode(c.Generation.ColorMode)
	if err != nil {
		return world.GenConfig{}, err
	}
	gc := world.GenConfig{
		Iterations: *c.Generation.Iterations,
		StayProb:   c.Generation.StayProb,
		StepSize:   c.Generation.StepSize,
		Seed:       c.Generation.Seed,
		ColorMode:  mode,
		PixelSize:  c.Generation.PixelSize,
	}
	if err := gc.Validate(); err != nil {
		return world.GenConfig{}, err
	}
	return gc, nil
}

// Lights returns the configured directional lights.
func (c *Config) Lights() []world.DirectionalLight {
	lights := make([]world.DirectionalLight, 0, len(c.Scene.Lights))
	for _, d := range c.Scene.Lights {
		lights = append(lights, world.DirectionalLight{Direction: d})
	}
	return lights
}

// LogLevel maps the configured level name to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
