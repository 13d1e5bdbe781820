package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"LocalPaint/internal/state"
)

// CanvasConfig holds the initial surface.
type CanvasConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

// BrushConfig holds tool defaults and the slider range.
type BrushConfig struct {
	Color      string  `yaml:"color"`
	Size       float64 `yaml:"size"`
	EraserSize float64 `yaml:"eraser_size"`
	MinSize    float64 `yaml:"min_size"`
	MaxSize    float64 `yaml:"max_size"`
}

// StatusConfig controls how long a status message stays before the brush comes back.
type StatusConfig struct {
	RevertAfter string `yaml:"revert_after"`
}

// StorageConfig selects the persistence channel.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "prefs", "sqlite", "file" or "memory"
	Key    string `yaml:"key"`
	Path   string `yaml:"path"`
}

type ExportConfig struct {
	JPEGFilename string `yaml:"jpeg_filename"`
	PDFFilename  string `yaml:"pdf_filename"`
}

// ServerConfig holds the browser front-end settings.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address"`
	Advertise     bool   `yaml:"advertise"`
	Instance      string `yaml:"instance"` // mDNS instance name, hostname when empty
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug" or "info"
	Output string `yaml:"output"` // "stderr", "stdout", "file", "none"
	File   string `yaml:"file"`
}

// Config is the top-level configuration struct.
type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"`
	Brush   BrushConfig   `yaml:"brush"`
	Status  StatusConfig  `yaml:"status"`
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:      1024,
			Height:     718,
			Background: state.DefaultBackground,
		},
		Brush: BrushConfig{
			Color:      state.DefaultBrushColor,
			Size:       state.DefaultBrushSize,
			EraserSize: state.DefaultEraserSize,
			MinSize:    1,
			MaxSize:    50,
		},
		Status: StatusConfig{
			RevertAfter: "1500ms",
		},
		Storage: StorageConfig{
			Driver: "prefs",
			Key:    "savedCanvas",
			Path:   "./data/localpaint.db",
		},
		Export: ExportConfig{
			JPEGFilename: "paint-example.jpeg",
			PDFFilename:  "paint-example.pdf",
		},
		Server: ServerConfig{
			ListenAddress: ":8888",
			Advertise:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			File:   "localpaint.log",
		},
	}
}

// Defaults converts the brush and canvas settings into session defaults.
func (c *Config) Defaults() state.Defaults {
	return state.Defaults{
		BrushColor: c.Brush.Color,
		Background: c.Canvas.Background,
		BrushSize:  c.Brush.Size,
		EraserSize: c.Brush.EraserSize,
	}
}

// RevertAfter is the status reversion delay.
func (c *Config) RevertAfter() time.Duration {
	return ParseDuration(c.Status.RevertAfter, 1500*time.Millisecond)
}

// ParseDuration parses a duration string. Returns the default duration if the string is empty or invalid.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" || durationStr == "0" {
		return defaultDuration
	}
	d, err := time.ParseDuration(durationStr)
	if err != nil || d <= 0 {
		log.Printf("[CONFIG] invalid duration %q, using %s", durationStr, defaultDuration)
		return defaultDuration
	}
	return d
}

// Load reads configuration from an io.Reader, on top of the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	if r == nil {
		return cfg, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config data: %w", err)
	}
	if len(data) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Brush.MinSize <= 0 || c.Brush.MaxSize < c.Brush.MinSize {
		return fmt.Errorf("brush size range [%g, %g] is invalid", c.Brush.MinSize, c.Brush.MaxSize)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	return nil
}

// LoadConfig reads configuration from a YAML file by path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return Load(nil)
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Load(nil)
		}
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	return Load(file)
}
