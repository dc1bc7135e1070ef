package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "erdraw.yaml"

type Config struct {
	Canvas struct {
		Width          int       `yaml:"width"`
		Height         int       `yaml:"height"`
		FontSize       float64   `yaml:"font_size"`
		ShowAddButtons bool      `yaml:"show_add_buttons"`
		PageOffset     []float64 `yaml:"page_offset"` // [x, y]
	} `yaml:"canvas"`
	Window struct {
		Title   string `yaml:"title"`
		ShowFPS bool   `yaml:"show_fps"`
	} `yaml:"window"`
	Debug         bool   `yaml:"debug"`
	LogLevel      string `yaml:"log_level"`   // debug, info, warn, error
	Development   bool   `yaml:"development"` // console encoder instead of JSON
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Canvas.Width = 800
	cfg.Canvas.Height = 600
	cfg.Canvas.FontSize = 12
	cfg.Canvas.ShowAddButtons = true
	cfg.Canvas.PageOffset = []float64{16, 52}
	cfg.Window.Title = "erdraw"
	cfg.LogLevel = "info"
	cfg.ScreenshotDir = "screenshots"
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if len(cfg.Canvas.PageOffset) != 2 {
		return nil, fmt.Errorf("config: canvas.page_offset must have 2 values, got %d", len(cfg.Canvas.PageOffset))
	}
	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		return nil, fmt.Errorf("config: invalid canvas size %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := os.Getenv("ERDRAW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ERDRAW_SCREENSHOT_DIR"); v != "" {
		cfg.ScreenshotDir = v
	}
	if v := os.Getenv("ERDRAW_TITLE"); v != "" {
		cfg.Window.Title = v
	}
	ints := map[string]*int{
		"ERDRAW_WIDTH":  &cfg.Canvas.Width,
		"ERDRAW_HEIGHT": &cfg.Canvas.Height,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("ERDRAW_FONT_SIZE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: ERDRAW_FONT_SIZE: %w", err)
		}
		cfg.Canvas.FontSize = f
	}
	bools := map[string]*bool{
		"ERDRAW_DEBUG":            &cfg.Debug,
		"ERDRAW_DEVELOPMENT":      &cfg.Development,
		"ERDRAW_SHOW_FPS":         &cfg.Window.ShowFPS,
		"ERDRAW_SHOW_ADD_BUTTONS": &cfg.Canvas.ShowAddButtons,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = b
		}
	}
	return nil
}

// Logger builds a zap logger for the configured level and encoder.
func (cfg *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Debug && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
