package bramble

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/director.yaml
var defaultConfigYAML []byte

// Config holds the director settings that are usually read from a file.
type Config struct {
	DesignWidth  float64          `yaml:"design_width"`
	DesignHeight float64          `yaml:"design_height"`
	Policy       ResolutionPolicy `yaml:"policy"`
	FrameWidth   int              `yaml:"frame_width"`
	FrameHeight  int              `yaml:"frame_height"`
	// AnimationInterval is the fixed tick length in seconds used by hosts
	// that do not measure real time.
	AnimationInterval float64 `yaml:"animation_interval"`
	DisplayStats      bool    `yaml:"display_stats"`
	Debug             bool    `yaml:"debug"`
	LogLevel          string  `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		DesignWidth:       960,
		DesignHeight:      480,
		Policy:            ShowAll,
		FrameWidth:        960,
		FrameHeight:       480,
		AnimationInterval: 1.0 / 60,
		LogLevel:          "info",
	}
}

// LoadConfig reads a YAML configuration. An empty path loads the embedded
// defaults. Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return ParseConfig(defaultConfigYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.DesignWidth <= 0 || c.DesignHeight <= 0 {
		return fmt.Errorf("design size %gx%g must be positive", c.DesignWidth, c.DesignHeight)
	}
	if c.FrameWidth < 0 || c.FrameHeight < 0 {
		return fmt.Errorf("frame size %dx%d must not be negative", c.FrameWidth, c.FrameHeight)
	}
	if c.AnimationInterval <= 0 {
		return fmt.Errorf("animation interval %g must be positive", c.AnimationInterval)
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// level returns the configured log level, defaulting to info.
func (c Config) level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
