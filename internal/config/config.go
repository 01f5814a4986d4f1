package config

import (
	"os"
	"time"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// Host names accepted in input.sources
const (
	SourceEbiten = "ebiten"
	SourceBridge = "bridge"
	SourceEvdev  = "evdev"
)

// Config holds all application configuration values
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Input   InputConfig   `yaml:"input"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Evdev   EvdevConfig   `yaml:"evdev"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	ShowHUD      bool   `yaml:"show_hud"`
}

// InputConfig selects the key sources and the bindings the demo polls.
// Key names are passed through untouched, so each source needs bindings in
// its own naming ("A" for ebiten, "a" for a browser, "30" for evdev).
type InputConfig struct {
	Sources   []string              `yaml:"sources"`
	QueueSize int                   `yaml:"queue_size"`
	MoveSpeed float64               `yaml:"move_speed"`
	Axes      map[string][]AxisKeys `yaml:"axes"`
	Actions   map[string][]string   `yaml:"actions"`
}

// AxisKeys is one negative/positive key pair for InputAxis
type AxisKeys struct {
	Negative string `yaml:"negative"`
	Positive string `yaml:"positive"`
}

type BridgeConfig struct {
	Listen     string        `yaml:"listen"`
	ReadLimit  int64         `yaml:"read_limit"`
	PongWait   time.Duration `yaml:"pong_wait"`
	PingPeriod time.Duration `yaml:"ping_period"`
}

type EvdevConfig struct {
	Device string `yaml:"device"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  640,
			ScreenHeight: 480,
			WindowTitle:  "framekeys",
			Resizable:    true,
			ShowHUD:      true,
		},
		Input: InputConfig{
			Sources:   []string{SourceEbiten},
			QueueSize: 256,
			MoveSpeed: 3,
			Axes: map[string][]AxisKeys{
				"horizontal": {
					{Negative: "A", Positive: "D"},
					{Negative: "ArrowLeft", Positive: "ArrowRight"},
					{Negative: "a", Positive: "d"},
				},
				"vertical": {
					{Negative: "W", Positive: "S"},
					{Negative: "ArrowUp", Positive: "ArrowDown"},
					{Negative: "w", Positive: "s"},
				},
			},
			Actions: map[string][]string{
				"jump": {"Space", " "},
				"quit": {"Escape"},
			},
		},
		Bridge: BridgeConfig{
			Listen:     "127.0.0.1:8089",
			ReadLimit:  4096,
			PongWait:   60 * time.Second,
			PingPeriod: 50 * time.Second,
		},
		Evdev: EvdevConfig{
			Device: "/dev/input/event0",
		},
	}
}

// LoadConfig loads the configuration from a YAML file on top of Default.
// A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Annotatef(err, "read config %s", filename)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Annotatef(err, "parse config %s", filename)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Annotatef(err, "config %s", filename)
	}

	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate checks values that would otherwise fail late inside the loop
func (c *Config) Validate() error {
	if c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0 {
		return errors.NotValidf("screen size %dx%d", c.Display.ScreenWidth, c.Display.ScreenHeight)
	}
	if len(c.Input.Sources) == 0 {
		return errors.NotValidf("empty input.sources")
	}
	for _, s := range c.Input.Sources {
		switch s {
		case SourceEbiten, SourceBridge, SourceEvdev:
		default:
			return errors.NotValidf("input source %q", s)
		}
	}
	if c.Input.QueueSize < 1 {
		return errors.NotValidf("input.queue_size %d", c.Input.QueueSize)
	}
	for name, pairs := range c.Input.Axes {
		for i, p := range pairs {
			if p.Negative == "" || p.Positive == "" {
				return errors.NotValidf("axis %s[%d] with empty key", name, i)
			}
		}
	}
	for name, keys := range c.Input.Actions {
		for i, k := range keys {
			if k == "" {
				return errors.NotValidf("action %s[%d] with empty key", name, i)
			}
		}
	}
	if c.HasSource(SourceBridge) {
		if c.Bridge.Listen == "" {
			return errors.NotValidf("empty bridge.listen")
		}
		if c.Bridge.PingPeriod <= 0 || c.Bridge.PingPeriod >= c.Bridge.PongWait {
			return errors.NotValidf("bridge.ping_period %v must be positive and below pong_wait %v", c.Bridge.PingPeriod, c.Bridge.PongWait)
		}
	}
	if c.HasSource(SourceEvdev) && c.Evdev.Device == "" {
		return errors.NotValidf("empty evdev.device")
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Input.MoveSpeed
}

// HasSource reports whether the named host is enabled
func (c *Config) HasSource(name string) bool {
	for _, s := range c.Input.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// GetAxis returns the key pairs bound to an axis (nil if unbound)
func (c *Config) GetAxis(name string) []AxisKeys {
	return c.Input.Axes[name]
}

// GetAction returns the keys bound to an action (nil if unbound)
func (c *Config) GetAction(name string) []string {
	return c.Input.Actions[name]
}
