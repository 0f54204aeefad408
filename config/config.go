package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvPath overrides the config path passed on the command line.
const EnvPath = "ALPHA_CONFIG"

type Config struct {
	Window   WindowConfig   `toml:"window"`
	Logging  LoggingConfig  `toml:"logging"`
	ECS      ECSConfig      `toml:"ecs"`
	Physics  PhysicsConfig  `toml:"physics"`
	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`
	Scene    SceneConfig    `toml:"scene"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ECSConfig struct {
	InitialCapacity int `toml:"initial_capacity"`
}

type PhysicsConfig struct {
	FixedTimestep float64 `toml:"fixed_timestep"`
	MaxFrameTime  float64 `toml:"max_frame_time"`
	Gravity       float64 `toml:"gravity"`
	Iterations    int     `toml:"iterations"`
}

type RendererConfig struct {
	MaxInstancesPerBatch int    `toml:"max_instances_per_batch"`
	ClearColor           string `toml:"clear_color"` // a colornames name
}

type AssetsConfig struct {
	Root      string `toml:"root"` // empty uses the embedded assets
	HotReload bool   `toml:"hot_reload"`
}

type SceneConfig struct {
	Name string `toml:"name"`
	// StressChurnSeconds destroys and respawns the scene's stress entities
	// on this period. Zero disables it.
	StressChurnSeconds float64 `toml:"stress_churn_seconds"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults. The
// ALPHA_CONFIG environment variable, when set, replaces path.
func LoadOrDefault(path string) (*Config, error) {
	if env := os.Getenv(EnvPath); env != "" {
		path = env
	}
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Physics.FixedTimestep <= 0:
		return fmt.Errorf("physics.fixed_timestep %v must be positive", c.Physics.FixedTimestep)
	case c.Physics.MaxFrameTime < c.Physics.FixedTimestep:
		return fmt.Errorf("physics.max_frame_time %v is below the fixed timestep", c.Physics.MaxFrameTime)
	case c.Renderer.MaxInstancesPerBatch <= 0:
		return fmt.Errorf("renderer.max_instances_per_batch %d must be positive", c.Renderer.MaxInstancesPerBatch)
	case c.ECS.InitialCapacity < 0:
		return fmt.Errorf("ecs.initial_capacity %d is negative", c.ECS.InitialCapacity)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "alphaengine",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		ECS: ECSConfig{
			InitialCapacity: 1024,
		},
		Physics: PhysicsConfig{
			FixedTimestep: 1.0 / 60.0,
			MaxFrameTime:  0.25,
			Gravity:       -9.81,
			Iterations:    10,
		},
		Renderer: RendererConfig{
			MaxInstancesPerBatch: 10000,
			ClearColor:           "darkslategray",
		},
		Assets: AssetsConfig{
			HotReload: false,
		},
		Scene: SceneConfig{
			Name:               "default",
			StressChurnSeconds: 0,
		},
	}
}
