package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vampires/game"
	"vampires/searcher"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "VAMPIRES"

const (
	ModeSelfPlay = "selfplay"
	ModeSession  = "session"
)

type Config struct {
	// Search
	Depth           int           `mapstructure:"depth" yaml:"depth"`
	Duration        time.Duration `mapstructure:"duration" yaml:"duration"`
	Threads         int           `mapstructure:"threads" yaml:"threads"`
	Discount        float64       `mapstructure:"discount" yaml:"discount"`
	Truncation      float64       `mapstructure:"truncation" yaml:"truncation"`
	PruneDirections bool          `mapstructure:"prune_directions" yaml:"prune_directions"`
	SplitThreshold  int           `mapstructure:"split_threshold" yaml:"split_threshold"`

	// Heuristic
	UnitWeight  float64 `mapstructure:"unit_weight" yaml:"unit_weight"`
	HumanWeight float64 `mapstructure:"human_weight" yaml:"human_weight"`
	Scale       float64 `mapstructure:"scale" yaml:"scale"`

	// Experiments
	Games     int    `mapstructure:"games" yaml:"games"`
	MaxTurns  int    `mapstructure:"max_turns" yaml:"max_turns"`
	Seed      uint64 `mapstructure:"seed" yaml:"seed"`
	Width     int    `mapstructure:"width" yaml:"width"`
	Height    int    `mapstructure:"height" yaml:"height"`
	Homes     int    `mapstructure:"homes" yaml:"homes"`
	Units     int    `mapstructure:"units" yaml:"units"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Mode selects between "selfplay" games run by the local engine and a
	// "session" played by two players through the server protocol.
	Mode     string `mapstructure:"mode" yaml:"mode"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("depth", searcher.MaxDepth)
	v.SetDefault("duration", 2*time.Second)
	v.SetDefault("threads", 1)
	v.SetDefault("discount", searcher.Discount)
	v.SetDefault("truncation", 0.0)
	v.SetDefault("prune_directions", false)
	v.SetDefault("split_threshold", game.DefaultGenerator.SplitThreshold)
	v.SetDefault("unit_weight", game.DefaultWeights.Units)
	v.SetDefault("human_weight", game.DefaultWeights.Humans)
	v.SetDefault("scale", game.DefaultWeights.Scale)
	v.SetDefault("games", 10)
	v.SetDefault("max_turns", 200)
	v.SetDefault("seed", 1)
	v.SetDefault("width", 10)
	v.SetDefault("height", 8)
	v.SetDefault("homes", 6)
	v.SetDefault("units", 8)
	v.SetDefault("output_dir", "experiments")
	v.SetDefault("mode", ModeSelfPlay)
	v.SetDefault("log_level", "info")
}

// Load reads defaults, then the optional YAML file at path, then VAMPIRES_*
// environment variables, each overriding the last.
func (c *Config) Load(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Depth <= 0 {
		errs = append(errs, fmt.Errorf("depth must be positive, got %d", c.Depth))
	}
	if c.Threads <= 0 {
		errs = append(errs, fmt.Errorf("threads must be positive, got %d", c.Threads))
	}
	if c.Discount <= 0 || c.Discount > 1 {
		errs = append(errs, fmt.Errorf("discount must lie in (0, 1], got %v", c.Discount))
	}
	if c.Truncation < 0 || c.Truncation >= 1 {
		errs = append(errs, fmt.Errorf("truncation must lie in [0, 1), got %v", c.Truncation))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %v", c.Scale))
	}
	if c.Mode != ModeSelfPlay && c.Mode != ModeSession {
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) Weights() game.Weights {
	return game.Weights{Units: c.UnitWeight, Humans: c.HumanWeight, Scale: c.Scale}
}

// SearchOptions translates the search settings into searcher options.
func (c *Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithDepth(c.Depth),
		searcher.WithDuration(c.Duration),
		searcher.WithDiscount(c.Discount),
		searcher.WithGenerator(game.Generator{SplitThreshold: c.SplitThreshold, PruneDirections: c.PruneDirections}),
		searcher.WithEvaluationFn(c.Weights().Evaluate),
		searcher.WithMetrics(),
	}
	if c.Truncation > 0 {
		options = append(options, searcher.WithTruncation(c.Truncation))
	}
	return options
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
