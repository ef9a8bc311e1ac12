package config

import (
	"errors"
	"fmt"
	"os"
	"tictactoe/game"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Human       game.Marker `yaml:"human"`
	AIFirst     bool        `yaml:"ai_first"`
	Goroutines  int         `yaml:"goroutines"`
	LogLevel    string      `yaml:"log_level"`
	Addr        string      `yaml:"addr"`
	DBPath      string      `yaml:"db_path"`
	Experiments Experiments `yaml:"experiments"`
}

type Experiments struct {
	Games int    `yaml:"games"`
	Dir   string `yaml:"dir"` // Records are not written when empty
}

// Default mirrors the original game: the human plays O, the AI plays X and the human opens.
func Default() Config {
	return Config{
		Human:      game.PlayerO,
		Goroutines: 1,
		LogLevel:   "info",
		Addr:       ":8080",
		DBPath:     "games.db",
		Experiments: Experiments{
			Games: 10,
			Dir:   "experiments",
		},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) AI() game.Marker {
	return c.Human.Opponent()
}

func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return level, nil
}

func (c Config) Validate() error {
	if !c.Human.IsPlayer() {
		return fmt.Errorf("%w: human must be X or O", ErrInvalidConfig)
	}
	if c.Goroutines < 1 {
		return fmt.Errorf("%w: goroutines must be at least 1, got %d", ErrInvalidConfig, c.Goroutines)
	}
	if c.Experiments.Games < 0 {
		return fmt.Errorf("%w: experiments.games must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}
