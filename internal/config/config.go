package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

// ServerConfig configures the HTTP/WebSocket listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the default match settings applied to new rooms.
type GameConfig struct {
	GameTimerEnabled bool          `mapstructure:"game_timer_enabled"`
	GameTimeSeconds  int           `mapstructure:"game_time_seconds"`
	TurnTimerEnabled bool          `mapstructure:"turn_timer_enabled"`
	TurnTimeSeconds  int           `mapstructure:"turn_time_seconds"`
	BotDelay         time.Duration `mapstructure:"bot_delay"`
}

// DatabaseConfig configures the optional match-result store. An empty DSN
// disables it.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Load reads configuration from the given YAML file, applying defaults and
// UNO_-prefixed environment overrides. A missing file is not an error; the
// defaults stand.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.game_timer_enabled", true)
	v.SetDefault("game.game_time_seconds", 300)
	v.SetDefault("game.turn_timer_enabled", true)
	v.SetDefault("game.turn_time_seconds", 10)
	v.SetDefault("game.bot_delay", 1500*time.Millisecond)
	v.SetDefault("database.dsn", "")

	v.SetEnvPrefix("UNO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Game.GameTimeSeconds <= 0 {
		return fmt.Errorf("game.game_time_seconds must be positive, got %d", c.Game.GameTimeSeconds)
	}
	if c.Game.TurnTimeSeconds <= 0 {
		return fmt.Errorf("game.turn_time_seconds must be positive, got %d", c.Game.TurnTimeSeconds)
	}
	if c.Game.BotDelay <= 0 {
		return fmt.Errorf("game.bot_delay must be positive, got %s", c.Game.BotDelay)
	}
	if c.Game.TurnTimerEnabled && c.Game.BotDelay >= time.Duration(c.Game.TurnTimeSeconds)*time.Second {
		return fmt.Errorf("game.bot_delay %s must be shorter than the turn timer %ds",
			c.Game.BotDelay, c.Game.TurnTimeSeconds)
	}
	return nil
}
