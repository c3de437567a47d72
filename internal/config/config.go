package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode             string        `mapstructure:"mode"`
	Port             int           `mapstructure:"port"`
	StaticPath       string        `mapstructure:"static_path"`
	UploadPath       string        `mapstructure:"upload_path"`
	DatabasePath     string        `mapstructure:"database_path"`
	Secret           string        `mapstructure:"secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	PresenceInterval time.Duration `mapstructure:"presence_interval"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("upload_path", "./uploads")
	v.SetDefault("database_path", "./kirtanupdate.db")
	v.SetDefault("secret", "change-me-in-production")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("presence_interval", "10s")
	v.SetDefault("cleanup_interval", "10m")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("db", cfg.DatabasePath).Msg("configuration")
	return &cfg, nil
}
