// Package config loads internal/server's settings via spf13/viper, reading
// SKILLET_-prefixed environment variables and an optional skillet.yaml /
// skillet.toml file, the same viper-driven pattern this corpus's other
// server-shaped repos use for their own CLIs.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings internal/server and cmd/skillet need to boot.
type Config struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	CacheCapacity   int           `mapstructure:"cache_capacity"`
	PluginDir       string        `mapstructure:"plugin_dir"`
	AdminToken      string        `mapstructure:"admin_token"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

// Defaults returns the Config populated with baseline values, before any
// file or environment overrides are applied.
func Defaults() Config {
	return Config{
		ListenAddr:     ":8080",
		CacheCapacity:  1024,
		PluginDir:      "testdata/plugins",
		RequestTimeout: 5 * time.Second,
	}
}

// Load reads config from configPath (if non-empty) and SKILLET_-prefixed
// environment variables, layered over Defaults().
func Load(configPath string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetEnvPrefix("SKILLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("cache_capacity", cfg.CacheCapacity)
	v.SetDefault("plugin_dir", cfg.PluginDir)
	v.SetDefault("admin_token", cfg.AdminToken)
	v.SetDefault("request_timeout", cfg.RequestTimeout)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("skillet")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
