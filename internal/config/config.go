// package config loads service configuration from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr       string `mapstructure:"http_addr"`
	DBPath         string `mapstructure:"db_path"`
	AssetDir       string `mapstructure:"asset_dir"`
	SeedPath       string `mapstructure:"seed_path"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	LogLevel       string `mapstructure:"log_level"`
	AuthRatePerMin int    `mapstructure:"auth_rate_per_min"`
}

// Load reads configuration with precedence: env vars (BOOKSHELF_*) over an
// optional bookshelf.yaml over defaults. A missing config file is not an
// error.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_path", "./data/bookshelf.db")
	v.SetDefault("asset_dir", "./data/assets")
	v.SetDefault("seed_path", "./data/books.json")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("auth_rate_per_min", 30)

	v.SetConfigName("bookshelf")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOOKSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
