// Package config reads the application configuration via Viper from
// environment variables and, optionally, a .env/config.env file.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application configuration.
type Config struct {
	App AppConfig
	DB  DBConfig
	Log LogConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env  string // development, production
	Name string
}

// DBConfig settings for the local SQLite file.
type DBConfig struct {
	Path string // path to the database file
}

// LogConfig logging settings.
type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// Load reads configuration from env vars (APP_ENV, DB_PATH, LOG_LEVEL, …)
// with an optional .env or config.env file underneath. Env vars win.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "almacen"),
		},
		DB: DBConfig{
			Path: getString(v, "DB_PATH", "inventario.db"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}
