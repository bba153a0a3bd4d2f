// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

const envPrefix = "MOVEGEN_"

type Config struct {
	Addr           string
	AllowedOrigins string
	LogLevel       log.Level
	Store          StoreConfig
}

type StoreConfig struct {
	// Driver is "badger", "sqlite" or "memory".
	Driver string
	// Path is the badger directory or the sqlite file.
	Path string
}

func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowedOrigins: "http://localhost:5173",
		LogLevel:       log.LevelInfo,
		Store: StoreConfig{
			Driver: "badger",
			Path:   "./data/games",
		},
	}
}

// Load overlays MOVEGEN_* environment variables on the defaults.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup(envPrefix + "ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup(envPrefix + "ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if v, ok := lookup(envPrefix + "STORE_DRIVER"); ok && v != "" {
		switch v = strings.ToLower(v); v {
		case "badger", "sqlite", "memory":
			cfg.Store.Driver = v
		default:
			return Config{}, fmt.Errorf("%sSTORE_DRIVER: unknown driver %q", envPrefix, v)
		}
	}
	if v, ok := lookup(envPrefix + "STORE_PATH"); ok && v != "" {
		cfg.Store.Path = v
	}
	return cfg, nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("%sLOG_LEVEL: unknown level %q", envPrefix, s)
}
