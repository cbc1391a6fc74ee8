// Package config loads service configuration from an optional YAML file with
// POS_-prefixed environment variables layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "POS_"

type Config struct {
	k *koanf.Koanf
}

// Load reads the YAML file at path (skipped when empty or missing) and then
// overlays environment variables. POS_DB_MONGO_URL becomes db.mongo.url.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("cannot load config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot load environment config: %w", err)
	}

	return &Config{k: k}, nil
}

func (c *Config) GetString(key string) (string, bool) {
	if !c.k.Exists(key) {
		return "", false
	}
	return c.k.String(key), true
}

func (c *Config) GetStringOrDef(key, def string) string {
	if v, ok := c.GetString(key); ok && v != "" {
		return v
	}
	return def
}

func (c *Config) GetIntOrDef(key string, def int) int {
	if !c.k.Exists(key) {
		return def
	}
	return c.k.Int(key)
}

func (c *Config) GetBoolOrDef(key string, def bool) bool {
	if !c.k.Exists(key) {
		return def
	}
	return c.k.Bool(key)
}
