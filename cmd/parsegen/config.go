package main

import "github.com/BurntSushi/toml"

// Config is the on-disk configuration for `parsegen serve`, following the
// same pattern cmd/tqserver uses for its own flag/env-var/default
// resolution, but loaded from a TOML file instead of flags alone.
type Config struct {
	Listen    string `toml:"listen"`
	CachePath string `toml:"cache_path"`
	JWTSecret string `toml:"jwt_secret"`
}

func defaultConfig() Config {
	return Config{
		Listen:    "localhost:8080",
		CachePath: ".",
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
