package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig is the TOML configuration read by --config.
type fileConfig struct {
	Engine   string `toml:"engine"`
	LogLevel string `toml:"log_level"`
	Zeroize  bool   `toml:"zeroize"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Engine:   "software",
		LogLevel: "warn",
		Zeroize:  true,
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fileConfig{}, fmt.Errorf("config %s: invalid log_level %q", path, cfg.LogLevel)
	}
	return cfg, nil
}
