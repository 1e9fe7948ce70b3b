// Package config loads the handful of defaults the CLI surface (spec
// §6.5) can override: viewport size and log level. Layering follows
// koanf's usual precedence chain (teacher's pack: Yacobolo-cssgen) —
// defaults, then an optional config file, then environment variables,
// then command-line flags win last.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the small set of tunables every cmd/ binary reads.
type Config struct {
	ViewportWidth  int    `koanf:"viewport.width"`
	ViewportHeight int    `koanf:"viewport.height"`
	LogLevel       string `koanf:"log.level"`
}

// Default returns the built-in baseline before any file/env/flag overrides.
func Default() Config {
	return Config{ViewportWidth: 800, ViewportHeight: 600, LogLevel: "info"}
}

// Load layers an optional YAML file (path may be empty to skip it),
// WREN_-prefixed environment variables, and finally flags bound to fs.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")
	base := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"viewport.width":  base.ViewportWidth,
		"viewport.height": base.ViewportHeight,
		"log.level":       base.LogLevel,
	}, "."), nil); err != nil {
		return base, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return base, err
		}
	}
	if err := k.Load(env.Provider("WREN_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "WREN_")), "_", ".")
	}), nil); err != nil {
		return base, err
	}
	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return base, err
		}
	}

	var out Config
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{FlatPaths: true}); err != nil {
		return base, err
	}
	return out, nil
}
