package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds ambient, machine-wide preferences that have nothing to do
// with any single target's build recipe: default log verbosity, the global
// process cap (spec §4.6's "global concurrency limit"), and a default
// compiler override. Unlike `.mymake`/`.myproject` these are genuinely
// free-form, so they're backed by github.com/pelletier/go-toml/v2 instead of
// the bespoke sectioned format.
type Settings struct {
	LogLevel        string `toml:"log_level"`
	MaxProcesses    int    `toml:"max_processes"`
	DefaultCompiler string `toml:"default_compiler"`
	ColorOutput     *bool  `toml:"color_output"`
}

func DefaultSettings() Settings {
	return Settings{
		LogLevel:     "info",
		MaxProcesses: 0, // 0 means "derive from runtime.NumCPU()"
	}
}

// LoadSettings reads settings from fileName, layered over DefaultSettings.
// A missing file is not an error: it just yields the defaults.
func LoadSettings(fileName string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// DefaultSettingsPath returns the conventional per-user settings location,
// e.g. ~/.mymake/settings.toml.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mymake", "settings.toml"), nil
}

// EnvOverride reads the MYMAKE_<NAME> environment variable, returning ("",
// false) if unset. This replaces the stdlib `flag`-based env bridge the
// teacher used (cmd-env-flags.go): cobra/pflag own argv parsing here, so the
// handful of env overrides are read directly instead of registered onto
// flag.CommandLine.
func EnvOverride(name string) (string, bool) {
	v, ok := os.LookupEnv("MYMAKE_" + name)
	return v, ok
}
