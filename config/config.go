package config

import (
	"os"
	"time"

	"dario.cat/mergo"

	"github.com/nicfit/clique/log"
)

// Config holds the runtime settings clique.Bootstrap consults to point
// the process-wide default KeyStore and ChainStore at remote servers,
// and to size the shared logger it builds for them.
type Config struct {
	// KeyStoreURL is the base URL of a remote key server, e.g.
	// "https://keys.example.com". Empty disables remote key resolution.
	KeyStoreURL string

	// ChainStoreURL is the base URL of a remote chain server.
	ChainStoreURL string

	// RequestTimeout bounds every remote store HTTP call.
	RequestTimeout time.Duration

	// LogLevel sets the default logger's verbosity.
	LogLevel log.Level
}

// Defaults returns the library's baseline configuration: no remote
// endpoints, a 5-second request timeout, and Info-level logging.
func Defaults() Config {
	return Config{
		RequestTimeout: 5 * time.Second,
		LogLevel:       log.Info,
	}
}

// Merge overlays `partial` onto the receiver, leaving any zero-valued
// field in `partial` untouched. The receiver is not mutated.
func (c Config) Merge(partial Config) (Config, error) {
	result := c
	if err := mergo.Merge(&result, partial, mergo.WithOverride); err != nil {
		return Config{}, err
	}
	return result, nil
}

// FromEnv reads CLIQUE_KEYSTORE_URL, CLIQUE_CHAINSTORE_URL,
// CLIQUE_REQUEST_TIMEOUT (a Go duration string) and CLIQUE_LOG_LEVEL
// (debug|info|warning|error), merging whatever is set over Defaults().
func FromEnv() (Config, error) {
	partial := Config{
		KeyStoreURL:   os.Getenv("CLIQUE_KEYSTORE_URL"),
		ChainStoreURL: os.Getenv("CLIQUE_CHAINSTORE_URL"),
	}
	if v := os.Getenv("CLIQUE_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, err
		}
		partial.RequestTimeout = d
	}
	cfg, err := Defaults().Merge(partial)
	if err != nil {
		return Config{}, err
	}
	// log.Debug is the zero Level, which Merge treats as unset, so the
	// level is applied after merging.
	if v := os.Getenv("CLIQUE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLevel(v)
	}
	return cfg, nil
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.Debug
	case "warning":
		return log.Warning
	case "error":
		return log.Error
	default:
		return log.Info
	}
}
