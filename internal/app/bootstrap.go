package app

import (
	"strings"

	"talent-catalog/internal/config"
	"talent-catalog/internal/logging"

	"github.com/rs/zerolog"
)

// Overrides are command line values that win over the environment.
type Overrides struct {
	LogLevel  string
	LogFormat string
}

// Bootstrap loads configuration from envFile and the environment and builds
// the logger every command shares.
func Bootstrap(envFile string, o Overrides) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(o.LogFormat); v != "" {
		cfg.Log.Format = v
	}

	log := logging.New(cfg.Log).With().
		Str("app", cfg.App.AppName).
		Str("env", cfg.App.Environment).
		Logger()
	return cfg, log, nil
}
