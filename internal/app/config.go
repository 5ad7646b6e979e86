package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/docker-task-list/api/internal/config"
)

// MustReadEnv loads the process configuration and publishes it
// through config.Global. A .env file is picked up automatically
// when present; real environment variables win over it.
func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}

	config.SetGlobal(cfg)
	globalLogger.Info().
		Str("env", cfg.Env).
		Msg("read env")
}
