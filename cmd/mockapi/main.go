// mockapi runs the development backend: the same REST surface as the hosted
// Maya API, seeded with demo households and kept entirely in memory.
package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Aybis/maya-family/internal/api"
	"github.com/Aybis/maya-family/internal/config"
	"github.com/Aybis/maya-family/internal/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(log)

	log.Info().Str("port", cfg.Server.Port).Msg("mock backend listening")
	if err := r.Run(cfg.Server.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
