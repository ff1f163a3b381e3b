package main

import (
	"os"

	"github.com/yigit/uniportal/internal/pkg/logger"
	"github.com/yigit/uniportal/internal/server"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	srv, err := server.NewServer(version)
	if err != nil {
		// setup functions already logged the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
