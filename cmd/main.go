package main

import (
	"github.com/VladPetriv/flastel/config"
	"github.com/VladPetriv/flastel/internal/app"
	"github.com/VladPetriv/flastel/pkg/logger"
)

func main() {
	cfg := config.Get()

	logger := logger.New(logger.Options{
		LogLevel:        cfg.Logger.LogLevel,
		LogFile:         cfg.Logger.LogFilename,
		PrettyLogOutput: cfg.Logger.PrettyLogOutput,
	})

	app.Run(cfg, logger)
}
