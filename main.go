package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"pqr-portal/config"
	"pqr-portal/di"
	"pqr-portal/logging"
)

func main() {
	configDir := flag.String("config", config.GetResourcePath(""), "directory holding "+config.CONFIG_FILE_NAME)
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(config.GetString("log.level"), config.GetBool("log.pretty"))

	container, err := di.NewContainer(config.GetString("env"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}

	container.SessionSweeperService.StartPeriodicJob(config.GetDuration("session.sweepInterval"))

	if err := container.PortalHttpServer.Start(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}
}
