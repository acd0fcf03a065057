package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tourkita/admin-backend/adminservice"
)

func main() {
	if err := adminservice.Run(); err != nil {
		log.Error().Err(err).Msg("admin-service exited with error")
		os.Exit(1)
	}
}
