package main

import (
	"errors"
	"log"

	"github.com/aussiebroadwan/creditrisk/internal/risk/app"
	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		var startup *domain.StartupError
		if errors.As(err, &startup) {
			log.Fatalf("cannot start: %s artifact unavailable at %q: %v", startup.Artifact, startup.Path, startup.Err)
		}
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
