package main

import (
	"net/http"

	"github.com/pybo-board/pybo-client/internal/config"
	"github.com/pybo-board/pybo-client/internal/logging"
	"github.com/pybo-board/pybo-client/internal/mockapi"
)

// Standalone mock backend for local development. It speaks the same REST
// contract as the real PYBO service and comes pre-seeded with sample
// questions, so the web UI and CLI can run without any external service.
func main() {
	cfg := config.Load()
	log := logging.New(cfg, "mockapi")

	srv := mockapi.NewServer(cfg.MockSecret, log)

	log.Infof("mock backend listening on :%s", cfg.MockPort)
	if err := http.ListenAndServe(":"+cfg.MockPort, srv.Handler()); err != nil {
		log.WithError(err).Fatal("mock backend stopped")
	}
}
