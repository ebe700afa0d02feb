package main

import (
	"net/http"
	"net/http/httptest"

	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/api"
	"github.com/pybo-board/pybo-client/internal/config"
	"github.com/pybo-board/pybo-client/internal/logging"
	"github.com/pybo-board/pybo-client/internal/mockapi"
	"github.com/pybo-board/pybo-client/internal/session"
	"github.com/pybo-board/pybo-client/internal/validate"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg, "web")

	sessions := session.NewStore(newPersistence(cfg, log), log)
	sessions.Restore()

	apiBase := cfg.APIBaseURL
	if cfg.MockAPI && cfg.IsDevelopment() {
		// Dev toggle: run the in-memory mock backend in-process instead of
		// calling out to a real one.
		mock := httptest.NewServer(mockapi.NewServer(cfg.MockSecret, log).Handler())
		defer mock.Close()
		apiBase = mock.URL
		log.WithField("url", apiBase).Info("mock API enabled")
	}

	app := &app{
		client:   api.New(apiBase, sessions, log),
		sessions: sessions,
		forms:    newInflight(),
		validate: validate.New(),
		log:      log,
		hsts:     cfg.EnableHTTPS,
	}

	r := app.routes(cfg.Debug || cfg.VerboseLogging)

	addr := ":" + cfg.WebPort
	log.WithFields(logrus.Fields{"addr": addr, "api": apiBase}).Info("PYBO web UI listening")

	var err error
	if cfg.EnableHTTPS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newPersistence(cfg config.Config, log *logrus.Logger) session.Persistence {
	if cfg.SessionFile != "" {
		return session.NewFileStoreAt(cfg.SessionFile)
	}
	fs, err := session.NewFileStore()
	if err != nil {
		log.WithError(err).Warn("no user config dir, session will not survive restarts")
		return session.NewMemoryStore()
	}
	return fs
}
