// Package app assembles the shared pieces every CLI command needs: config,
// logger, session store, validator, and the API client.
package app

import (
	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/api"
	"github.com/pybo-board/pybo-client/internal/config"
	"github.com/pybo-board/pybo-client/internal/logging"
	"github.com/pybo-board/pybo-client/internal/session"
	"github.com/pybo-board/pybo-client/internal/validate"
)

type Context struct {
	Cfg      config.Config
	Log      *logrus.Logger
	Sessions *session.Store
	Client   *api.Client
	Validate *validate.Validator
}

// Build loads config and restores the persisted session. Called once per
// command invocation.
func Build() (*Context, error) {
	cfg := config.Load()
	log := logging.New(cfg, "cli")

	var persist session.Persistence
	if cfg.SessionFile != "" {
		persist = session.NewFileStoreAt(cfg.SessionFile)
	} else {
		fs, err := session.NewFileStore()
		if err != nil {
			return nil, err
		}
		persist = fs
	}

	sessions := session.NewStore(persist, log)
	sessions.Restore()

	return &Context{
		Cfg:      cfg,
		Log:      log,
		Sessions: sessions,
		Client:   api.New(cfg.APIBaseURL, sessions, log),
		Validate: validate.New(),
	}, nil
}
