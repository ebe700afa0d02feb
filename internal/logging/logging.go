package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/pybo-board/pybo-client/internal/config"
)

// New builds a logger for one component. Production output is JSON so log
// shippers can parse it; development output stays human-readable text.
func New(cfg config.Config, component string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch {
	case cfg.Debug || cfg.VerboseLogging:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	log.AddHook(&componentHook{component: component})
	return log
}

// componentHook stamps every entry with the owning component name.
type componentHook struct {
	component string
}

func (h *componentHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *componentHook) Fire(e *logrus.Entry) error {
	e.Data["component"] = h.component
	return nil
}
