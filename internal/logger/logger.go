package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер.
// В development - текстовый формат и debug, иначе JSON и info.
func Init(env string) {
	Log = logrus.New()

	if env == "development" {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		return
	}

	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLevel меняет уровень, если строка распознана.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil || Log == nil {
		return
	}
	Log.SetLevel(lvl)
}

// Component возвращает логгер с полем component.
// До Init используется стандартный логгер logrus (например, в тестах).
func Component(name string) *logrus.Entry {
	base := Log
	if base == nil {
		base = logrus.StandardLogger()
	}
	return base.WithField("component", name)
}
