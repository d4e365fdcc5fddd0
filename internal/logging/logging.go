// Package logging maps the persisted verbosity toggles onto the process
// logger. Each of the four levels can be switched independently.
package logging

import (
	"github.com/mordilloSan/go-logger/logger"

	"github.com/jmoret/rosterbee/internal/settings"
)

// Levels converts the persisted toggles into a logger level set.
func Levels(ls settings.LogSettings) []logger.Level {
	var levels []logger.Level
	if ls.Debug {
		levels = append(levels, logger.DebugLevel)
	}
	if ls.Info {
		levels = append(levels, logger.InfoLevel)
	}
	if ls.Warning {
		levels = append(levels, logger.WarnLevel)
	}
	if ls.Error {
		levels = append(levels, logger.ErrorLevel)
	}
	return levels
}

// Apply reconfigures the global logger from the given settings. Called at
// startup and again whenever the log toggles change, so verbosity follows
// the live document.
func Apply(ls settings.LogSettings) {
	logger.Init(logger.Config{
		Levels: Levels(ls),
	})
}
