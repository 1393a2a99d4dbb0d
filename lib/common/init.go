package common

import (
	logging "github.com/inconshreveable/log15"
)

var log logging.Logger = logging.New("module", "common")

// SetLogging replaces the package handler; the node command calls this
// once the log flags are parsed.
func SetLogging(level logging.Lvl, handler logging.Handler) {
	log.SetHandler(logging.LvlFilterHandler(level, handler))
}

func init() {
	SetLogging(DefaultLogLevel, DefaultLogHandler)
}
