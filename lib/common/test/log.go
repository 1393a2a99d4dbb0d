// Test helpers shared by package tests.
package test

import (
	"os"

	logging "github.com/inconshreveable/log15"
)

// LogHandler picks the handler for test logging. Tests are quiet by
// default; set AGORA_LOG_HANDLER=stdout to see module logs with call
// sites while debugging.
func LogHandler() logging.Handler {
	handlers := map[string]func() logging.Handler{
		"null": func() logging.Handler {
			return logging.DiscardHandler()
		},
		"stdout": func() logging.Handler {
			return logging.CallerStackHandler("%+v", logging.StdoutHandler)
		},
	}

	handler := handlers["null"]
	if h, ok := handlers[os.Getenv("AGORA_LOG_HANDLER")]; ok {
		handler = h
	}

	return handler()
}
