//go:build headless

package gui

import (
	"context"

	"gpslogger/internal/config"
)

func Available() bool {
	return false
}

// Run is never reached in headless builds; main checks Available first.
func Run(context.Context, string, config.Options) {
	panic("gui.Run: desktop front end not compiled in")
}
