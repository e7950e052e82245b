package app

import (
	"fmt"

	"gpslogger/internal/logging"
	"gpslogger/internal/social"
	"gpslogger/internal/state"
)

// Settings is what the settings screen edits. Values persist immediately on
// save and are read back on the next post.
type Settings struct {
	Credentials social.Credentials
	DebugMode   bool
}

func (a *App) Settings() (Settings, error) {
	creds, err := social.LoadCredentials(a.store)
	if err != nil {
		return Settings{}, fmt.Errorf("load credentials: %w", err)
	}
	return Settings{Credentials: creds, DebugMode: a.DebugMode()}, nil
}

func (a *App) SaveSettings(s Settings) error {
	if err := social.SaveCredentials(a.store, s.Credentials); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	if err := state.SetBool(a.store, state.KeyDebugMode, s.DebugMode); err != nil {
		return fmt.Errorf("save debug mode: %w", err)
	}
	a.logger.Info("settings saved",
		logging.Field("credentials_complete", s.Credentials.Complete()),
		logging.Field("debug_mode", s.DebugMode),
	)
	return nil
}

func (a *App) DebugMode() bool {
	on, err := state.Bool(a.store, state.KeyDebugMode)
	if err != nil {
		a.logger.Debug("read debug mode failed", logging.Field("error", err))
	}
	return on
}

// Banner is the text shown above the log while debug mode is on.
func (a *App) Banner() string {
	if a.DebugMode() {
		return DebugBanner
	}
	return ""
}
