package view

import "fmt"

const (
	zoneTabLog      = "tab-log"
	zoneTabEvents   = "tab-events"
	zoneTabSettings = "tab-settings"

	zoneDebug     = "settings-debug"
	zoneSave      = "settings-save"
	zoneCancel    = "settings-cancel"
	zoneModalDone = "modal-close"
)

var logControlZones = [logControlCount]string{
	toggleControl: "log-toggle",
	clearControl:  "log-clear",
	reloadControl: "log-reload",
	exportControl: "log-export",
	postControl:   "log-post",
	quitControl:   "log-quit",
}

func zoneSettingsInput(index int) string {
	return fmt.Sprintf("settings-input-%d", index)
}

func tabZone(tab int) string {
	switch tab {
	case TabEvents:
		return zoneTabEvents
	case TabSettings:
		return zoneTabSettings
	default:
		return zoneTabLog
	}
}
