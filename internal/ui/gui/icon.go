//go:build !headless

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

func loggerIconResource() fyne.Resource {
	return theme.NewPrimaryThemedResource(theme.MediaRecordIcon())
}

func AppIconResource() fyne.Resource {
	return loggerIconResource()
}
