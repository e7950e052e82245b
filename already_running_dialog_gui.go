//go:build !headless

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"gpslogger/internal/ui/gui"
)

func showAlreadyRunningDialog() {
	uiApp := app.New()
	uiApp.SetIcon(gui.AppIconResource())
	win := uiApp.NewWindow("GPS Logger")
	win.SetFixedSize(true)
	win.Resize(fyne.NewSize(400, 130))
	ok := widget.NewButton("OK", uiApp.Quit)
	message := widget.NewLabel("GPS Logger is already running.\nTracking continues in the open window or tray.")
	message.Alignment = fyne.TextAlignCenter
	buttonBar := container.NewHBox(layout.NewSpacer(), container.NewGridWrap(fyne.NewSize(104, 34), ok))
	win.SetContent(container.NewPadded(container.NewBorder(message, buttonBar, nil, nil, nil)))
	win.SetCloseIntercept(uiApp.Quit)
	win.Show()
	uiApp.Run()
}
