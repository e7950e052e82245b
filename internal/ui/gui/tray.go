//go:build !headless

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

func (c *controller) setupTray() {
	if _, ok := c.app.(desktop.App); !ok {
		return
	}
	c.refreshTrayMenu()
}

// refreshTrayMenu rebuilds the tray menu so its items track the tracking
// flag and the events window.
func (c *controller) refreshTrayMenu() {
	if c.shuttingDown {
		return
	}
	desk, ok := c.app.(desktop.App)
	if !ok {
		return
	}
	desk.SetSystemTrayIcon(loggerIconResource())

	aff := c.core.Affordances()
	openItem := fyne.NewMenuItem("Open Window", func() {
		c.win.Show()
		c.win.RequestFocus()
	})
	eventsItem := fyne.NewMenuItem("Show Events", func() {
		c.setEventsVisibility(!c.eventsOpen)
		c.refreshTrayMenu()
	})
	eventsItem.Checked = c.eventsOpen

	canStart, canStop := trackingButtons(aff, c.stopping)
	startItem := fyne.NewMenuItem("Start Tracking", c.startTracking)
	startItem.Disabled = !canStart
	stopItem := fyne.NewMenuItem("Stop Tracking", c.stopTracking)
	stopItem.Disabled = !canStop

	postItem := fyne.NewMenuItem("Post Location", c.postLocation)
	postItem.Disabled = c.posting
	exportItem := fyne.NewMenuItem("Export Log", c.exportLogs)

	exitItem := fyne.NewMenuItem("Exit", c.requestQuit)

	desk.SetSystemTrayMenu(fyne.NewMenu(windowTitle,
		openItem,
		eventsItem,
		fyne.NewMenuItemSeparator(),
		startItem,
		stopItem,
		fyne.NewMenuItemSeparator(),
		postItem,
		exportItem,
		fyne.NewMenuItemSeparator(),
		exitItem,
	))
}
