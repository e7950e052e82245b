//go:build !headless

package gui

import (
	"context"
	"errors"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gpslogger/internal/app"
	"gpslogger/internal/export"
	"gpslogger/internal/logging"
	"gpslogger/internal/runctx"
)

func waitGroupWithTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	if timeout <= 0 {
		<-done
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

func (c *controller) startBackgroundLoop(name string, fn func(context.Context)) {
	c.bgWG.Go(func() {
		c.logger.Debug("background loop started", logging.Field("loop", name))
		fn(c.appCtx)
		c.logger.Debug("background loop stopped", logging.Field("loop", name))
	})
}

// startStatusLoop polls the tracker status, which changes without any
// store write when the fix file appears or disappears.
func (c *controller) startStatusLoop() {
	c.startBackgroundLoop("status refresh", func(ctx context.Context) {
		ticker := time.NewTicker(statusRefreshRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := c.core.Status()
				fyne.Do(func() {
					if !c.shuttingDown {
						c.applyStatus(status)
					}
				})
			}
		}
	})
}

func (c *controller) bindLogs() {
	eventCh := make(chan string, 256)
	c.unsubscribe = append(c.unsubscribe, c.logger.Subscribe(func(event logging.Event) {
		runctx.PushLatest(eventCh, logging.FormatEventANSI(event))
	}))

	c.startBackgroundLoop("gui event pump", func(ctx context.Context) {
		for {
			line, ok := runctx.RecvOrDone(ctx, "GUI event pump", c.logger, eventCh)
			if !ok {
				return
			}
			fyne.Do(func() {
				c.appendEvent(line)
			})
		}
	})
}

// bindState mirrors the polled log text and the persisted flags into the
// window. Callbacks arrive on store goroutines and hop to the UI thread.
func (c *controller) bindState() {
	c.unsubscribe = append(c.unsubscribe,
		c.core.View().Subscribe(func(text string) {
			fyne.Do(func() {
				if !c.shuttingDown {
					c.setLogText(text)
				}
			})
		}),
		c.core.ObserveTracking(func(bool) {
			fyne.Do(c.refreshAfterChange)
		}),
		c.core.ObserveDebugMode(func(bool) {
			fyne.Do(c.refreshAfterChange)
		}),
	)
}

func (c *controller) refreshAfterChange() {
	if c.shuttingDown {
		return
	}
	c.refreshRuntime()
	c.refreshTrayMenu()
}

func (c *controller) startTracking() {
	if c.stopping {
		return
	}
	if err := c.core.Start(); err != nil {
		c.showError(err)
	}
	c.refreshAfterChange()
}

// stopTracking waits for the fix source off the UI thread, so a slow
// shutdown does not freeze the window.
func (c *controller) stopTracking() {
	if c.stopping {
		return
	}
	c.stopping = true
	c.refreshAfterChange()
	go func() {
		err := c.core.Stop()
		fyne.Do(func() {
			c.stopping = false
			c.showError(err)
			c.refreshAfterChange()
		})
	}()
}

func (c *controller) clearLogs() {
	c.core.Clear()
	c.setLogText("")
}

func (c *controller) reloadLogs() {
	c.core.Reload()
	c.setLogText(c.core.View().Text())
}

func (c *controller) exportLogs() {
	rec, err := c.core.Export()
	switch {
	case err == nil:
		c.setLogText(c.core.View().Text())
		dialog.ShowInformation(export.ConfirmationTitle, rec.ConfirmationMessage(), c.win)
	case errors.Is(err, app.ErrNoLogs):
		c.logger.Debug("export skipped: no logs")
	default:
		c.showError(err)
	}
}

// postLocation runs off the UI thread. Feedback reaches the user as a
// desktop notification or, for failures, only in the events window.
func (c *controller) postLocation() {
	if c.posting {
		return
	}
	c.posting = true
	c.postButton.Disable()
	c.refreshTrayMenu()
	ctx := c.appCtx
	go func() {
		result := c.core.PostLocation(ctx)
		fyne.Do(func() {
			c.posting = false
			if c.shuttingDown {
				return
			}
			c.postButton.Enable()
			c.refreshTrayMenu()
			if result.Outcome == app.PostFailed {
				c.logger.Debug("post finished without notification", logging.Field("outcome", result.Outcome.String()))
			}
		})
	}()
}

func (c *controller) showError(err error) {
	if err == nil || c.shuttingDown {
		return
	}
	dialog.ShowError(err, c.win)
}

func (c *controller) initEventsWindow() {
	c.eventsBuffer = newANSILogBuffer(maxEventLines)
	c.eventsGrid = widget.NewTextGrid()
	c.eventsGrid.Scroll = fyne.ScrollNone
	c.eventsScroll = container.NewVScroll(c.eventsGrid)
	c.followEnabled = true
	c.eventCols = c.eventWrapColumns()

	c.followButton = widget.NewButton("Following", func() {
		c.setFollowEnabled(true)
		c.scrollEventsToBottom()
	})
	c.followButton.Disable()
	copyButton := widget.NewButton("Copy", func() {
		c.app.Clipboard().SetContent(c.eventsBuffer.PlainText())
	})
	clearButton := widget.NewButton("Clear", func() {
		c.eventsBuffer.Replace("")
		c.refreshEventsView()
	})
	c.eventsScroll.OnScrolled = func(pos fyne.Position) {
		if c.followJumping {
			return
		}
		if !c.eventsAtBottom(pos) {
			c.setFollowEnabled(false)
		}
	}

	c.eventsWindow = c.app.NewWindow(windowTitle + " Events")
	c.eventsWindow.Resize(fyne.NewSize(900, 520))
	header := container.NewBorder(nil, nil, container.NewHBox(clearButton, copyButton), c.followButton)
	c.eventsWindow.SetContent(container.NewBorder(header, nil, nil, nil, container.NewStack(c.eventsScroll)))
	c.eventsWindow.SetCloseIntercept(func() {
		if c.shuttingDown {
			return
		}
		c.setEventsVisibility(false)
		c.refreshTrayMenu()
	})
	c.watchEventsWidth()
}

func (c *controller) setEventsVisibility(visible bool) {
	c.eventsOpen = visible
	if visible {
		c.eventsWindow.Show()
		c.eventsWindow.RequestFocus()
		return
	}
	c.eventsWindow.Hide()
}

func (c *controller) appendEvent(line string) {
	if c.shuttingDown || !c.eventsBuffer.Append(line) {
		return
	}
	c.refreshEventsView()
}

func (c *controller) refreshEventsView() {
	c.eventsGrid.Rows = c.eventsBuffer.Rows(c.eventCols)
	c.eventsGrid.Refresh()
	if c.followEnabled {
		c.scrollEventsToBottom()
	}
}

func (c *controller) setFollowEnabled(enabled bool) {
	c.followEnabled = enabled
	if enabled {
		c.followButton.SetText("Following")
		c.followButton.Disable()
		return
	}
	c.followButton.SetText("Follow")
	c.followButton.Enable()
}

func (c *controller) scrollEventsToBottom() {
	c.followJumping = true
	c.eventsScroll.ScrollToBottom()
	c.followJumping = false
}

func (c *controller) eventsAtBottom(pos fyne.Position) bool {
	contentHeight := c.eventsGrid.MinSize().Height
	viewportHeight := c.eventsScroll.Size().Height
	if contentHeight <= viewportHeight+1 {
		return true
	}
	return pos.Y+viewportHeight >= contentHeight-1
}

func (c *controller) watchEventsWidth() {
	c.startBackgroundLoop("events wrap watcher", func(ctx context.Context) {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fyne.Do(func() {
					next := c.eventWrapColumns()
					if next == c.eventCols || c.shuttingDown {
						return
					}
					c.eventCols = next
					c.refreshEventsView()
				})
			}
		}
	})
}

func (c *controller) eventWrapColumns() int {
	width := c.eventsScroll.Size().Width
	if width <= 0 {
		width = 900
	}
	charSize := fyne.MeasureText("M", theme.TextSize(), fyne.TextStyle{Monospace: true})
	return gridColumns(width, charSize.Width)
}

func (c *controller) cleanup() {
	c.cleanupOnce.Do(func() {
		c.shuttingDown = true
		c.logger.Debug("gui cleanup started")
		if c.appCancel != nil {
			c.appCancel()
		}
		for _, unsubscribe := range c.unsubscribe {
			if unsubscribe != nil {
				unsubscribe()
			}
		}
		c.notify.Stop()
		c.logger.Debug("waiting for GUI background loops to stop")
		if ok := waitGroupWithTimeout(&c.bgWG, 2*time.Second); !ok {
			c.logger.Warn("GUI background loops did not stop within timeout")
		}
		c.logger.Debug("gui cleanup complete")
	})
}

func (c *controller) quitApp() {
	c.quitOnce.Do(func() {
		c.logger.Debug("quit requested")
		c.cleanup()
		c.app.Quit()
	})
}

// requestQuit exits without confirmation. The tracking flag is persisted,
// so an active session resumes on the next launch.
func (c *controller) requestQuit() {
	if c.shuttingDown {
		return
	}
	c.quitApp()
}
