//go:build !headless

package gui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"gpslogger/internal/notify"
)

var _ notify.Service = (*desktopNotifier)(nil)

// desktopNotifier hands notifications to the operating system through fyne.
type desktopNotifier struct {
	app fyne.App

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func newDesktopNotifier(app fyne.App) *desktopNotifier {
	if app == nil {
		panic("gui.newDesktopNotifier: app must not be nil")
	}
	return &desktopNotifier{app: app, timers: map[string]*time.Timer{}}
}

// RequestPermission grants unconditionally. fyne exposes no consent prompt;
// the desktop shell applies its own policy when the notification is sent.
func (n *desktopNotifier) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (n *desktopNotifier) Schedule(req notify.Request) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return nil
	}
	if old, ok := n.timers[req.ID]; ok {
		old.Stop()
	}
	n.timers[req.ID] = time.AfterFunc(req.Delay, func() {
		n.mu.Lock()
		delete(n.timers, req.ID)
		stopped := n.stopped
		n.mu.Unlock()
		if stopped {
			return
		}
		n.app.SendNotification(fyne.NewNotification(req.Title, req.Body))
	})
	return nil
}

func (n *desktopNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = true
	for id, timer := range n.timers {
		timer.Stop()
		delete(n.timers, id)
	}
}
