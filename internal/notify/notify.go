// Package notify shows short user notifications through a platform service.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gpslogger/internal/logging"
)

// DefaultDelay matches the one-shot trigger used for every notification.
const DefaultDelay = time.Second

type Request struct {
	ID    string
	Title string
	Body  string
	Delay time.Duration
	Sound bool
}

// Service is the platform notification center.
type Service interface {
	// RequestPermission asks for alert and sound permission.
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(req Request) error
}

// Emitter asks for permission once per process and schedules one-shot
// notifications. Failures are logged and never reported to callers.
type Emitter struct {
	service Service
	logger  *logging.Logger
	diag    *logging.Diagnostics
	delay   time.Duration

	// OnScheduled, when set, observes every request handed to the service.
	OnScheduled func(Request)

	mu      sync.Mutex
	decided bool
	granted bool
}

func NewEmitter(service Service, logger *logging.Logger, diag *logging.Diagnostics) *Emitter {
	if service == nil {
		panic("notify.NewEmitter: service must not be nil")
	}
	if logger == nil {
		panic("notify.NewEmitter: logger must not be nil")
	}
	return &Emitter{service: service, logger: logger, diag: diag, delay: DefaultDelay}
}

// Emit schedules a notification when permission is granted. It may block
// while the platform asks the user, so call it off the UI thread.
func (e *Emitter) Emit(ctx context.Context, title, body string) {
	e.diag.Record("notify.Emit", "start", title)
	if !e.permission(ctx) {
		e.diag.Record("notify.Emit", "granted", false)
		return
	}
	req := Request{
		ID:    uuid.NewString(),
		Title: title,
		Body:  body,
		Delay: e.delay,
		Sound: true,
	}
	if err := e.service.Schedule(req); err != nil {
		e.logger.Warn("schedule notification failed", logging.Field("title", title), logging.Field("error", err))
		return
	}
	if e.OnScheduled != nil {
		e.OnScheduled(req)
	}
	e.diag.Record("notify.Emit", "scheduled", req.ID)
}

// permission holds the lock across the request so concurrent first calls
// share one prompt. Errors are not cached.
func (e *Emitter) permission(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.decided {
		return e.granted
	}
	granted, err := e.service.RequestPermission(ctx)
	if err != nil {
		e.logger.Warn("notification permission request failed", logging.Field("error", err))
		return false
	}
	e.decided = true
	e.granted = granted
	e.logger.Debug("notification permission decided", logging.Field("granted", granted))
	return granted
}
