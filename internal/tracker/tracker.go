// Package tracker is the in-process location tracker. It turns GPS fixes
// into persisted coordinates and human readable log entries.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"gpslogger/internal/geo"
	"gpslogger/internal/logging"
	"gpslogger/internal/runctx"
	"gpslogger/internal/runstatus"
	"gpslogger/internal/runtime"
	"gpslogger/internal/state"
)

const (
	DefaultMaxEntries = 1000
	entryTimeLayout   = "2006/01/02 15:04:05"
)

type Options struct {
	MaxEntries int
	Now        func() time.Time
	// OnStatus receives runstatus values as tracking changes.
	OnStatus func(string)
	// OnFix observes every recorded fix.
	OnFix func(geo.Coordinate)
}

type Tracker struct {
	store      state.Store
	source     Source
	logger     *logging.Logger
	opts       Options
	controller *runtime.Controller

	mu     sync.Mutex
	status string
}

// New builds a tracker. A nil source still records start and stop entries
// but never produces fixes.
func New(ctx context.Context, store state.Store, source Source, logger *logging.Logger, opts Options) *Tracker {
	if store == nil {
		panic("tracker.New: store must not be nil")
	}
	if logger == nil {
		panic("tracker.New: logger must not be nil")
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	t := &Tracker{
		store:      store,
		source:     source,
		logger:     logger,
		opts:       opts,
		controller: runtime.NewController(ctx),
		status:     runstatus.Stopped,
	}
	if fs, ok := source.(*FileSource); ok {
		if fs.OnWaiting == nil {
			fs.OnWaiting = func(error) { t.setStatus(runstatus.Waiting) }
		}
		if fs.OnWatching == nil {
			fs.OnWatching = func() { t.setStatus(runstatus.Locating) }
		}
	}
	return t
}

func (t *Tracker) StartTracking() {
	t.appendEntry("Start")
	if t.source == nil {
		t.setStatus(runstatus.Locating)
		return
	}
	if t.controller.IsRunning() {
		t.logger.Debug("tracking already running")
		return
	}
	t.setStatus(runstatus.Locating)
	err := t.controller.Start("tracker", serviceFunc(t.run), t.logger, runtime.StartHooks{
		OnExit: func(error) { t.setStatus(runstatus.Stopped) },
	})
	if err != nil && !errors.Is(err, runtime.ErrAlreadyRunning) {
		t.logger.Warn("start tracking failed", logging.Field("error", err))
		t.setStatus(runstatus.Stopped)
	}
}

func (t *Tracker) StopTracking() {
	t.controller.StopAndWait(5 * time.Second)
	t.appendEntry("Stop")
	t.setStatus(runstatus.Stopped)
}

// ClearLogs empties the persisted log list.
func (t *Tracker) ClearLogs() {
	if err := state.SetStrings(t.store, state.KeyLogs, nil); err != nil {
		t.logger.Warn("clear logs failed", logging.Field("error", err))
		return
	}
	t.logger.Info("logs cleared")
}

// Resume restarts tracking when the previous session ended while logging.
func (t *Tracker) Resume() {
	wasLogging, err := state.Bool(t.store, state.KeyLogging)
	if err != nil {
		t.logger.Warn("read tracking flag failed", logging.Field("error", err))
		return
	}
	if wasLogging {
		t.logger.Info("resuming tracking from previous session")
		t.StartTracking()
	}
}

func (t *Tracker) Status() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Close stops the fix source without writing a stop entry.
func (t *Tracker) Close() {
	t.controller.StopAndWait(5 * time.Second)
}

// Record persists fix as the current coordinate and logs it.
func (t *Tracker) Record(fix geo.Coordinate) {
	if err := geo.SaveCurrent(t.store, fix); err != nil {
		t.logger.Warn("save coordinate failed", logging.Field("error", err))
		return
	}
	t.appendEntry("Location: " + fix.String())
	if t.opts.OnFix != nil {
		t.opts.OnFix(fix)
	}
}

func (t *Tracker) run(ctx context.Context) error {
	fixes := make(chan geo.Coordinate, 16)
	errCh := make(chan error, 1)
	go func() {
		errCh <- t.source.Run(ctx, fixes)
		close(fixes)
	}()
	for {
		fix, ok := runctx.RecvOrDone(ctx, "tracker", t.logger, fixes)
		if !ok {
			break
		}
		t.Record(fix)
	}
	return <-errCh
}

func (t *Tracker) appendEntry(event string) {
	entry := t.opts.Now().Format(entryTimeLayout) + " " + event
	if err := state.AppendStrings(t.store, state.KeyLogs, t.opts.MaxEntries, entry); err != nil {
		t.logger.Warn("append log entry failed", logging.Field("entry", entry), logging.Field("error", err))
		return
	}
	t.logger.Debug("log entry appended", logging.Field("entry", entry))
}

func (t *Tracker) setStatus(status string) {
	t.mu.Lock()
	changed := t.status != status
	t.status = status
	t.mu.Unlock()
	if changed && t.opts.OnStatus != nil {
		t.opts.OnStatus(status)
	}
}

type serviceFunc func(ctx context.Context) error

func (f serviceFunc) RunContext(ctx context.Context) error { return f(ctx) }
