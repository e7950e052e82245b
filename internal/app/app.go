// Package app wires the log view, tracker, exporter, composer and notifier
// into the actions offered by the main screen.
package app

import (
	"context"
	"fmt"

	"gpslogger/internal/compose"
	"gpslogger/internal/export"
	"gpslogger/internal/logging"
	"gpslogger/internal/logview"
	"gpslogger/internal/metrics"
	"gpslogger/internal/runstatus"
	"gpslogger/internal/social"
	"gpslogger/internal/state"
)

const (
	TitleWarning              = "Warning"
	TitleTweeted              = "Tweeted"
	MissingCredentialsMessage = "Please set keys and secrets of Twitter."
	DebugBanner               = "Debug mode is enabled!"
)

// TrackerControl drives the location tracker. Effects show up in the store.
type TrackerControl interface {
	StartTracking()
	StopTracking()
	ClearLogs()
}

type Notifier interface {
	Emit(ctx context.Context, title, body string)
}

// PosterFactory builds a social client for the current credentials.
type PosterFactory func(social.Credentials) (social.Poster, error)

type Deps struct {
	Store     state.Store
	Tracker   TrackerControl
	View      *logview.View
	Composer  *compose.Composer
	Exporter  *export.Exporter
	Notifier  Notifier
	NewPoster PosterFactory
	Logger    *logging.Logger
	Diag      *logging.Diagnostics
	// Metrics is optional.
	Metrics *metrics.Metrics
}

type App struct {
	store     state.Store
	tracker   TrackerControl
	view      *logview.View
	composer  *compose.Composer
	exporter  *export.Exporter
	notifier  Notifier
	newPoster PosterFactory
	logger    *logging.Logger
	diag      *logging.Diagnostics
	metrics   *metrics.Metrics
}

func New(deps Deps) *App {
	switch {
	case deps.Store == nil:
		panic("app.New: store must not be nil")
	case deps.Tracker == nil:
		panic("app.New: tracker must not be nil")
	case deps.View == nil:
		panic("app.New: view must not be nil")
	case deps.Composer == nil:
		panic("app.New: composer must not be nil")
	case deps.Exporter == nil:
		panic("app.New: exporter must not be nil")
	case deps.Notifier == nil:
		panic("app.New: notifier must not be nil")
	case deps.NewPoster == nil:
		panic("app.New: poster factory must not be nil")
	case deps.Logger == nil:
		panic("app.New: logger must not be nil")
	}
	return &App{
		store:     deps.Store,
		tracker:   deps.Tracker,
		view:      deps.View,
		composer:  deps.Composer,
		exporter:  deps.Exporter,
		notifier:  deps.Notifier,
		newPoster: deps.NewPoster,
		logger:    deps.Logger,
		diag:      deps.Diag,
		metrics:   deps.Metrics,
	}
}

func (a *App) View() *logview.View {
	return a.view
}

// Affordances says which of the start and stop controls is active. Exactly
// one of them is.
type Affordances struct {
	Start bool
	Stop  bool
}

func (a *App) IsLogging() bool {
	on, err := state.Bool(a.store, state.KeyLogging)
	if err != nil {
		a.logger.Debug("read tracking flag failed", logging.Field("error", err))
	}
	return on
}

func (a *App) Affordances() Affordances {
	on := a.IsLogging()
	return Affordances{Start: !on, Stop: on}
}

// Status is the short tracker status shown under the start/stop control.
func (a *App) Status() string {
	if s, ok := a.tracker.(interface{ Status() string }); ok {
		return s.Status()
	}
	if a.IsLogging() {
		return runstatus.Locating
	}
	return runstatus.Stopped
}

func (a *App) Start() error {
	a.diag.Record("app.Start", "start", "")
	a.tracker.StartTracking()
	if err := state.SetBool(a.store, state.KeyLogging, true); err != nil {
		return fmt.Errorf("save tracking flag: %w", err)
	}
	a.setTrackingGauge(1)
	return nil
}

func (a *App) Stop() error {
	a.diag.Record("app.Stop", "start", "")
	a.tracker.StopTracking()
	if err := state.SetBool(a.store, state.KeyLogging, false); err != nil {
		return fmt.Errorf("save tracking flag: %w", err)
	}
	a.setTrackingGauge(0)
	return nil
}

func (a *App) Clear() {
	a.view.Clear()
}

func (a *App) Reload() {
	a.view.Reload()
}

// Export refreshes the display from the store and writes it to a new file.
// It returns ErrNoLogs when nothing has ever been logged.
func (a *App) Export() (export.Record, error) {
	_, ok, err := state.Strings(a.store, state.KeyLogs)
	if err != nil {
		a.countExport("failed")
		return export.Record{}, fmt.Errorf("%w: read logs: %w", ErrExportFailed, err)
	}
	if !ok {
		a.countExport("empty")
		return export.Record{}, ErrNoLogs
	}
	a.view.Reload()
	rec, err := a.exporter.Export(a.view.Text())
	if err != nil {
		a.countExport("failed")
		a.logger.Warn("export failed", logging.Field("error", err))
		return export.Record{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	a.countExport("written")
	a.logger.Info("logs exported", logging.Field("file", rec.Filename))
	return rec, nil
}

func (a *App) countExport(result string) {
	if a.metrics != nil {
		a.metrics.ExportsTotal.WithLabelValues(result).Inc()
	}
}

func (a *App) setTrackingGauge(v float64) {
	if a.metrics != nil {
		a.metrics.Tracking.Set(v)
	}
}

// ObserveTracking calls fn with the tracking flag whenever it changes.
func (a *App) ObserveTracking(fn func(bool)) func() {
	return a.store.Observe(state.KeyLogging, func(string) { fn(a.IsLogging()) })
}

// ObserveDebugMode calls fn with the debug flag whenever it changes.
func (a *App) ObserveDebugMode(fn func(bool)) func() {
	return a.store.Observe(state.KeyDebugMode, func(string) { fn(a.DebugMode()) })
}
