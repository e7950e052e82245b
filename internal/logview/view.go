// Package logview keeps the displayed log text in step with the persisted
// log list by polling it.
package logview

import (
	"context"
	"strings"
	"sync"
	"time"

	"gpslogger/internal/logging"
	"gpslogger/internal/state"
)

const DefaultInterval = 3 * time.Second

// LogClearer removes every persisted log entry.
type LogClearer interface {
	ClearLogs()
}

type Phase int

const (
	Idle Phase = iota
	Refreshing
)

type View struct {
	store    state.Store
	clearer  LogClearer
	interval time.Duration
	logger   *logging.Logger

	// OnRefresh, when set, observes every completed refresh.
	OnRefresh func()

	mu    sync.Mutex
	text  string
	phase Phase

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(string)
}

func New(store state.Store, clearer LogClearer, interval time.Duration, logger *logging.Logger) *View {
	if store == nil {
		panic("logview.New: store must not be nil")
	}
	if clearer == nil {
		panic("logview.New: clearer must not be nil")
	}
	if logger == nil {
		panic("logview.New: logger must not be nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &View{
		store:    store,
		clearer:  clearer,
		interval: interval,
		logger:   logger,
		subs:     map[int]func(string){},
	}
}

// Run refreshes every interval until ctx is canceled.
func (v *View) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			v.logger.Debug("stopping log view poller: context canceled")
			return nil
		case <-ticker.C:
			v.refresh()
		}
	}
}

// Reload refreshes immediately using the same read as the poller.
func (v *View) Reload() {
	v.refresh()
}

// Clear removes the persisted entries and empties the display before
// returning.
func (v *View) Clear() {
	v.mu.Lock()
	v.clearer.ClearLogs()
	changed := v.text != ""
	v.text = ""
	v.mu.Unlock()
	if changed {
		v.publish("")
	}
}

func (v *View) Text() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.text
}

func (v *View) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Subscribe calls fn with the new text after each change.
func (v *View) Subscribe(fn func(string)) func() {
	if fn == nil {
		panic("logview.View.Subscribe: callback must not be nil")
	}
	v.subMu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.subMu.Unlock()
	return func() {
		v.subMu.Lock()
		delete(v.subs, id)
		v.subMu.Unlock()
	}
}

// refresh keeps the previous text when the key is absent or unreadable.
func (v *View) refresh() {
	v.mu.Lock()
	v.phase = Refreshing
	entries, ok, err := state.Strings(v.store, state.KeyLogs)
	changed := false
	if err != nil {
		v.logger.Debug("log view refresh failed", logging.Field("error", err))
	} else if ok {
		next := strings.Join(entries, "\n")
		changed = next != v.text
		v.text = next
	}
	text := v.text
	v.phase = Idle
	v.mu.Unlock()

	if v.OnRefresh != nil {
		v.OnRefresh()
	}
	if changed {
		v.publish(text)
	}
}

func (v *View) publish(text string) {
	v.subMu.Lock()
	callbacks := make([]func(string), 0, len(v.subs))
	for _, fn := range v.subs {
		callbacks = append(callbacks, fn)
	}
	v.subMu.Unlock()
	for _, fn := range callbacks {
		fn(text)
	}
}
