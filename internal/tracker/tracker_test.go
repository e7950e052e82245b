package tracker

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"gpslogger/internal/geo"
	"gpslogger/internal/logging"
	"gpslogger/internal/runstatus"
	"gpslogger/internal/state"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local) }

type chanSource struct {
	fixes chan geo.Coordinate
}

func (s chanSource) Run(ctx context.Context, out chan<- geo.Coordinate) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case fix := <-s.fixes:
			select {
			case out <- fix:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func readLogs(t *testing.T, s state.Store) []string {
	t.Helper()
	logs, _, err := state.Strings(s, state.KeyLogs)
	if err != nil {
		t.Fatalf("Strings() error = %v", err)
	}
	return logs
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestTrackerRecordsFixesBetweenStartAndStop(t *testing.T) {
	store := state.NewMemoryStore()
	src := chanSource{fixes: make(chan geo.Coordinate)}
	var mu sync.Mutex
	var statuses []string
	tr := New(context.Background(), store, src, logging.NewDiscard(), Options{
		Now: fixedNow,
		OnStatus: func(s string) {
			mu.Lock()
			statuses = append(statuses, s)
			mu.Unlock()
		},
	})

	tr.StartTracking()
	src.fixes <- geo.Coordinate{Latitude: 35, Longitude: 139}
	waitFor(t, "location entry", func() bool { return len(readLogs(t, store)) == 2 })
	tr.StopTracking()

	want := []string{
		"2026/10/17 09:00:00 Start",
		"2026/10/17 09:00:00 Location: 35.0,139.0",
		"2026/10/17 09:00:00 Stop",
	}
	if got := readLogs(t, store); !reflect.DeepEqual(got, want) {
		t.Fatalf("logs = %q, want %q", got, want)
	}
	c, ok, err := geo.LoadLastKnown(store)
	if err != nil || !ok || c != (geo.Coordinate{Latitude: 35, Longitude: 139}) {
		t.Fatalf("LoadLastKnown() = %#v, %v, %v", c, ok, err)
	}
	if tr.Status() != runstatus.Stopped {
		t.Fatalf("Status() = %q, want %q", tr.Status(), runstatus.Stopped)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(statuses) == 0 || statuses[0] != runstatus.Locating {
		t.Fatalf("statuses = %q", statuses)
	}
}

func TestTrackerTrimsToMaxEntries(t *testing.T) {
	store := state.NewMemoryStore()
	tr := New(context.Background(), store, nil, logging.NewDiscard(), Options{Now: fixedNow, MaxEntries: 2})
	tr.Record(geo.Coordinate{Latitude: 1, Longitude: 1})
	tr.Record(geo.Coordinate{Latitude: 2, Longitude: 2})
	tr.Record(geo.Coordinate{Latitude: 3, Longitude: 3})
	want := []string{
		"2026/10/17 09:00:00 Location: 2.0,2.0",
		"2026/10/17 09:00:00 Location: 3.0,3.0",
	}
	if got := readLogs(t, store); !reflect.DeepEqual(got, want) {
		t.Fatalf("logs = %q, want %q", got, want)
	}
}

func TestTrackerClearLogs(t *testing.T) {
	store := state.NewMemoryStore()
	tr := New(context.Background(), store, nil, logging.NewDiscard(), Options{Now: fixedNow})
	tr.StartTracking()
	tr.ClearLogs()
	logs, ok, err := state.Strings(store, state.KeyLogs)
	if err != nil || !ok || len(logs) != 0 {
		t.Fatalf("Strings() after clear = %q, %v, %v", logs, ok, err)
	}
	tr.ClearLogs()
}

func TestTrackerResume(t *testing.T) {
	store := state.NewMemoryStore()
	if err := state.SetBool(store, state.KeyLogging, true); err != nil {
		t.Fatalf("SetBool() error = %v", err)
	}
	tr := New(context.Background(), store, nil, logging.NewDiscard(), Options{Now: fixedNow})
	tr.Resume()
	if tr.Status() != runstatus.Locating {
		t.Fatalf("Status() = %q after resume", tr.Status())
	}
	if got := readLogs(t, store); !reflect.DeepEqual(got, []string{"2026/10/17 09:00:00 Start"}) {
		t.Fatalf("logs = %q", got)
	}

	idle := state.NewMemoryStore()
	tr = New(context.Background(), idle, nil, logging.NewDiscard(), Options{Now: fixedNow})
	tr.Resume()
	if _, ok, _ := state.Strings(idle, state.KeyLogs); ok {
		t.Fatalf("Resume() must not start when tracking was off")
	}
}

func TestFileSourceTailsAppendedFixes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixes.txt")
	appendFile(t, path, "10.0,10.0\n")

	store := state.NewMemoryStore()
	src := NewFileSource(path, logging.NewDiscard())
	src.RescanPeriod = 50 * time.Millisecond
	watching := make(chan struct{}, 1)
	src.OnWatching = func() {
		select {
		case watching <- struct{}{}:
		default:
		}
	}
	tr := New(context.Background(), store, src, logging.NewDiscard(), Options{Now: fixedNow})
	tr.StartTracking()
	defer tr.Close()

	select {
	case <-watching:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for file watch")
	}
	appendFile(t, path, "35.6895,139.6917\n$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A\n")
	waitFor(t, "fix entries", func() bool { return len(readLogs(t, store)) == 3 })

	got := readLogs(t, store)
	if got[1] != "2026/10/17 09:00:00 Location: 35.6895,139.6917" || got[2] != "2026/10/17 09:00:00 Location: 48.1173,11.516667" {
		t.Fatalf("logs = %q", got)
	}
}

func TestFileSourceWaitsForMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.txt")

	store := state.NewMemoryStore()
	src := NewFileSource(path, logging.NewDiscard())
	src.RescanPeriod = 50 * time.Millisecond
	tr := New(context.Background(), store, src, logging.NewDiscard(), Options{Now: fixedNow})
	tr.StartTracking()
	defer tr.Close()

	waitFor(t, "waiting status", func() bool { return tr.Status() == runstatus.Waiting })
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("create fix file: %v", err)
	}
	waitFor(t, "watching status", func() bool { return tr.Status() == runstatus.Locating })
	appendFile(t, path, "1.5,2.5\n")
	waitFor(t, "fix entry", func() bool { return len(readLogs(t, store)) == 2 })
}
