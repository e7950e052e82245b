package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpslogger/internal/compose"
	"gpslogger/internal/config"
	"gpslogger/internal/export"
	"gpslogger/internal/geo"
	"gpslogger/internal/logging"
	"gpslogger/internal/logview"
	"gpslogger/internal/notify"
	"gpslogger/internal/social"
	"gpslogger/internal/state"
)

type fakeTracker struct {
	store   state.Store
	started int
	stopped int
}

func (f *fakeTracker) StartTracking() { f.started++ }
func (f *fakeTracker) StopTracking()  { f.stopped++ }
func (f *fakeTracker) ClearLogs()     { _ = state.SetStrings(f.store, state.KeyLogs, []string{}) }

type emitted struct {
	Title string
	Body  string
}

type recordingNotifier struct {
	mu  sync.Mutex
	got []emitted
}

func (n *recordingNotifier) Emit(_ context.Context, title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, emitted{Title: title, Body: body})
}

func (n *recordingNotifier) all() []emitted {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]emitted(nil), n.got...)
}

type posterFunc func(ctx context.Context, status string) (social.Response, error)

func (f posterFunc) Post(ctx context.Context, status string) (social.Response, error) {
	return f(ctx, status)
}

type failingWriter struct{}

func (failingWriter) Write(string, string) (string, error) {
	return "", errors.New("disk full")
}

type fixture struct {
	app       *App
	store     state.Store
	tracker   *fakeTracker
	notifier  *recordingNotifier
	exportDir string
	posts     []string
	newPoster PosterFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     state.NewMemoryStore(),
		notifier:  &recordingNotifier{},
		exportDir: t.TempDir(),
	}
	f.tracker = &fakeTracker{store: f.store}
	f.newPoster = func(social.Credentials) (social.Poster, error) {
		return posterFunc(func(_ context.Context, status string) (social.Response, error) {
			f.posts = append(f.posts, status)
			return social.Response{ID: "1", Text: status}, nil
		}), nil
	}
	f.app = f.build(export.DirWriter{Dir: f.exportDir})
	return f
}

func (f *fixture) build(writer export.Writer) *App {
	logger := logging.NewDiscard()
	clock := &export.FixedClock{N: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	return New(Deps{
		Store:    f.store,
		Tracker:  f.tracker,
		View:     logview.New(f.store, f.tracker, time.Hour, logger),
		Composer: compose.New(f.store, geo.NopResolver{}, nil),
		Exporter: export.NewExporter(export.NewNamer(clock), writer),
		Notifier: f.notifier,
		NewPoster: func(c social.Credentials) (social.Poster, error) {
			return f.newPoster(c)
		},
		Logger: logger,
	})
}

func completeCredentials() social.Credentials {
	return social.Credentials{ConsumerKey: "ck", ConsumerSecret: "cs", AccessKey: "ak", AccessSecret: "as"}
}

func TestStartStopToggleAffordances(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, Affordances{Start: true, Stop: false}, f.app.Affordances())

	require.NoError(t, f.app.Start())
	require.Equal(t, Affordances{Start: false, Stop: true}, f.app.Affordances())
	require.Equal(t, 1, f.tracker.started)

	require.NoError(t, f.app.Stop())
	require.Equal(t, Affordances{Start: true, Stop: false}, f.app.Affordances())
	require.Equal(t, 1, f.tracker.stopped)
}

func TestObserveTrackingSeesStart(t *testing.T) {
	f := newFixture(t)
	seen := make(chan bool, 1)
	cancel := f.app.ObserveTracking(func(on bool) { seen <- on })
	defer cancel()

	require.NoError(t, f.app.Start())
	select {
	case on := <-seen:
		require.True(t, on)
	case <-time.After(time.Second):
		t.Fatal("tracking observer not called")
	}
}

func TestExportWithoutLogsWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.Export()
	require.ErrorIs(t, err, ErrNoLogs)

	entries, err := os.ReadDir(f.exportDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExportWritesRefreshedLog(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, state.SetStrings(f.store, state.KeyLogs, []string{
		"2026/10/17 09:00:00 Start",
		"2026/10/17 09:00:03 Location: 35.0,139.0",
	}))

	rec, err := f.app.Export()
	require.NoError(t, err)
	require.Equal(t, "export_20261017090000000.txt", rec.Filename)
	require.Equal(t, "Exported to file export_20261017090000000.txt.", rec.ConfirmationMessage())

	data, err := os.ReadFile(filepath.Join(f.exportDir, rec.Filename))
	require.NoError(t, err)
	require.Equal(t, "2026/10/17 09:00:00 Start\n2026/10/17 09:00:03 Location: 35.0,139.0", string(data))
	require.Equal(t, string(data), f.app.View().Text())
}

func TestExportEmptyLogStillWrites(t *testing.T) {
	f := newFixture(t)
	f.app.Clear()

	rec, err := f.app.Export()
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(f.exportDir, rec.Filename))
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestExportWriteFailure(t *testing.T) {
	f := newFixture(t)
	a := f.build(failingWriter{})
	require.NoError(t, state.SetStrings(f.store, state.KeyLogs, []string{"x"}))

	_, err := a.Export()
	require.ErrorIs(t, err, ErrExportFailed)
	require.Contains(t, err.Error(), "disk full")
}

func TestPostLocationWithoutCredentialsWarns(t *testing.T) {
	f := newFixture(t)
	f.newPoster = func(social.Credentials) (social.Poster, error) {
		t.Fatal("poster must not be built without credentials")
		return nil, nil
	}
	require.NoError(t, social.SaveCredentials(f.store, social.Credentials{ConsumerKey: "ck"}))

	result := f.app.PostLocation(context.Background())
	require.Equal(t, PostSkipped, result.Outcome)
	require.Equal(t, []emitted{{Title: TitleWarning, Body: MissingCredentialsMessage}}, f.notifier.all())
}

func TestPostLocationSuccessNotifiesWithMessage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, social.SaveCredentials(f.store, completeCredentials()))
	require.NoError(t, geo.SaveCurrent(f.store, geo.Coordinate{Latitude: 35, Longitude: 139}))

	result := f.app.PostLocation(context.Background())
	want := "https://www.google.com/maps/search/?api=1&query=35.0,139.0"
	require.Equal(t, PostSucceeded, result.Outcome)
	require.Equal(t, []string{want}, f.posts)
	require.Equal(t, []emitted{{Title: TitleTweeted, Body: want}}, f.notifier.all())
}

func TestPostLocationFailureIsSilent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, social.SaveCredentials(f.store, completeCredentials()))
	f.newPoster = func(social.Credentials) (social.Poster, error) {
		return posterFunc(func(context.Context, string) (social.Response, error) {
			return social.Response{}, &social.HTTPStatusError{StatusCode: 401, Status: "401 Unauthorized"}
		}), nil
	}

	result := f.app.PostLocation(context.Background())
	require.Equal(t, PostFailed, result.Outcome)
	assert.True(t, social.IsUnauthorized(result.Err))
	assert.Empty(t, f.notifier.all())
}

func TestSettingsRoundTripAndBanner(t *testing.T) {
	f := newFixture(t)
	require.Empty(t, f.app.Banner())

	require.NoError(t, f.app.SaveSettings(Settings{Credentials: completeCredentials(), DebugMode: true}))
	got, err := f.app.Settings()
	require.NoError(t, err)
	require.Equal(t, completeCredentials(), got.Credentials)
	require.True(t, got.DebugMode)
	require.Equal(t, DebugBanner, f.app.Banner())
}

func TestBuildMemoryStore(t *testing.T) {
	opts := config.ApplyDefaults(config.Options{
		Store:     config.StoreMemory,
		ExportDir: t.TempDir(),
		DataDir:   t.TempDir(),
	})
	logger := logging.NewDiscard()
	service := notify.NewLogService(logger)
	defer service.Stop()

	c, err := Build(context.Background(), opts, service, logger)
	require.NoError(t, err)
	defer func() { require.NoError(t, c.Close()) }()

	require.NoError(t, c.App.Start())
	require.True(t, c.App.IsLogging())
	c.App.Reload()
	require.Contains(t, c.App.View().Text(), "Start")
}

func TestBuildBoltStoreCreatesDatabase(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "nested")
	opts := config.ApplyDefaults(config.Options{
		Store:     config.StoreBolt,
		DataDir:   dataDir,
		ExportDir: t.TempDir(),
	})
	logger := logging.NewDiscard()
	c, err := Build(context.Background(), opts, notify.NewLogService(logger), logger)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = os.Stat(config.BoltPath(opts))
	require.NoError(t, err)
}

func TestBuildUnknownStore(t *testing.T) {
	logger := logging.NewDiscard()
	_, err := Build(context.Background(), config.Options{Store: "etcd"}, notify.NewLogService(logger), logger)
	require.ErrorIs(t, err, ErrUnknownStore)
}
