package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"

	"gpslogger/internal/compose"
	"gpslogger/internal/config"
	"gpslogger/internal/export"
	"gpslogger/internal/geo"
	"gpslogger/internal/logging"
	"gpslogger/internal/logview"
	"gpslogger/internal/metrics"
	"gpslogger/internal/notify"
	"gpslogger/internal/social"
	"gpslogger/internal/state"
	"gpslogger/internal/tracker"
)

const redisKeyPrefix = "gpslogger:"

// Components is the assembled application plus the pieces a front end runs
// or tears down.
type Components struct {
	App     *App
	Store   state.Store
	View    *logview.View
	Tracker *tracker.Tracker
	Emitter *notify.Emitter
	Metrics *metrics.Metrics

	opts    config.Options
	logger  *logging.Logger
	closers []func() error
}

// Build opens the store and wires every component for opts. Notifications
// go to service.
func Build(ctx context.Context, opts config.Options, service notify.Service, logger *logging.Logger) (*Components, error) {
	if service == nil {
		panic("app.Build: notification service must not be nil")
	}
	if logger == nil {
		panic("app.Build: logger must not be nil")
	}
	c := &Components{opts: opts, logger: logger}

	store, err := openStore(opts)
	if err != nil {
		return nil, err
	}
	c.Store = store
	c.closers = append(c.closers, store.Close)

	diag := logging.NewDiagnostics(logger, func() bool {
		on, _ := state.Bool(store, state.KeyDebugMode)
		return on
	})

	var resolver geo.Resolver = geo.NopResolver{}
	if path := strings.TrimSpace(opts.TownDB); path != "" {
		sqlite, err := geo.OpenSQLiteResolver(path)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("open town database: %w", err)
		}
		resolver = sqlite
		c.closers = append(c.closers, sqlite.Close)
	}

	c.Metrics = metrics.New()

	var source tracker.Source
	if path := strings.TrimSpace(opts.FixFile); path != "" {
		source = tracker.NewFileSource(path, logger)
	}
	c.Tracker = tracker.New(ctx, store, source, logger, tracker.Options{
		MaxEntries: opts.MaxEntries,
		OnFix: func(geo.Coordinate) {
			c.Metrics.FixesTotal.Inc()
		},
	})
	c.closers = append(c.closers, func() error {
		c.Tracker.Close()
		return nil
	})

	c.View = logview.New(store, c.Tracker, opts.PollInterval, logger)
	c.View.OnRefresh = func() { c.Metrics.LogRefreshesTotal.Inc() }

	c.Emitter = notify.NewEmitter(service, logger, diag)
	c.Emitter.OnScheduled = func(req notify.Request) {
		c.Metrics.NotificationsTotal.WithLabelValues(req.Title).Inc()
	}

	endpoint := opts.PostURL
	c.App = New(Deps{
		Store:    store,
		Tracker:  c.Tracker,
		View:     c.View,
		Composer: compose.New(store, resolver, diag),
		Exporter: export.NewExporter(export.NewNamer(export.SystemClock{}), export.DirWriter{Dir: opts.ExportDir}),
		Notifier: c.Emitter,
		NewPoster: func(creds social.Credentials) (social.Poster, error) {
			return social.NewClient(creds, social.ClientOptions{Endpoint: endpoint}, logger)
		},
		Logger:  logger,
		Diag:    diag,
		Metrics: c.Metrics,
	})
	return c, nil
}

// Run resumes tracking if it was on at last exit, then drives the log view
// and the optional metrics endpoint until ctx is canceled.
func (c *Components) Run(ctx context.Context) error {
	c.Tracker.Resume()
	if c.App.IsLogging() {
		c.Metrics.Tracking.Set(1)
	}
	if addr := strings.TrimSpace(c.opts.MetricsAddr); addr != "" {
		go func() {
			if err := c.Metrics.Serve(ctx, addr, c.logger); err != nil {
				c.logger.Warn("metrics endpoint stopped", logging.Field("error", err))
			}
		}()
	}
	return c.View.Run(ctx)
}

// Close releases everything Build opened, last opened first.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func openStore(opts config.Options) (state.Store, error) {
	switch opts.Store {
	case config.StoreMemory:
		return state.NewMemoryStore(), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		store, err := state.NewRedisStore(client, redisKeyPrefix)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis store: %w", err)
		}
		return &ownedRedisStore{RedisStore: store, client: client}, nil
	case config.StoreBolt, "":
		path := config.BoltPath(opts)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		store, err := state.OpenBolt(path)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, opts.Store)
	}
}

// ownedRedisStore closes the client it was built with.
type ownedRedisStore struct {
	*state.RedisStore
	client *redis.Client
}

func (s *ownedRedisStore) Close() error {
	return errors.Join(s.RedisStore.Close(), s.client.Close())
}
