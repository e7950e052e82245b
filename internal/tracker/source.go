package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"

	"gpslogger/internal/geo"
	"gpslogger/internal/logging"
	"gpslogger/internal/runctx"
)

const (
	defaultRescanPeriod = 2 * time.Second
	reopenDelay         = 500 * time.Millisecond
	reopenMaxDelay      = 30 * time.Second
)

var errFixFileGone = errors.New("fix file removed")

// Source produces GPS fixes until ctx is canceled.
type Source interface {
	Run(ctx context.Context, out chan<- geo.Coordinate) error
}

// FileSource tails a file that a GPS daemon appends fixes to. A missing or
// replaced file is reopened with exponential backoff.
type FileSource struct {
	Path         string
	RescanPeriod time.Duration
	// OnWaiting is called each time the file cannot be opened.
	OnWaiting func(error)
	// OnWatching is called once the file is being tailed.
	OnWatching func()

	logger *logging.Logger
	opened bool
}

func NewFileSource(path string, logger *logging.Logger) *FileSource {
	if logger == nil {
		panic("tracker.NewFileSource: logger must not be nil")
	}
	return &FileSource{Path: filepath.Clean(path), RescanPeriod: defaultRescanPeriod, logger: logger}
}

func (s *FileSource) Run(ctx context.Context, out chan<- geo.Coordinate) error {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = reopenDelay
	retry.MaxInterval = reopenMaxDelay
	retry.Reset()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := s.watch(ctx, out)
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(ctx.Err())
		}
		if err != nil && s.OnWaiting != nil {
			s.OnWaiting(err)
		}
		if err == nil || errors.Is(err, errFixFileGone) {
			// The file was open; start the next wait from the shortest delay.
			retry.Reset()
			err = errFixFileGone
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(retry),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.logger.Debug("retrying fix file",
				logging.Field("path", s.Path),
				logging.Field("error", err),
				logging.Field("next_retry", next.String()))
		}),
	)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// watch tails the file until it disappears or ctx ends. The first open
// starts at end of file. Later opens read a replacement file from the top.
func (s *FileSource) watch(ctx context.Context, out chan<- geo.Coordinate) error {
	tailer := &Tailer{Path: s.Path}
	if !s.opened {
		if err := tailer.Prime(); err != nil {
			return fmt.Errorf("open fix file: %w", err)
		}
	} else if _, err := os.Stat(s.Path); err != nil {
		return fmt.Errorf("open fix file: %w", err)
	}
	s.opened = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize fsnotify watcher: %w", err)
	}
	defer watcher.Close()
	dir := filepath.Dir(s.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch fix directory %s: %w", dir, err)
	}
	s.logger.Info("watching fix file", logging.Field("path", s.Path))
	if s.OnWatching != nil {
		s.OnWatching()
	}

	rescan := s.RescanPeriod
	if rescan <= 0 {
		rescan = defaultRescanPeriod
	}
	ticker := time.NewTicker(rescan)
	defer ticker.Stop()

	if !s.pump(ctx, tailer, out) {
		return ctx.Err()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("fsnotify event stream closed")
			}
			if filepath.Clean(event.Name) != s.Path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				s.logger.Info("fix file removed", logging.Field("path", s.Path))
				return errFixFileGone
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && !s.pump(ctx, tailer, out) {
				return ctx.Err()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("fsnotify error stream closed")
			}
			s.logger.Warn("watcher error", logging.Field("error", err))
		case <-ticker.C:
			if _, err := os.Stat(s.Path); err != nil {
				return errFixFileGone
			}
			if !s.pump(ctx, tailer, out) {
				return ctx.Err()
			}
		}
	}
}

// pump forwards parsed fixes. It returns false once ctx is canceled.
func (s *FileSource) pump(ctx context.Context, tailer *Tailer, out chan<- geo.Coordinate) bool {
	lines, err := tailer.ReadNewLines()
	if err != nil {
		s.logger.Debug("read fix file failed", logging.Field("path", s.Path), logging.Field("error", err))
		return true
	}
	for _, line := range lines {
		fix, ok := ParseFix(line)
		if !ok {
			if line != "" {
				s.logger.Debug("ignoring unparsable fix line", logging.Field("line", logging.Truncate(line)))
			}
			continue
		}
		if !runctx.SendOrDone(ctx, "fix file source", s.logger, out, fix) {
			return false
		}
	}
	return true
}
