package notify

import (
	"context"
	"sync"
	"time"

	"gpslogger/internal/logging"
)

// LogService delivers notifications to the application log. It is used
// when no desktop notification center is available.
type LogService struct {
	logger *logging.Logger

	mu     sync.Mutex
	timers []*time.Timer
}

func NewLogService(logger *logging.Logger) *LogService {
	if logger == nil {
		panic("notify.NewLogService: logger must not be nil")
	}
	return &LogService{logger: logger}
}

func (s *LogService) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (s *LogService) Schedule(req Request) error {
	timer := time.AfterFunc(req.Delay, func() {
		s.logger.Info(req.Title, logging.Field("body", req.Body), logging.Field("id", req.ID))
	})
	s.mu.Lock()
	s.timers = append(s.timers, timer)
	s.mu.Unlock()
	return nil
}

// Stop drops notifications that have not fired yet.
func (s *LogService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, timer := range s.timers {
		timer.Stop()
	}
	s.timers = nil
}
