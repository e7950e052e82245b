package headless

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gpslogger/internal/notify"
)

var _ notify.Service = (*toastService)(nil)

// toastService delivers notifications as in-terminal toasts. Requests that
// fire before a program is attached are dropped.
type toastService struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	timers  map[string]*time.Timer
	stopped bool
}

func newToastService() *toastService {
	return &toastService{timers: map[string]*time.Timer{}}
}

func (s *toastService) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

// RequestPermission always grants; the terminal needs no platform consent.
func (s *toastService) RequestPermission(context.Context) (bool, error) {
	return true, nil
}

func (s *toastService) Schedule(req notify.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	if old, ok := s.timers[req.ID]; ok {
		old.Stop()
	}
	s.timers[req.ID] = time.AfterFunc(req.Delay, func() {
		s.mu.Lock()
		delete(s.timers, req.ID)
		send := s.send
		s.mu.Unlock()
		if send != nil {
			send(toastMsg{title: req.Title, body: req.Body})
		}
	})
	return nil
}

func (s *toastService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
