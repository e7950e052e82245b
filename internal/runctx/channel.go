// Package runctx holds channel helpers that give up when a context ends.
package runctx

import (
	"context"

	"gpslogger/internal/logging"
)

// RecvOrDone receives from in unless ctx ends first. ok is false when ctx
// is done or in is closed.
func RecvOrDone[T any](ctx context.Context, name string, logger *logging.Logger, in <-chan T) (T, bool) {
	if logger == nil {
		panic("runctx.RecvOrDone: logger must not be nil")
	}
	select {
	case <-ctx.Done():
		logger.Debug("stopping "+name+": context canceled", logging.Field("error", ctx.Err()))
		var zero T
		return zero, false
	case v, ok := <-in:
		if !ok {
			logger.Debug("stopping " + name + ": input channel closed")
		}
		return v, ok
	}
}

// SendOrDone blocks until value is sent or ctx ends.
func SendOrDone[T any](ctx context.Context, name string, logger *logging.Logger, out chan<- T, value T) bool {
	if logger == nil {
		panic("runctx.SendOrDone: logger must not be nil")
	}
	select {
	case <-ctx.Done():
		logger.Debug("stopping "+name+": context canceled before send", logging.Field("error", ctx.Err()))
		return false
	case out <- value:
		return true
	}
}

// PushLatest never blocks. When ch is full it drops the oldest buffered
// value to make room and reports false if the send still lost the race.
func PushLatest[T any](ch chan T, value T) bool {
	select {
	case ch <- value:
		return true
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- value:
		return true
	default:
		return false
	}
}

// ReplaceLatest keeps only the newest value in a one-slot channel.
func ReplaceLatest[T any](ch chan T, value T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- value:
	default:
	}
}

// Signal wakes one waiter on ch without blocking; pending signals coalesce.
func Signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
