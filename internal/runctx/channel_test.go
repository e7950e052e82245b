package runctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gpslogger/internal/logging"
)

func TestRecvOrDone(t *testing.T) {
	logger := logging.NewDiscard()
	ch := make(chan int, 1)
	ch <- 7
	v, ok := RecvOrDone(context.Background(), "test", logger, ch)
	require.True(t, ok)
	require.Equal(t, 7, v)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok = RecvOrDone(ctx, "test", logger, ch)
	require.False(t, ok)

	close(ch)
	_, ok = RecvOrDone(context.Background(), "test", logger, ch)
	require.False(t, ok)
}

func TestSendOrDoneStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, SendOrDone(ctx, "test", logging.NewDiscard(), make(chan int), 1))
}

func TestPushLatestDropsOldest(t *testing.T) {
	ch := make(chan string, 2)
	require.True(t, PushLatest(ch, "a"))
	require.True(t, PushLatest(ch, "b"))
	require.True(t, PushLatest(ch, "c"))
	require.Equal(t, "b", <-ch)
	require.Equal(t, "c", <-ch)
}

func TestReplaceLatestAndSignal(t *testing.T) {
	ch := make(chan string, 1)
	ReplaceLatest(ch, "old")
	ReplaceLatest(ch, "new")
	require.Equal(t, "new", <-ch)

	sig := make(chan struct{}, 1)
	Signal(sig)
	Signal(sig)
	require.Len(t, sig, 1)
}
