//go:build !headless

package gui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gpslogger/internal/app"
)

func TestTrackingButtonsFollowAffordances(t *testing.T) {
	start, stop := trackingButtons(app.Affordances{Start: true}, false)
	require.True(t, start)
	require.False(t, stop)

	start, stop = trackingButtons(app.Affordances{Stop: true}, false)
	require.False(t, start)
	require.True(t, stop)
}

func TestTrackingButtonsDisabledWhileStopping(t *testing.T) {
	start, stop := trackingButtons(app.Affordances{Stop: true}, true)
	require.False(t, start)
	require.False(t, stop)
}
