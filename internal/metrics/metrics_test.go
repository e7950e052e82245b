package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestMetricsCountAndExpose(t *testing.T) {
	m := New()
	m.PostsTotal.WithLabelValues("succeeded").Inc()
	m.PostsTotal.WithLabelValues("failed").Add(2)
	m.NotificationsTotal.WithLabelValues("Tweeted").Inc()
	m.Tracking.Set(1)

	body := scrape(t, m)
	require.Contains(t, body, `gpslogger_social_posts_total{result="failed"} 2`)
	require.Contains(t, body, `gpslogger_social_posts_total{result="succeeded"} 1`)
	require.Contains(t, body, `gpslogger_notify_scheduled_total{title="Tweeted"} 1`)
	require.Contains(t, body, "gpslogger_tracker_active 1")
}

func TestNewUsesIndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.FixesTotal.Inc()
	require.Contains(t, scrape(t, a), "gpslogger_tracker_fixes_total 1")
	require.Contains(t, scrape(t, b), "gpslogger_tracker_fixes_total 0")
}
