package logging

import (
	"log/slog"
	"reflect"
	"testing"
)

func TestAttrsToMapNestsAndInlinesGroups(t *testing.T) {
	got := attrsToMap([]slog.Attr{
		Field("store", "bolt"),
		slog.Group("fix", slog.Float64("lat", 35), slog.Float64("lon", 139)),
		slog.Group("", slog.Int("entries", 3)),
		slog.Group("empty"),
		{Key: "", Value: slog.StringValue("dropped")},
	})
	want := map[string]any{
		"store":   "bolt",
		"fix":     map[string]any{"lat": 35.0, "lon": 139.0},
		"entries": int64(3),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("attrsToMap() = %#v, want %#v", got, want)
	}
}

func TestAttrsToMapEmpty(t *testing.T) {
	if got := attrsToMap(nil); got != nil {
		t.Fatalf("attrsToMap(nil) = %#v, want nil", got)
	}
	if got := attrsToMap([]slog.Attr{slog.Group("empty")}); got != nil {
		t.Fatalf("attrsToMap(empty group) = %#v, want nil", got)
	}
}
