package logging

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fixPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func TestPrettyJSONString_EmbeddedJSONSuffixIgnored(t *testing.T) {
	input := `403 Forbidden: {"detail":"duplicate content"}`
	if _, ok := prettyJSONString(input); ok {
		t.Fatalf("expected embedded JSON suffix to be ignored")
	}
}

func TestPrettyJSONString_StructField(t *testing.T) {
	pretty, ok := prettyJSONString(fixPayload{Latitude: 35, Longitude: 139})
	if !ok {
		t.Fatalf("expected struct to be rendered as pretty JSON")
	}
	if !strings.HasPrefix(pretty, "{") || !strings.Contains(pretty, `"latitude": 35`) {
		t.Fatalf("unexpected pretty JSON %q", pretty)
	}
}

func TestOrderedFieldKeys_PayloadJSONLast(t *testing.T) {
	keys := orderedFieldKeys(map[string]any{
		"status":   "403",
		"response": `{"detail":"duplicate content"}`,
		"fix":      fixPayload{},
		"error":    "post failed",
	})
	want := []string{"error", "status", "fix", "response"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("orderedFieldKeys() = %v, want %v", keys, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "  ", want: "<empty>"},
		{name: "newlines flattened", in: "a\nb\r\nc", want: "a b  c"},
		{name: "clipped", in: strings.Repeat("x", clipLimit+5), want: strings.Repeat("x", clipLimit) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in); got != tt.want {
				t.Fatalf("Truncate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatEventLine(t *testing.T) {
	line := FormatEventLine(Event{
		Time:    time.Date(2026, 10, 17, 8, 30, 0, 0, time.Local),
		Level:   slog.LevelWarn,
		Message: "post failed",
		Fields:  map[string]any{"status": 403},
	})
	if line != "08:30:00 [WARN] post failed status=403\n" {
		t.Fatalf("FormatEventLine() = %q", line)
	}
}

func TestDiagnosticsRecordOnlyWhenEnabled(t *testing.T) {
	logger := NewDiscard()
	logger.SetDebugEnabled(true)
	var got []Event
	unsubscribe := logger.Subscribe(func(event Event) { got = append(got, event) })
	defer unsubscribe()

	enabled := false
	diag := NewDiagnostics(logger, func() bool { return enabled })
	diag.Record("app.PostLocation", "postTweet", "ok")
	if len(got) != 0 {
		t.Fatalf("expected no diagnostics while disabled, got %d", len(got))
	}

	enabled = true
	diag.Record("app.PostLocation", "postTweet", 200)
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic event, got %d", len(got))
	}
	if got[0].Message != "diag app.PostLocation" || got[0].Fields["key"] != "postTweet" || got[0].Fields["value"] != "200" {
		t.Fatalf("unexpected diagnostic event %#v", got[0])
	}

	var nilDiag *Diagnostics
	nilDiag.Record("x", "y", "z")
}

func TestFormatHTTPPayload(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: " ", want: "<empty>"},
		{name: "plain text", in: "Unauthorized\n", want: "Unauthorized"},
		{name: "quoted json", in: `"{\"errors\":[1]}"`, want: "{\n  \"errors\": [\n    1\n  ]\n}"},
		{name: "object keeps html", in: `{"detail":"<b>"}`, want: "{\n  \"detail\": \"<b>\"\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHTTPPayload([]byte(tt.in)); got != tt.want {
				t.Fatalf("FormatHTTPPayload(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatEventANSIIncludesBadgeAndFields(t *testing.T) {
	out := FormatEventANSI(Event{
		Time:    time.Now(),
		Level:   slog.LevelError,
		Message: "export failed",
		Fields:  map[string]any{"path": "/tmp/x", "detail": map[string]any{"code": 1}},
	})
	for _, want := range []string{"ERROR", "export failed", "path", "╭"} {
		if !strings.Contains(out, want) {
			t.Fatalf("FormatEventANSI() missing %q in %q", want, out)
		}
	}
}
