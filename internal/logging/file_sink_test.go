package logging

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultLogDirPathSuffix(t *testing.T) {
	path, err := DefaultLogDirPath()
	if err != nil {
		t.Fatalf("DefaultLogDirPath() error = %v", err)
	}
	if want := filepath.Join("gpslogger", "logs"); !strings.HasSuffix(path, want) {
		t.Fatalf("DefaultLogDirPath() = %q, want suffix %q", path, want)
	}
}

func TestFileSinkWritesJSONLAndRotates(t *testing.T) {
	tmp := t.TempDir()
	sink, err := openFileSink(tmp, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), 180)
	if err != nil {
		t.Fatalf("openFileSink() error = %v", err)
	}

	event := Event{
		Time:    time.Unix(1700000000, 0),
		Level:   slog.LevelInfo,
		Message: "location appended",
		Fields: map[string]any{
			"latitude":  35.0,
			"longitude": 139.0,
			"error":     errors.New("gps timeout"),
		},
	}
	for i := 0; i < 5; i++ {
		if err := sink.WriteEvent(event); err != nil {
			t.Fatalf("WriteEvent() error = %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.WriteEvent(event); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("WriteEvent() after close error = %v, want os.ErrClosed", err)
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected rotation to create multiple files, got %d", len(entries))
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "gpslogger-20261017-090000-") {
			t.Fatalf("unexpected log filename %q", entry.Name())
		}
		data, err := os.ReadFile(filepath.Join(tmp, entry.Name()))
		if err != nil {
			t.Fatalf("ReadFile(%q) error = %v", entry.Name(), err)
		}
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			var decoded jsonLogLine
			if err := json.Unmarshal([]byte(line), &decoded); err != nil {
				t.Fatalf("invalid json line %q: %v", line, err)
			}
			if decoded.Level != "INFO" || decoded.Fields["error"] != "gps timeout" {
				t.Fatalf("decoded line = %#v", decoded)
			}
		}
	}
}

func TestLoggerCloseStopsFilePersistence(t *testing.T) {
	tmp := t.TempDir()
	logger := NewDiscard()
	sink, err := openFileSink(tmp, time.Now(), 1024)
	if err != nil {
		t.Fatalf("openFileSink() error = %v", err)
	}
	logger.fileSink = sink

	logger.Info("before close")
	logger.Debug("hidden debug still persisted")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	logger.Info("after close")

	entries, err := os.ReadDir(tmp)
	if err != nil || len(entries) == 0 {
		t.Fatalf("ReadDir() = %v, %v", entries, err)
	}
	content, err := os.ReadFile(filepath.Join(tmp, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "before close") || !strings.Contains(text, "hidden debug still persisted") {
		t.Fatalf("expected pre-close events in log content, got %q", text)
	}
	if strings.Contains(text, "after close") {
		t.Fatalf("did not expect post-close event in log content")
	}
}
