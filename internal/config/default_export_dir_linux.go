//go:build linux

package config

import (
	"os"
	"path/filepath"
	"strings"
)

func DefaultExportDir() string {
	if docs := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); docs != "" {
		return filepath.Join(docs, "gpslogger")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents", "gpslogger")
}
