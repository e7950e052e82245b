//go:build darwin

package config

import (
	"os"
	"path/filepath"
)

func DefaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Documents", "GPSLogger")
}
