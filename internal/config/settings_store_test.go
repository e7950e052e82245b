package config

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestSettingsSaveLoadAndPath(t *testing.T) {
	root := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("AppData", root)
	} else {
		t.Setenv("XDG_CONFIG_HOME", root)
	}

	path, err := SettingsPath()
	if err != nil {
		t.Fatalf("SettingsPath() error = %v", err)
	}
	if want := filepath.Join(root, "gpslogger", "settings.json"); path != want {
		t.Fatalf("SettingsPath() = %q, want %q", path, want)
	}

	in := Settings{
		DataDir:   "/tmp/gps",
		Store:     StoreRedis,
		RedisAddr: "127.0.0.1:6379",
		ExportDir: "/tmp/exports",
		TownDB:    "/tmp/towns.sqlite",
		Debug:     true,
	}
	if err := SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	out, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if out != in {
		t.Fatalf("loaded settings = %#v, want %#v", out, in)
	}
}

func TestMergeOptionsWithSettings_PrefersCLI(t *testing.T) {
	merged := MergeOptionsWithSettings(
		Options{ExportDir: "/cli/exports", Store: StoreMemory},
		Settings{
			DataDir:   "/saved/data",
			Store:     StoreRedis,
			ExportDir: "/saved/exports",
			TownDB:    "/saved/towns.sqlite",
			Headless:  true,
			Debug:     true,
		},
	)
	if merged.ExportDir != "/cli/exports" || merged.Store != StoreMemory {
		t.Fatalf("CLI values should win: %#v", merged)
	}
	if merged.DataDir != "/saved/data" || merged.TownDB != "/saved/towns.sqlite" {
		t.Fatalf("saved paths should fill gaps: %#v", merged)
	}
	if !merged.Headless || !merged.Debug {
		t.Fatalf("bool flags should merge from saved when CLI false: %#v", merged)
	}

	roundTrip := SettingsFromOptions(merged)
	if roundTrip.DataDir != "/saved/data" || roundTrip.Store != StoreMemory {
		t.Fatalf("SettingsFromOptions() = %#v", roundTrip)
	}
}
