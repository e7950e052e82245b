package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const appDirName = "gpslogger"

// Settings are the launch preferences remembered between runs. Credentials
// and the debug flag live in the state store, not here.
type Settings struct {
	DataDir   string `json:"data_dir"`
	Store     string `json:"store,omitempty"`
	RedisAddr string `json:"redis_addr,omitempty"`
	ExportDir string `json:"export_dir"`
	TownDB    string `json:"town_db,omitempty"`
	FixFile   string `json:"fix_file,omitempty"`
	Headless  bool   `json:"headless"`
	Debug     bool   `json:"debug"`
}

func SettingsPath() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, appDirName, "settings.json"), nil
}

func LoadSettings() (Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func SaveSettings(settings Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// MergeOptionsWithSettings fills options the command line left empty from
// saved settings. It runs before ApplyDefaults so saved paths beat defaults.
func MergeOptionsWithSettings(cli Options, saved Settings) Options {
	if strings.TrimSpace(cli.DataDir) == "" {
		cli.DataDir = saved.DataDir
	}
	if strings.TrimSpace(cli.Store) == "" {
		cli.Store = saved.Store
	}
	if strings.TrimSpace(cli.RedisAddr) == "" {
		cli.RedisAddr = saved.RedisAddr
	}
	if strings.TrimSpace(cli.ExportDir) == "" {
		cli.ExportDir = saved.ExportDir
	}
	if strings.TrimSpace(cli.TownDB) == "" {
		cli.TownDB = saved.TownDB
	}
	if strings.TrimSpace(cli.FixFile) == "" {
		cli.FixFile = saved.FixFile
	}
	if !cli.Headless {
		cli.Headless = saved.Headless
	}
	if !cli.Debug {
		cli.Debug = saved.Debug
	}
	return cli
}

func SettingsFromOptions(opts Options) Settings {
	return Settings{
		DataDir:   strings.TrimSpace(opts.DataDir),
		Store:     strings.TrimSpace(opts.Store),
		RedisAddr: strings.TrimSpace(opts.RedisAddr),
		ExportDir: strings.TrimSpace(opts.ExportDir),
		TownDB:    strings.TrimSpace(opts.TownDB),
		FixFile:   strings.TrimSpace(opts.FixFile),
		Headless:  opts.Headless,
		Debug:     opts.Debug,
	}
}
