package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

const (
	StoreBolt   = "bolt"
	StoreRedis  = "redis"
	StoreMemory = "memory"

	DefaultPostURL      = "https://api.twitter.com/1.1/statuses/update.json"
	DefaultPollInterval = 3 * time.Second
	DefaultMaxEntries   = 1000
)

type Options struct {
	DataDir      string        `long:"data-dir" env:"GPSLOGGER_DATA_DIR" description:"Directory holding the persisted state database"`
	Store        string        `long:"store" env:"GPSLOGGER_STORE" choice:"bolt" choice:"redis" choice:"memory" description:"State store backend (default: bolt)"`
	RedisAddr    string        `long:"redis-addr" env:"GPSLOGGER_REDIS_ADDR" description:"Redis address (host:port) for --store=redis"`
	ExportDir    string        `long:"export-dir" env:"GPSLOGGER_EXPORT_DIR" description:"Directory receiving exported log files"`
	TownDB       string        `long:"town-db" env:"GPSLOGGER_TOWN_DB" description:"SQLite database used to resolve town names"`
	FixFile      string        `long:"fix-file" env:"GPSLOGGER_FIX_FILE" description:"File to tail for GPS fixes (lat,lon or NMEA RMC lines)"`
	PostURL      string        `long:"post-url" env:"GPSLOGGER_POST_URL" description:"Status update endpoint used when posting the location"`
	PollInterval time.Duration `long:"poll-interval" env:"GPSLOGGER_POLL_INTERVAL" default:"3s" description:"Log view refresh interval"`
	MaxEntries   int           `long:"max-entries" env:"GPSLOGGER_MAX_ENTRIES" default:"1000" description:"Maximum number of log entries kept by the tracker"`
	MetricsAddr  string        `long:"metrics-addr" env:"GPSLOGGER_METRICS_ADDR" description:"Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)"`
	Headless     bool          `long:"headless" env:"GPSLOGGER_HEADLESS" description:"Run the terminal front end instead of the desktop window"`
	Debug        bool          `long:"debug" env:"GPSLOGGER_DEBUG" description:"Enable verbose debug output"`
}

func ParseOptions() (Options, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs reads flags and environment only. Callers merge saved settings
// and then call ApplyDefaults.
func ParseArgs(args []string) (Options, error) {
	_ = godotenv.Load()
	opts := Options{}
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ApplyDefaults fills unset paths and limits. Explicit values are kept.
func ApplyDefaults(opts Options) Options {
	if strings.TrimSpace(opts.Store) == "" {
		opts.Store = StoreBolt
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = DefaultDataDir()
	}
	if strings.TrimSpace(opts.ExportDir) == "" {
		opts.ExportDir = DefaultExportDir()
	}
	if strings.TrimSpace(opts.PostURL) == "" {
		opts.PostURL = DefaultPostURL
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxEntries == 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	return opts
}

func Validate(opts Options) error {
	switch opts.Store {
	case StoreBolt:
		if strings.TrimSpace(opts.DataDir) == "" {
			return errors.New("data directory is required for the bolt store")
		}
	case StoreRedis:
		if strings.TrimSpace(opts.RedisAddr) == "" {
			return errors.New("redis address is required for the redis store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", opts.Store)
	}
	if strings.TrimSpace(opts.ExportDir) == "" {
		return errors.New("export directory is required")
	}
	if opts.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if opts.MaxEntries <= 0 {
		return errors.New("max entries must be positive")
	}
	if err := validateHTTPURL(opts.PostURL); err != nil {
		return fmt.Errorf("post URL: %w", err)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("expected absolute URL like https://example.com")
	}
	if !strings.EqualFold(parsed.Scheme, "http") && !strings.EqualFold(parsed.Scheme, "https") {
		return errors.New("scheme must be http or https")
	}
	return nil
}

func DefaultDataDir() string {
	root, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(root, appDirName)
}

// BoltPath is the state database location inside the data directory.
func BoltPath(opts Options) string {
	return filepath.Join(opts.DataDir, "state.db")
}
