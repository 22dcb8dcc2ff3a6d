package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreDriverSheets   = "sheets"
	StoreDriverPostgres = "postgres"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	StoreDriver      string
	SheetsAddress    string
	SheetName        string
	DatabaseURI      string
	StoreTimeout     time.Duration
	MonitorInterval  time.Duration
	RefreshInterval  time.Duration
	ShutdownTimeout  time.Duration
	DefaultActor     string
	TimeZone         string
	Location         *time.Location
	SyncErrorHistory int
	AlertHistory     int
	AMQPURL          string
	AlertExchange    string
	LogLevel         slog.Level
}

const (
	defaultRunAddress       = ":8080"
	defaultStoreDriver      = StoreDriverSheets
	defaultSheetName        = "Orders"
	defaultStoreTimeout     = 10 * time.Second
	defaultMonitorInterval  = 60 * time.Second
	defaultRefreshInterval  = 5 * time.Minute
	defaultShutdownTimeout  = 10 * time.Second
	defaultActor            = "system"
	defaultTimeZone         = "Local"
	defaultSyncErrorHistory = 20
	defaultAlertHistory     = 100
	defaultAlertExchange    = "sla_alerts"
	defaultLogLevel         = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StoreDriver:      getString(lookup, "STORE_DRIVER", defaultStoreDriver),
		SheetsAddress:    getString(lookup, "SHEETS_ADDRESS", ""),
		SheetName:        getString(lookup, "SHEET_NAME", defaultSheetName),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		StoreTimeout:     getDuration(lookup, "STORE_TIMEOUT", defaultStoreTimeout),
		MonitorInterval:  getDuration(lookup, "SLA_MONITOR_INTERVAL", defaultMonitorInterval),
		RefreshInterval:  getDuration(lookup, "REFRESH_INTERVAL", defaultRefreshInterval),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		DefaultActor:     getString(lookup, "DEFAULT_ACTOR", defaultActor),
		TimeZone:         getString(lookup, "TIME_ZONE", defaultTimeZone),
		SyncErrorHistory: getInt(lookup, "SYNC_ERROR_HISTORY", defaultSyncErrorHistory),
		AlertHistory:     getInt(lookup, "ALERT_HISTORY", defaultAlertHistory),
		AMQPURL:          getString(lookup, "AMQP_URL", ""),
		AlertExchange:    getString(lookup, "ALERT_EXCHANGE", defaultAlertExchange),
	}

	fs := flag.NewFlagSet("slatracker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		storeTimeoutStr    = cfg.StoreTimeout.String()
		monitorIntervalStr = cfg.MonitorInterval.String()
		refreshIntervalStr = cfg.RefreshInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Order store driver: sheets or postgres")
	fs.StringVar(&cfg.SheetsAddress, "s", cfg.SheetsAddress, "Sheets values API base URL")
	fs.StringVar(&cfg.SheetName, "sheet", cfg.SheetName, "Name of the order sheet")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&storeTimeoutStr, "store-timeout", storeTimeoutStr, "Timeout of a single pull or push")
	fs.StringVar(&monitorIntervalStr, "monitor-interval", monitorIntervalStr, "Interval between SLA monitor scans")
	fs.StringVar(&refreshIntervalStr, "refresh-interval", refreshIntervalStr, "Interval between background reloads")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.DefaultActor, "actor", cfg.DefaultActor, "Actor recorded when a request names none")
	fs.StringVar(&cfg.TimeZone, "tz", cfg.TimeZone, "Time zone for zone-less timestamps and day windows")
	fs.IntVar(&cfg.SyncErrorHistory, "sync-errors", cfg.SyncErrorHistory, "Number of sync errors kept")
	fs.IntVar(&cfg.AlertHistory, "alert-history", cfg.AlertHistory, "Number of alerts kept")
	fs.StringVar(&cfg.AMQPURL, "amqp", cfg.AMQPURL, "RabbitMQ URL for alert publishing")
	fs.StringVar(&cfg.AlertExchange, "alert-exchange", cfg.AlertExchange, "Exchange receiving alerts")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.StoreTimeout, err = time.ParseDuration(storeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}

	if cfg.MonitorInterval, err = time.ParseDuration(monitorIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid monitor interval: %w", err)
	}

	if cfg.RefreshInterval, err = time.ParseDuration(refreshIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid refresh interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = defaultMonitorInterval
	}

	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.SyncErrorHistory <= 0 {
		cfg.SyncErrorHistory = defaultSyncErrorHistory
	}

	if cfg.AlertHistory <= 0 {
		cfg.AlertHistory = defaultAlertHistory
	}

	if strings.TrimSpace(cfg.DefaultActor) == "" {
		cfg.DefaultActor = defaultActor
	}

	if cfg.SheetName == "" {
		cfg.SheetName = defaultSheetName
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreDriverSheets:
		if cfg.SheetsAddress == "" {
			return nil, fmt.Errorf("sheets address must be provided")
		}
	case StoreDriverPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided")
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
