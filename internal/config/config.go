package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the dashboard service.
// Values are loaded from environment variables; see printUsage() for the full list.
type Config struct {
	DatabaseURL string `json:"database_url"`
	RedisAddr   string `json:"redis_addr,omitempty"`
	HTTPAddr    string `json:"http_addr"`

	DBOpTimeout    time.Duration `json:"-"`
	DBOpTimeoutStr string        `json:"db_op_timeout"`

	DBMaxOpenConns       int           `json:"db_max_open_conns"`
	DBMaxIdleConns       int           `json:"db_max_idle_conns"`
	DBConnMaxLifetime    time.Duration `json:"-"`
	DBConnMaxLifetimeStr string        `json:"db_conn_max_lifetime"`
	DBConnMaxIdleTime    time.Duration `json:"-"`
	DBConnMaxIdleTimeStr string        `json:"db_conn_max_idle_time"`

	HTTPShutdownTimeout    time.Duration `json:"-"`
	HTTPShutdownTimeoutStr string        `json:"http_shutdown_timeout"`

	MetricsEnabled bool   `json:"metrics_enabled"`
	MetricsPath    string `json:"metrics_path"`
	MetricsPort    string `json:"metrics_port"`

	// RefreshSchedule is a standard 5-field cron expression driving
	// snapshot reloads. Empty disables scheduled refresh (manual only).
	RefreshSchedule string `json:"refresh_schedule"`
	RefreshTimezone string `json:"refresh_timezone"`

	// SnapshotWindowDays bounds how far back the snapshot loader reads.
	SnapshotWindowDays int `json:"snapshot_window_days"`
	SnapshotRowLimit   int `json:"snapshot_row_limit"`

	// RetentionHorizons are the default D+n offsets for the cohort table.
	RetentionHorizons    []int  `json:"-"`
	RetentionHorizonsStr string `json:"retention_horizons"`

	ForecastHorizonDays int `json:"forecast_horizon_days"`
	SummaryWindowDays   int `json:"summary_window_days"`

	KPICacheTTL    time.Duration `json:"-"`
	KPICacheTTLStr string        `json:"kpi_cache_ttl"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	cfg := Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		HTTPAddr:               os.Getenv("HTTP_ADDR"),
		DBOpTimeoutStr:         os.Getenv("DB_OP_TIMEOUT"),
		DBConnMaxLifetimeStr:   os.Getenv("DB_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTimeStr:   os.Getenv("DB_CONN_MAX_IDLE_TIME"),
		HTTPShutdownTimeoutStr: os.Getenv("HTTP_SHUTDOWN_TIMEOUT"),
		MetricsEnabled:         os.Getenv("METRICS_ENABLED") == "true",
		MetricsPath:            os.Getenv("METRICS_PATH"),
		MetricsPort:            os.Getenv("METRICS_PORT"),
		RefreshSchedule:        os.Getenv("REFRESH_SCHEDULE"),
		RefreshTimezone:        os.Getenv("REFRESH_TIMEZONE"),
		RetentionHorizonsStr:   os.Getenv("RETENTION_HORIZONS"),
		KPICacheTTLStr:         os.Getenv("KPI_CACHE_TTL"),
	}

	cfg.DBMaxOpenConns = intFromEnv("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = intFromEnv("DB_MAX_IDLE_CONNS", 5)
	cfg.SnapshotWindowDays = intFromEnv("SNAPSHOT_WINDOW_DAYS", 365)
	cfg.SnapshotRowLimit = intFromEnv("SNAPSHOT_ROW_LIMIT", 100000)
	cfg.ForecastHorizonDays = intFromEnv("FORECAST_HORIZON_DAYS", 14)
	cfg.SummaryWindowDays = intFromEnv("SUMMARY_WINDOW_DAYS", 30)

	// Support Railway's PORT variable as fallback for HTTP_ADDR.
	if cfg.HTTPAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8080"
		}
	}
	if cfg.DBOpTimeoutStr == "" {
		cfg.DBOpTimeoutStr = "5s"
	}
	if cfg.DBConnMaxLifetimeStr == "" {
		cfg.DBConnMaxLifetimeStr = "30m"
	}
	if cfg.DBConnMaxIdleTimeStr == "" {
		cfg.DBConnMaxIdleTimeStr = "5m"
	}
	if cfg.HTTPShutdownTimeoutStr == "" {
		cfg.HTTPShutdownTimeoutStr = "10s"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.MetricsPort == "" {
		cfg.MetricsPort = "9090"
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "*/15 * * * *"
	}
	if cfg.RefreshTimezone == "" {
		cfg.RefreshTimezone = "UTC"
	}
	if cfg.RetentionHorizonsStr == "" {
		cfg.RetentionHorizonsStr = "7,14,30"
	}
	if cfg.KPICacheTTLStr == "" {
		cfg.KPICacheTTLStr = "24h"
	}

	// Parse durations and horizon lists; validation is handled
	// separately by Validate().
	if d, err := time.ParseDuration(cfg.DBOpTimeoutStr); err == nil {
		cfg.DBOpTimeout = d
	}
	if d, err := time.ParseDuration(cfg.DBConnMaxLifetimeStr); err == nil {
		cfg.DBConnMaxLifetime = d
	}
	if d, err := time.ParseDuration(cfg.DBConnMaxIdleTimeStr); err == nil {
		cfg.DBConnMaxIdleTime = d
	}
	if d, err := time.ParseDuration(cfg.HTTPShutdownTimeoutStr); err == nil {
		cfg.HTTPShutdownTimeout = d
	}
	if d, err := time.ParseDuration(cfg.KPICacheTTLStr); err == nil {
		cfg.KPICacheTTL = d
	}
	if horizons, err := ParseHorizons(cfg.RetentionHorizonsStr); err == nil {
		cfg.RetentionHorizons = horizons
	}

	return cfg
}

// intFromEnv reads a positive integer from the environment, falling back
// to def when unset or invalid.
func intFromEnv(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Printf("config: invalid %s %q (must be a positive integer), using default %d", key, s, def)
		return def
	}
	return n
}

// ParseHorizons parses a comma-separated list of day counts, e.g. "7,14,30".
func ParseHorizons(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	horizons := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		horizons = append(horizons, n)
	}
	return horizons, nil
}

// MaskedJSON returns the configuration as JSON with secrets masked.
func (c Config) MaskedJSON() ([]byte, error) {
	masked := struct {
		DatabaseURL         string `json:"database_url"`
		RedisAddr           string `json:"redis_addr,omitempty"`
		HTTPAddr            string `json:"http_addr"`
		DBOpTimeout         string `json:"db_op_timeout"`
		DBMaxOpenConns      int    `json:"db_max_open_conns"`
		DBMaxIdleConns      int    `json:"db_max_idle_conns"`
		DBConnMaxLifetime   string `json:"db_conn_max_lifetime"`
		DBConnMaxIdleTime   string `json:"db_conn_max_idle_time"`
		HTTPShutdownTimeout string `json:"http_shutdown_timeout"`
		MetricsEnabled      bool   `json:"metrics_enabled"`
		MetricsPath         string `json:"metrics_path"`
		MetricsPort         string `json:"metrics_port"`
		RefreshSchedule     string `json:"refresh_schedule"`
		RefreshTimezone     string `json:"refresh_timezone"`
		SnapshotWindowDays  int    `json:"snapshot_window_days"`
		SnapshotRowLimit    int    `json:"snapshot_row_limit"`
		RetentionHorizons   string `json:"retention_horizons"`
		ForecastHorizonDays int    `json:"forecast_horizon_days"`
		SummaryWindowDays   int    `json:"summary_window_days"`
		KPICacheTTL         string `json:"kpi_cache_ttl"`
	}{
		DatabaseURL:         maskSecret(c.DatabaseURL),
		RedisAddr:           c.RedisAddr,
		HTTPAddr:            c.HTTPAddr,
		DBOpTimeout:         c.DBOpTimeoutStr,
		DBMaxOpenConns:      c.DBMaxOpenConns,
		DBMaxIdleConns:      c.DBMaxIdleConns,
		DBConnMaxLifetime:   c.DBConnMaxLifetimeStr,
		DBConnMaxIdleTime:   c.DBConnMaxIdleTimeStr,
		HTTPShutdownTimeout: c.HTTPShutdownTimeoutStr,
		MetricsEnabled:      c.MetricsEnabled,
		MetricsPath:         c.MetricsPath,
		MetricsPort:         c.MetricsPort,
		RefreshSchedule:     c.RefreshSchedule,
		RefreshTimezone:     c.RefreshTimezone,
		SnapshotWindowDays:  c.SnapshotWindowDays,
		SnapshotRowLimit:    c.SnapshotRowLimit,
		RetentionHorizons:   c.RetentionHorizonsStr,
		ForecastHorizonDays: c.ForecastHorizonDays,
		SummaryWindowDays:   c.SummaryWindowDays,
		KPICacheTTL:         c.KPICacheTTLStr,
	}
	return json.MarshalIndent(masked, "", "  ")
}

// maskSecret masks a secret value, preserving only the URI scheme if present.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(s, scheme) {
			return scheme + "***"
		}
	}
	return "***"
}
