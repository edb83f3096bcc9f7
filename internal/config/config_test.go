package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"DATABASE_URL", "REDIS_ADDR", "HTTP_ADDR", "PORT",
	"DB_OP_TIMEOUT", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
	"DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME",
	"HTTP_SHUTDOWN_TIMEOUT", "METRICS_ENABLED", "METRICS_PATH", "METRICS_PORT",
	"REFRESH_SCHEDULE", "REFRESH_TIMEZONE",
	"SNAPSHOT_WINDOW_DAYS", "SNAPSHOT_ROW_LIMIT",
	"RETENTION_HORIZONS", "FORECAST_HORIZON_DAYS", "SUMMARY_WINDOW_DAYS",
	"KPI_CACHE_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr: expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.DBOpTimeout != 5*time.Second {
		t.Errorf("DBOpTimeout: expected 5s, got %v", cfg.DBOpTimeout)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Errorf("DBMaxOpenConns: expected 25, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns != 5 {
		t.Errorf("DBMaxIdleConns: expected 5, got %d", cfg.DBMaxIdleConns)
	}
	if cfg.HTTPShutdownTimeout != 10*time.Second {
		t.Errorf("HTTPShutdownTimeout: expected 10s, got %v", cfg.HTTPShutdownTimeout)
	}
	if cfg.RefreshSchedule != "*/15 * * * *" {
		t.Errorf("RefreshSchedule: expected */15 * * * *, got %s", cfg.RefreshSchedule)
	}
	if !reflect.DeepEqual(cfg.RetentionHorizons, []int{7, 14, 30}) {
		t.Errorf("RetentionHorizons: expected [7 14 30], got %v", cfg.RetentionHorizons)
	}
	if cfg.ForecastHorizonDays != 14 {
		t.Errorf("ForecastHorizonDays: expected 14, got %d", cfg.ForecastHorizonDays)
	}
	if cfg.SummaryWindowDays != 30 {
		t.Errorf("SummaryWindowDays: expected 30, got %d", cfg.SummaryWindowDays)
	}
	if cfg.SnapshotWindowDays != 365 {
		t.Errorf("SnapshotWindowDays: expected 365, got %d", cfg.SnapshotWindowDays)
	}
	if cfg.KPICacheTTL != 24*time.Hour {
		t.Errorf("KPICacheTTL: expected 24h, got %v", cfg.KPICacheTTL)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	os.Setenv("DB_OP_TIMEOUT", "10s")
	os.Setenv("RETENTION_HORIZONS", "1, 7,90")
	os.Setenv("REFRESH_SCHEDULE", "0 * * * *")
	os.Setenv("SUMMARY_WINDOW_DAYS", "14")
	defer clearEnv(t)

	cfg := Load()

	if cfg.DBOpTimeout != 10*time.Second {
		t.Errorf("DBOpTimeout: expected 10s, got %v", cfg.DBOpTimeout)
	}
	if !reflect.DeepEqual(cfg.RetentionHorizons, []int{1, 7, 90}) {
		t.Errorf("RetentionHorizons: expected [1 7 90], got %v", cfg.RetentionHorizons)
	}
	if cfg.RefreshSchedule != "0 * * * *" {
		t.Errorf("RefreshSchedule: expected 0 * * * *, got %s", cfg.RefreshSchedule)
	}
	if cfg.SummaryWindowDays != 14 {
		t.Errorf("SummaryWindowDays: expected 14, got %d", cfg.SummaryWindowDays)
	}
}

func TestLoad_PortFallback(t *testing.T) {
	clearEnv(t)
	os.Setenv("PORT", "3000")
	defer clearEnv(t)

	cfg := Load()
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr: expected :3000, got %s", cfg.HTTPAddr)
	}
}

func TestMaskedJSON_MasksDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://user:secret@db:5432/jobconnect"}

	out, err := cfg.MaskedJSON()
	if err != nil {
		t.Fatalf("MaskedJSON failed: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "secret") {
		t.Error("masked output leaks the database password")
	}
	if !strings.Contains(s, "postgres://***") {
		t.Errorf("expected masked scheme, got %s", s)
	}
}

func validConfig(t *testing.T) Config {
	t.Helper()
	clearEnv(t)
	cfg := Load()
	cfg.DatabaseURL = "postgres://localhost/jobconnect"
	return cfg
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(validConfig(t)); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.DatabaseURL = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestValidate_BadSchedule(t *testing.T) {
	cfg := validConfig(t)
	cfg.RefreshSchedule = "not a cron expression"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for invalid REFRESH_SCHEDULE")
	}
}

func TestValidate_BadHorizons(t *testing.T) {
	cfg := validConfig(t)
	cfg.RetentionHorizonsStr = "7,abc"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for non-numeric horizon")
	}

	cfg = validConfig(t)
	cfg.RetentionHorizonsStr = "0"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero horizon")
	}

	cfg = validConfig(t)
	cfg.RetentionHorizonsStr = "400"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for horizon above the cap")
	}
}

func TestValidate_BadDuration(t *testing.T) {
	cfg := validConfig(t)
	cfg.DBOpTimeoutStr = "soon"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for invalid duration")
	}

	cfg = validConfig(t)
	cfg.DBOpTimeoutStr = "-5s"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.DatabaseURL = ""
	cfg.RefreshSchedule = "bogus"
	cfg.ForecastHorizonDays = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected errors")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verrs), verrs)
	}
}
