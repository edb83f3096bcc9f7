package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// MaxHorizonDays bounds a single retention horizon.
const MaxHorizonDays = 365

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks the configuration for errors.
// Returns nil if valid, or ValidationErrors if invalid.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if cfg.DatabaseURL == "" {
		errs = append(errs, ValidationError{
			Field:   "DATABASE_URL",
			Message: "required",
		})
	}

	for _, d := range []struct {
		field string
		value string
	}{
		{"DB_OP_TIMEOUT", cfg.DBOpTimeoutStr},
		{"DB_CONN_MAX_LIFETIME", cfg.DBConnMaxLifetimeStr},
		{"DB_CONN_MAX_IDLE_TIME", cfg.DBConnMaxIdleTimeStr},
		{"HTTP_SHUTDOWN_TIMEOUT", cfg.HTTPShutdownTimeoutStr},
		{"KPI_CACHE_TTL", cfg.KPICacheTTLStr},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   d.field,
				Message: fmt.Sprintf("invalid duration: %v", err),
			})
		} else if parsed <= 0 {
			errs = append(errs, ValidationError{
				Field:   d.field,
				Message: "must be positive",
			})
		}
	}

	if cfg.RefreshSchedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(cfg.RefreshSchedule); err != nil {
			errs = append(errs, ValidationError{
				Field:   "REFRESH_SCHEDULE",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	if cfg.RefreshTimezone != "" {
		if _, err := time.LoadLocation(cfg.RefreshTimezone); err != nil {
			errs = append(errs, ValidationError{
				Field:   "REFRESH_TIMEZONE",
				Message: fmt.Sprintf("unknown timezone: %v", err),
			})
		}
	}

	horizons, err := ParseHorizons(cfg.RetentionHorizonsStr)
	if err != nil {
		errs = append(errs, ValidationError{
			Field:   "RETENTION_HORIZONS",
			Message: fmt.Sprintf("invalid day count list: %v", err),
		})
	} else {
		if len(horizons) == 0 {
			errs = append(errs, ValidationError{
				Field:   "RETENTION_HORIZONS",
				Message: "at least one horizon required",
			})
		}
		for _, h := range horizons {
			if h <= 0 || h > MaxHorizonDays {
				errs = append(errs, ValidationError{
					Field:   "RETENTION_HORIZONS",
					Message: fmt.Sprintf("horizon %d out of range [1, %d]", h, MaxHorizonDays),
				})
			}
		}
	}

	if cfg.ForecastHorizonDays <= 0 || cfg.ForecastHorizonDays > MaxHorizonDays {
		errs = append(errs, ValidationError{
			Field:   "FORECAST_HORIZON_DAYS",
			Message: fmt.Sprintf("must be in [1, %d], got %d", MaxHorizonDays, cfg.ForecastHorizonDays),
		})
	}

	if cfg.SummaryWindowDays <= 0 || cfg.SummaryWindowDays > MaxHorizonDays {
		errs = append(errs, ValidationError{
			Field:   "SUMMARY_WINDOW_DAYS",
			Message: fmt.Sprintf("must be in [1, %d], got %d", MaxHorizonDays, cfg.SummaryWindowDays),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
