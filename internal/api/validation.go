package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Mash24/Job-Connect-sub000/internal/analytics"
	"github.com/Mash24/Job-Connect-sub000/internal/dashboard"
)

const (
	maxHorizons    = 10
	maxHorizonDays = 365
	maxForecastDay = 365
	maxWindowDays  = 365
)

// parseGranularityParam validates the granularity query parameter, falling
// back to the given default when the parameter is absent.
func parseGranularityParam(raw string, fallback analytics.Granularity) (analytics.Granularity, error) {
	if raw == "" {
		return fallback, nil
	}
	return analytics.ParseGranularity(raw)
}

// parseHorizonsParam parses a comma-separated list of retention horizons.
// An empty parameter yields the configured defaults.
func parseHorizonsParam(raw string, fallback []int) ([]int, error) {
	if raw == "" {
		return fallback, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) > maxHorizons {
		return nil, fmt.Errorf("too many horizons: %d (max %d)", len(parts), maxHorizons)
	}
	horizons := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid horizon %q", part)
		}
		if n < 1 || n > maxHorizonDays {
			return nil, fmt.Errorf("horizon %d out of range (1..%d)", n, maxHorizonDays)
		}
		horizons = append(horizons, n)
	}
	return horizons, nil
}

func parseCollectionParam(raw string) (dashboard.Collection, error) {
	if raw == "" {
		return "", fmt.Errorf("collection is required")
	}
	return dashboard.ParseCollection(raw)
}

// parseDaysParam validates an integer day-count parameter within 1..max.
// Zero raw means the caller's default applies.
func parseDaysParam(raw string, name string, fallback, max int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if n < 1 || n > max {
		return 0, fmt.Errorf("%s %d out of range (1..%d)", name, n, max)
	}
	return n, nil
}
