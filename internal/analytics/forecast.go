package analytics

import (
	"math"

	"github.com/Mash24/Job-Connect-sub000/internal/domain"
)

// TrendOf fits an ordinary-least-squares line over the series indices
// (x = 0..n-1, y = count). Fewer than two points cannot anchor a slope;
// the trend degrades to a flat line through the mean.
func TrendOf(series []domain.SeriesPoint) domain.Trend {
	n := len(series)
	if n == 0 {
		return domain.Trend{}
	}

	var sumY float64
	for _, p := range series {
		sumY += float64(p.Count)
	}
	meanY := sumY / float64(n)
	if n < 2 {
		return domain.Trend{Intercept: meanY}
	}

	meanX := float64(n-1) / 2
	var num, den float64
	for i, p := range series {
		dx := float64(i) - meanX
		num += dx * (float64(p.Count) - meanY)
		den += dx * dx
	}
	if den == 0 {
		return domain.Trend{Intercept: meanY}
	}

	slope := num / den
	return domain.Trend{Slope: slope, Intercept: meanY - slope*meanX}
}

// Forecast appends horizonDays projected points to a daily series.
// Historical points are copied untouched; projections continue the
// fitted line, rounded and clamped at zero since a negative count is
// meaningless. Each projected point is dated one calendar day after the
// previous one and flagged Forecast.
func Forecast(series []domain.SeriesPoint, horizonDays int) []domain.SeriesPoint {
	if len(series) == 0 || horizonDays <= 0 {
		out := make([]domain.SeriesPoint, len(series))
		copy(out, series)
		return out
	}

	out := make([]domain.SeriesPoint, len(series), len(series)+horizonDays)
	copy(out, series)

	trend := TrendOf(series)
	n := len(series)
	last := series[n-1].Date

	for i := 1; i <= horizonDays; i++ {
		x := float64(n + i - 1)
		v := math.Round(trend.Slope*x + trend.Intercept)
		if v < 0 {
			v = 0
		}
		out = append(out, domain.SeriesPoint{
			Date:     last.AddDate(0, 0, i),
			Count:    int(v),
			Forecast: true,
		})
	}
	return out
}

// ProjectedGrowth compares the mean of the forecast segment against the
// mean of the historical segment, as a percentage of the historical
// mean. Returns 0 when either segment is empty or the historical mean
// is 0, never NaN or Inf.
func ProjectedGrowth(extended []domain.SeriesPoint) float64 {
	var histSum, fcSum float64
	var histN, fcN int
	for _, p := range extended {
		if p.Forecast {
			fcSum += float64(p.Count)
			fcN++
		} else {
			histSum += float64(p.Count)
			histN++
		}
	}
	if histN == 0 || fcN == 0 {
		return 0
	}
	histAvg := histSum / float64(histN)
	if histAvg == 0 {
		return 0
	}
	return (fcSum/float64(fcN) - histAvg) / histAvg * 100
}

// TotalProjected sums the forecast segment of an extended series.
func TotalProjected(extended []domain.SeriesPoint) int {
	total := 0
	for _, p := range extended {
		if p.Forecast {
			total += p.Count
		}
	}
	return total
}
