package analytics

import (
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

// Trend is the direction of change between two periods
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// ClassifyTrend compares the means of two periods. Missing data on either side is stable.
func ClassifyTrend(currentPeriod, previousPeriod []float64) Trend {
	if len(currentPeriod) == 0 || len(previousPeriod) == 0 {
		return TrendStable
	}

	diff := Mean(currentPeriod) - Mean(previousPeriod)
	switch {
	case diff > TrendBand:
		return TrendRising
	case diff < -TrendBand:
		return TrendFalling
	default:
		return TrendStable
	}
}

// SplitPeriods partitions readings into the window ending at now and the
// window before it. Intervals are (now-window, now] and (now-2*window, now-window].
func SplitPeriods(readings []domain.GlucoseReading, now time.Time, window time.Duration) (current, previous []float64) {
	currentStart := now.Add(-window)
	previousStart := currentStart.Add(-window)

	for _, r := range readings {
		switch {
		case r.Timestamp.After(now):
			continue
		case r.Timestamp.After(currentStart):
			current = append(current, r.Value)
		case r.Timestamp.After(previousStart):
			previous = append(previous, r.Value)
		}
	}
	return current, previous
}

// Values extracts the glucose values preserving order
func Values(readings []domain.GlucoseReading) []float64 {
	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		values = append(values, r.Value)
	}
	return values
}
