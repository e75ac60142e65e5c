// Package analytics turns raw health records into derived metrics.
// All functions are pure and total: degenerate input yields neutral values.
package analytics

import "math"

// Glucose thresholds in mmol/L
const (
	RangeLow  = 4.0
	RangeHigh = 8.5

	// TrendBand is the noise-rejection band for period-over-period trends
	TrendBand = 0.5

	// CorrelationWindowMinutes bounds how long after a meal a reading still counts
	CorrelationWindowMinutes = 120
)

// Long-term marker bands (%)
const (
	MarkerElevated = 5.7
	MarkerHighRisk = 6.5
)

// Forecast thresholds in mmol/L and mmol/L per hour
const (
	forecastApproaching  = 4.4
	forecastCritical     = 3.9
	forecastRapidFall    = -2.0
	forecastRapidFallCap = 6.0
	forecastElevated     = 11.0
)

// MmolToMgDL is the conversion factor between glucose units
const MmolToMgDL = 18.0182

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds v to one decimal place
func Round1(v float64) float64 {
	return round1(v)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
