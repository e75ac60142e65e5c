package analytics

import "math"

// RangeDistribution holds time-in-range percentages. Each bucket is rounded
// on its own, so the three values may not add up to exactly 100.
type RangeDistribution struct {
	Low     int
	InRange int
	High    int
}

// ComputeRangeDistribution buckets values into low (<4.0), in range
// (4.0..8.5 inclusive) and high (>8.5).
func ComputeRangeDistribution(values []float64) RangeDistribution {
	if len(values) == 0 {
		return RangeDistribution{}
	}

	var low, inRange, high int
	for _, v := range values {
		switch {
		case v < RangeLow:
			low++
		case v > RangeHigh:
			high++
		default:
			inRange++
		}
	}

	total := float64(len(values))
	return RangeDistribution{
		Low:     percent(low, total),
		InRange: percent(inRange, total),
		High:    percent(high, total),
	}
}

func percent(count int, total float64) int {
	return int(math.Round(float64(count) / total * 100))
}
