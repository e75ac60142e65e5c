package analytics

// MarkerTier is the severity band of a long-term marker value
type MarkerTier string

const (
	TierOptimal  MarkerTier = "optimal"
	TierElevated MarkerTier = "elevated"
	TierHighRisk MarkerTier = "high-risk"
)

// MarkerStatus is a classified long-term marker
type MarkerStatus struct {
	Label string
	Tier  MarkerTier
}

// ProjectLongTermAverage converts a mean glucose (mmol/L) into a projected
// HbA1c percentage: (avg + 2.59) / 1.59, rounded to one decimal.
// Returns 0 when there is no data.
func ProjectLongTermAverage(avgGlucose float64) float64 {
	if avgGlucose <= 0 {
		return 0
	}
	return round1((avgGlucose + 2.59) / 1.59)
}

// ClassifyMarker places a marker value into its band. Each band includes its lower bound.
func ClassifyMarker(value float64) MarkerStatus {
	switch {
	case value < MarkerElevated:
		return MarkerStatus{Label: "Optimal", Tier: TierOptimal}
	case value < MarkerHighRisk:
		return MarkerStatus{Label: "Pre-diabetic", Tier: TierElevated}
	default:
		return MarkerStatus{Label: "Diabetic Range", Tier: TierHighRisk}
	}
}
