package analytics

// Default dosage factors
const (
	DefaultGramsPerBreadUnit   = 12.0
	DefaultInsulinPerBreadUnit = 1.0
)

// Dose is a meal bolus suggestion
type Dose struct {
	BreadUnits   float64
	InsulinUnits float64
}

// CalculateDose converts carbs into bread units and the matching insulin dose.
// Non-positive factors fall back to the defaults.
func CalculateDose(carbs, gramsPerBreadUnit, insulinPerBreadUnit float64) Dose {
	if carbs <= 0 {
		return Dose{}
	}
	if gramsPerBreadUnit <= 0 {
		gramsPerBreadUnit = DefaultGramsPerBreadUnit
	}
	if insulinPerBreadUnit <= 0 {
		insulinPerBreadUnit = DefaultInsulinPerBreadUnit
	}

	breadUnits := carbs / gramsPerBreadUnit
	return Dose{
		BreadUnits:   round2(breadUnits),
		InsulinUnits: round2(breadUnits * insulinPerBreadUnit),
	}
}
