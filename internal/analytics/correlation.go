package analytics

import (
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

// MealCorrelation pairs a meal with the first glucose reading after it
type MealCorrelation struct {
	Meal        domain.MealEntry
	PostGlucose float64
	ReadingAt   time.Time
}

// CorrelateMeals finds, for each meal, the earliest reading strictly after
// the meal and at most 120 minutes later. Meals without such a reading are
// dropped. Output keeps the input meal order.
func CorrelateMeals(meals []domain.MealEntry, readings []domain.GlucoseReading) []MealCorrelation {
	window := CorrelationWindowMinutes * time.Minute
	result := make([]MealCorrelation, 0, len(meals))

	for _, meal := range meals {
		var best *domain.GlucoseReading
		for i := range readings {
			delta := readings[i].Timestamp.Sub(meal.Timestamp)
			if delta <= 0 || delta > window {
				continue
			}
			if best == nil || readings[i].Timestamp.Before(best.Timestamp) {
				best = &readings[i]
			}
		}
		if best == nil {
			continue
		}
		result = append(result, MealCorrelation{
			Meal:        meal,
			PostGlucose: best.Value,
			ReadingAt:   best.Timestamp,
		})
	}

	return result
}
