package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
	"github.com/vladimiradmaev/diabetes-care/internal/metrics"
)

// Plausibility limits for user input
const (
	MaxGlucose     = 50.0 // mmol/L
	MaxCarbs       = 500.0
	MaxSeverity    = 5
	MinSeverity    = 1
	MaxWeight      = 500.0
	MaxSleepHours  = 24.0
	MaxWaterLiters = 20.0
)

// EntryService validates and appends health records, then announces them on the feed
type EntryService struct {
	store   domain.EntryStore
	feed    domain.EntryFeed
	clock   domain.Clock
	metrics *metrics.Metrics
}

func NewEntryService(store domain.EntryStore, feed domain.EntryFeed, clock domain.Clock, m *metrics.Metrics) *EntryService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &EntryService{store: store, feed: feed, clock: clock, metrics: m}
}

// finite rejects NaN and infinities, which slip past range comparisons
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s *EntryService) announce(ctx context.Context, userID string, kind domain.EntryKind) {
	s.metrics.EntriesLogged.WithLabelValues(string(kind)).Inc()
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, domain.EntryEvent{UserID: userID, Kind: kind}); err != nil {
		// the record is stored; subscribers catch up on the next change
		logger.Warn("Failed to publish entry event", "user_id", userID, "kind", kind, "error", err)
	}
}

func (s *EntryService) LogGlucose(ctx context.Context, userID string, value float64, readingCtx domain.GlucoseContext) (*domain.GlucoseReading, error) {
	if !finite(value) || value <= 0 || value > MaxGlucose {
		return nil, errors.NewValidationError(fmt.Sprintf("glucose must be between 0 and %.0f mmol/L", MaxGlucose)).
			WithContext("value", value)
	}
	if readingCtx == "" {
		readingCtx = domain.ContextFasting
	}
	if !readingCtx.Valid() {
		return nil, errors.NewValidationError("unknown reading context").WithContext("context", readingCtx)
	}

	reading := &domain.GlucoseReading{
		UserID:    userID,
		Value:     value,
		Context:   readingCtx,
		Timestamp: s.clock.Now(),
	}
	if err := s.store.AppendGlucose(ctx, reading); err != nil {
		return nil, err
	}

	s.announce(ctx, userID, domain.KindGlucose)
	return reading, nil
}

// LogMeal stores carbs together with the bolus computed from the given
// factors. Non-positive factors use the defaults.
func (s *EntryService) LogMeal(ctx context.Context, userID string, carbs, gramsPerBreadUnit, insulinPerBreadUnit float64) (*domain.MealEntry, error) {
	if !finite(gramsPerBreadUnit, insulinPerBreadUnit) {
		return nil, errors.NewValidationError("dose factors must be numbers").
			WithContext("grams_per_bu", gramsPerBreadUnit).
			WithContext("insulin_per_bu", insulinPerBreadUnit)
	}
	if !finite(carbs) || carbs <= 0 || carbs > MaxCarbs {
		return nil, errors.NewValidationError(fmt.Sprintf("carbs must be between 0 and %.0f g", MaxCarbs)).
			WithContext("carbs", carbs)
	}

	dose := analytics.CalculateDose(carbs, gramsPerBreadUnit, insulinPerBreadUnit)
	meal := &domain.MealEntry{
		UserID:       userID,
		Carbs:        carbs,
		BreadUnits:   dose.BreadUnits,
		InsulinUnits: dose.InsulinUnits,
		Timestamp:    s.clock.Now(),
	}
	if err := s.store.AppendMeal(ctx, meal); err != nil {
		return nil, err
	}

	s.announce(ctx, userID, domain.KindMeal)
	return meal, nil
}

func (s *EntryService) LogSymptoms(ctx context.Context, userID string, names []string, severity int) (*domain.SymptomEntry, error) {
	cleaned := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		cleaned = append(cleaned, n)
	}
	if len(cleaned) == 0 {
		return nil, errors.NewValidationError("at least one symptom is required")
	}
	if severity < MinSeverity || severity > MaxSeverity {
		return nil, errors.NewValidationError(fmt.Sprintf("severity must be between %d and %d", MinSeverity, MaxSeverity)).
			WithContext("severity", severity)
	}

	entry := &domain.SymptomEntry{
		UserID:    userID,
		Names:     cleaned,
		Severity:  severity,
		Timestamp: s.clock.Now(),
	}
	if err := s.store.AppendSymptom(ctx, entry); err != nil {
		return nil, err
	}

	s.announce(ctx, userID, domain.KindSymptom)
	return entry, nil
}

func (s *EntryService) LogWellness(ctx context.Context, userID string, weight, sleepHours, waterLiters float64) (*domain.WellnessEntry, error) {
	switch {
	case !finite(weight, sleepHours, waterLiters):
		return nil, errors.NewValidationError("wellness values must be numbers")
	case weight < 0 || weight > MaxWeight:
		return nil, errors.NewValidationError("weight is out of range").WithContext("weight", weight)
	case sleepHours < 0 || sleepHours > MaxSleepHours:
		return nil, errors.NewValidationError("sleep hours must be between 0 and 24").WithContext("sleep", sleepHours)
	case waterLiters < 0 || waterLiters > MaxWaterLiters:
		return nil, errors.NewValidationError("water intake is out of range").WithContext("water", waterLiters)
	case weight == 0 && sleepHours == 0 && waterLiters == 0:
		return nil, errors.NewValidationError("nothing to record")
	}

	entry := &domain.WellnessEntry{
		UserID:      userID,
		Weight:      weight,
		SleepHours:  sleepHours,
		WaterLiters: waterLiters,
		Timestamp:   s.clock.Now(),
	}
	if err := s.store.AppendWellness(ctx, entry); err != nil {
		return nil, err
	}

	s.announce(ctx, userID, domain.KindWellness)
	return entry, nil
}
