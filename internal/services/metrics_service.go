package services

import (
	"context"
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/metrics"
	"github.com/vladimiradmaev/diabetes-care/internal/utils"
)

const (
	// TrendWindow is the length of each period compared by the trend
	TrendWindow = 14 * 24 * time.Hour

	topSymptoms = 5
)

// Report is every derived metric for one user at one moment
type Report struct {
	GeneratedAt    time.Time
	ReadingCount   int
	LatestGlucose  *domain.GlucoseReading
	AverageGlucose float64
	Marker         float64
	MarkerStatus   analytics.MarkerStatus
	Trend          analytics.Trend
	Ranges         analytics.RangeDistribution
	Correlations   []analytics.MealCorrelation
	Forecast       analytics.ForecastResult
	CarbsToday     float64
	InsulinToday   float64
	Symptoms       []analytics.SymptomCount
}

// MetricsService recomputes derived metrics from the entry store on every call
type MetricsService struct {
	store   domain.EntryStore
	clock   domain.Clock
	metrics *metrics.Metrics
}

func NewMetricsService(store domain.EntryStore, clock domain.Clock, m *metrics.Metrics) *MetricsService {
	if m == nil {
		m = metrics.NewNop()
	}
	return &MetricsService{store: store, clock: clock, metrics: m}
}

// Forecast projects the user's glucose one hour ahead
func (s *MetricsService) Forecast(ctx context.Context, userID string) (analytics.ForecastResult, error) {
	readings, err := s.store.GlucoseReadings(ctx, userID)
	if err != nil {
		return analytics.ForecastResult{}, err
	}
	result := analytics.Forecast(readings)
	s.metrics.Forecasts.WithLabelValues(string(result.RiskLevel)).Inc()
	return result, nil
}

func (s *MetricsService) Report(ctx context.Context, userID string) (*Report, error) {
	readings, err := s.store.GlucoseReadings(ctx, userID)
	if err != nil {
		return nil, err
	}
	meals, err := s.store.Meals(ctx, userID)
	if err != nil {
		return nil, err
	}
	symptoms, err := s.store.Symptoms(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	values := analytics.Values(readings)
	avg := analytics.Mean(values)
	marker := analytics.ProjectLongTermAverage(avg)
	current, previous := analytics.SplitPeriods(readings, now, TrendWindow)

	report := &Report{
		GeneratedAt:    now,
		ReadingCount:   len(readings),
		AverageGlucose: analytics.Round1(avg),
		Marker:         marker,
		MarkerStatus:   analytics.ClassifyMarker(marker),
		Trend:          analytics.ClassifyTrend(current, previous),
		Ranges:         analytics.ComputeRangeDistribution(values),
		Correlations:   analytics.CorrelateMeals(meals, readings),
		Forecast:       analytics.Forecast(readings),
		Symptoms:       analytics.SymptomDistribution(symptoms, topSymptoms),
	}
	if len(readings) > 0 {
		latest := readings[0]
		report.LatestGlucose = &latest
	}

	today := utils.StartOfDay(now)
	for _, m := range meals {
		if m.Timestamp.Before(today) {
			continue
		}
		report.CarbsToday += m.Carbs
		report.InsulinToday += m.InsulinUnits
	}
	report.CarbsToday = analytics.Round1(report.CarbsToday)
	report.InsulinToday = analytics.Round1(report.InsulinToday)

	s.metrics.Forecasts.WithLabelValues(string(report.Forecast.RiskLevel)).Inc()
	return report, nil
}
