package services

import (
	"context"
	stderrors "errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/metrics"
	"github.com/vladimiradmaev/diabetes-care/internal/repository"
)

var testNow = time.Date(2026, 5, 4, 12, 30, 0, 0, time.UTC)

func newEntryFixture(t *testing.T) (*EntryService, *memoryEntries, <-chan domain.EntryEvent, *metrics.Metrics) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	feed := repository.NewMemoryFeed()
	events, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	store := &memoryEntries{}
	m := metrics.New(prometheus.NewRegistry())
	return NewEntryService(store, feed, &fixedClock{now: testNow}, m), store, events, m
}

func nextEvent(t *testing.T, events <-chan domain.EntryEvent) domain.EntryEvent {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(time.Second):
		t.Fatal("no entry event published")
		return domain.EntryEvent{}
	}
}

func TestLogGlucose(t *testing.T) {
	svc, store, events, m := newEntryFixture(t)

	reading, err := svc.LogGlucose(context.Background(), "u1", 5.6, "")
	require.NoError(t, err)

	assert.NotEmpty(t, reading.ID)
	assert.Equal(t, domain.ContextFasting, reading.Context)
	assert.Equal(t, testNow, reading.Timestamp)
	assert.Len(t, store.glucose, 1)
	assert.Equal(t, domain.EntryEvent{UserID: "u1", Kind: domain.KindGlucose}, nextEvent(t, events))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EntriesLogged.WithLabelValues("glucose")))
}

func TestLogGlucose_Validation(t *testing.T) {
	svc, store, _, _ := newEntryFixture(t)
	ctx := context.Background()

	for _, v := range []float64{0, -1, MaxGlucose + 0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.LogGlucose(ctx, "u1", v, domain.ContextFasting)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "value %v", v)
	}

	_, err := svc.LogGlucose(ctx, "u1", 5, "after-run")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Empty(t, store.glucose)
}

func TestLogGlucose_StoreFailure(t *testing.T) {
	svc, store, _, _ := newEntryFixture(t)
	store.fail = stderrors.New("connection reset")

	_, err := svc.LogGlucose(context.Background(), "u1", 5.6, domain.ContextBedtime)
	assert.EqualError(t, err, "connection reset")
}

func TestLogMeal_ComputesDose(t *testing.T) {
	svc, _, events, _ := newEntryFixture(t)

	meal, err := svc.LogMeal(context.Background(), "u1", 60, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 60.0, meal.Carbs)
	assert.InDelta(t, 5.0, meal.BreadUnits, 0.001)
	assert.InDelta(t, 5.0, meal.InsulinUnits, 0.001)
	assert.Equal(t, domain.KindMeal, nextEvent(t, events).Kind)

	_, err = svc.LogMeal(context.Background(), "u1", 0, 0, 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestLogMeal_RejectsNonFinite(t *testing.T) {
	svc, store, _, _ := newEntryFixture(t)
	ctx := context.Background()

	tests := []struct {
		name                  string
		carbs, grams, insulin float64
	}{
		{"nan carbs", math.NaN(), 0, 0},
		{"inf carbs", math.Inf(1), 0, 0},
		{"nan grams per unit", 60, math.NaN(), 0},
		{"inf insulin per unit", 60, 12, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogMeal(ctx, "u1", tt.carbs, tt.grams, tt.insulin)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
	assert.Empty(t, store.meals)
}

func TestLogSymptoms_NormalizesNames(t *testing.T) {
	svc, _, _, _ := newEntryFixture(t)

	entry, err := svc.LogSymptoms(context.Background(), "u1", []string{" Headache", "thirst", "headache", ""}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"headache", "thirst"}, entry.Names)

	_, err = svc.LogSymptoms(context.Background(), "u1", []string{" "}, 3)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = svc.LogSymptoms(context.Background(), "u1", []string{"fatigue"}, 6)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestLogWellness(t *testing.T) {
	svc, store, _, _ := newEntryFixture(t)
	ctx := context.Background()

	_, err := svc.LogWellness(ctx, "u1", 72.5, 7, 1.5)
	require.NoError(t, err)
	assert.Len(t, store.wellness, 1)

	_, err = svc.LogWellness(ctx, "u1", 0, 0, 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = svc.LogWellness(ctx, "u1", 70, 25, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = svc.LogWellness(ctx, "u1", math.NaN(), 7, 1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	_, err = svc.LogWellness(ctx, "u1", 70, 7, math.Inf(1))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Len(t, store.wellness, 1)
}

func TestEntryService_WithoutFeed(t *testing.T) {
	svc := NewEntryService(&memoryEntries{}, nil, &fixedClock{now: testNow}, nil)

	_, err := svc.LogGlucose(context.Background(), "u1", 6, domain.ContextPreMeal)
	assert.NoError(t, err)
}
