package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

func TestParseGlucoseInput(t *testing.T) {
	tests := []struct {
		in      string
		value   float64
		ctx     domain.GlucoseContext
		wantErr bool
	}{
		{"5.6", 5.6, "", false},
		{"5,6", 5.6, "", false},
		{"7.8 post-meal", 7.8, domain.ContextPostMeal, false},
		{"6 Before", 6, domain.ContextPreMeal, false},
		{"4.2 bed", 4.2, domain.ContextBedtime, false},
		{"", 0, "", true},
		{"high", 0, "", true},
		{"5.6 lunch", 0, "", true},
		{"5.6 fasting now", 0, "", true},
		{"NaN", 0, "", true},
		{"nan fasting", 0, "", true},
		{"Inf", 0, "", true},
		{"-infinity", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			value, ctx, err := ParseGlucoseInput(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, value)
			assert.Equal(t, tt.ctx, ctx)
		})
	}
}

func TestParseMealInput(t *testing.T) {
	carbs, grams, units, err := ParseMealInput("60")
	require.NoError(t, err)
	assert.Equal(t, []float64{60, 0, 0}, []float64{carbs, grams, units})

	carbs, grams, units, err = ParseMealInput("45 10 1,5")
	require.NoError(t, err)
	assert.Equal(t, []float64{45, 10, 1.5}, []float64{carbs, grams, units})

	_, _, _, err = ParseMealInput("lots")
	assert.Error(t, err)
	_, _, _, err = ParseMealInput("1 2 3 4")
	assert.Error(t, err)
	_, _, _, err = ParseMealInput("NaN")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	_, _, _, err = ParseMealInput("45 +Inf 1")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestParseSymptomInput(t *testing.T) {
	names, severity, err := ParseSymptomInput("Headache, thirst ; 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Headache", " thirst "}, names)
	assert.Equal(t, 3, severity)

	_, _, err = ParseSymptomInput("headache")
	assert.Error(t, err)
	_, _, err = ParseSymptomInput("headache; bad")
	assert.Error(t, err)
}

func TestParseWellnessInput(t *testing.T) {
	weight, sleep, water, err := ParseWellnessInput("72.5 7 1.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{72.5, 7, 1.5}, []float64{weight, sleep, water})

	_, _, _, err = ParseWellnessInput("72.5 7")
	assert.Error(t, err)
	_, _, _, err = ParseWellnessInput("72.5 seven 1")
	assert.Error(t, err)
	_, _, _, err = ParseWellnessInput("NaN 7 1")
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
