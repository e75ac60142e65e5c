package handlers

import (
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

var contextAliases = map[string]domain.GlucoseContext{
	"fasting":   domain.ContextFasting,
	"fast":      domain.ContextFasting,
	"pre-meal":  domain.ContextPreMeal,
	"premeal":   domain.ContextPreMeal,
	"before":    domain.ContextPreMeal,
	"post-meal": domain.ContextPostMeal,
	"postmeal":  domain.ContextPostMeal,
	"after":     domain.ContextPostMeal,
	"bedtime":   domain.ContextBedtime,
	"bed":       domain.ContextBedtime,
}

var errNotFinite = stderrors.New("not a finite number")

// parseNumber accepts both "5.6" and "5,6"; NaN and Inf are rejected
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// ParseGlucoseInput reads "<value> [context]", e.g. "5.6" or "7.8 post-meal"
func ParseGlucoseInput(text string) (float64, domain.GlucoseContext, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, "", errors.NewValidationError("send a value and an optional context, e.g. 5.6 fasting")
	}

	value, err := parseNumber(fields[0])
	if err != nil {
		return 0, "", errors.NewValidationError("please enter a number, e.g. 5.6")
	}
	if len(fields) == 1 {
		return value, "", nil
	}

	readingCtx, ok := contextAliases[strings.ToLower(fields[1])]
	if !ok {
		return 0, "", errors.NewValidationError("context must be fasting, pre-meal, post-meal or bedtime")
	}
	return value, readingCtx, nil
}

// ParseMealInput reads "<carbs> [grams per BU] [units per BU]"
func ParseMealInput(text string) (carbs, gramsPerBreadUnit, insulinPerBreadUnit float64, err error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || len(fields) > 3 {
		return 0, 0, 0, errors.NewValidationError("send carbs in grams, optionally followed by grams per BU and units per BU, e.g. 60 12 1.5")
	}

	values := make([]float64, 3)
	for i, f := range fields {
		v, perr := parseNumber(f)
		if perr != nil {
			return 0, 0, 0, errors.NewValidationError(fmt.Sprintf("%q is not a number", f))
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}

// ParseSymptomInput reads "name, name; severity", e.g. "headache, thirst; 3"
func ParseSymptomInput(text string) ([]string, int, error) {
	namesPart, severityPart, found := strings.Cut(text, ";")
	if !found {
		return nil, 0, errors.NewValidationError("separate symptoms and severity with ';', e.g. headache, thirst; 3")
	}

	severity, err := strconv.Atoi(strings.TrimSpace(severityPart))
	if err != nil {
		return nil, 0, errors.NewValidationError("severity must be a whole number from 1 to 5")
	}
	return strings.Split(namesPart, ","), severity, nil
}

// ParseWellnessInput reads "<weight kg> <sleep h> <water l>". Use 0 to skip a value.
func ParseWellnessInput(text string) (weight, sleepHours, waterLiters float64, err error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return 0, 0, 0, errors.NewValidationError("send weight, sleep hours and water liters, e.g. 72.5 7 1.5")
	}

	values := make([]float64, 3)
	for i, f := range fields {
		v, perr := parseNumber(f)
		if perr != nil {
			return 0, 0, 0, errors.NewValidationError(fmt.Sprintf("%q is not a number", f))
		}
		values[i] = v
	}
	return values[0], values[1], values[2], nil
}
