package analytics

import (
	"fmt"
	"strings"
)

// GlucoseUnit is the unit glucose values are displayed in
type GlucoseUnit string

const (
	UnitMmol GlucoseUnit = "mmol/L"
	UnitMgDL GlucoseUnit = "mg/dL"
)

// ParseGlucoseUnit accepts "mmol", "mmol/l", "mgdl", "mg/dl" in any case
func ParseGlucoseUnit(s string) (GlucoseUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mmol", "mmol/l":
		return UnitMmol, true
	case "mgdl", "mg/dl":
		return UnitMgDL, true
	}
	return "", false
}

// ToMgDL converts a mmol/L value, rounded to one decimal
func ToMgDL(mmol float64) float64 {
	return round1(mmol * MmolToMgDL)
}

// ToMmol converts a value entered in unit into mmol/L, rounded to two decimals
func ToMmol(value float64, unit GlucoseUnit) float64 {
	if unit == UnitMgDL {
		return round2(value / MmolToMgDL)
	}
	return value
}

// ConvertGlucose converts a stored mmol/L value for display
func ConvertGlucose(mmol float64, unit GlucoseUnit) float64 {
	if unit == UnitMgDL {
		return ToMgDL(mmol)
	}
	return mmol
}

// FormatGlucose renders a stored mmol/L value in unit
func FormatGlucose(mmol float64, unit GlucoseUnit) string {
	if unit != UnitMgDL {
		unit = UnitMmol
	}
	return fmt.Sprintf("%.1f %s", ConvertGlucose(mmol, unit), unit)
}
