// Package export serializes a user's health records for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

var header = []string{"Timestamp", "Type", "Value", "Details"}

// Records is everything exported for one user
type Records struct {
	Glucose  []domain.GlucoseReading
	Meals    []domain.MealEntry
	Symptoms []domain.SymptomEntry
	Wellness []domain.WellnessEntry
}

// Len reports how many rows WriteCSV will produce, header excluded
func (r Records) Len() int {
	return len(r.Glucose) + len(r.Meals) + len(r.Symptoms) + len(r.Wellness)
}

type row struct {
	at      time.Time
	kind    domain.EntryKind
	value   string
	details string
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r Records) rows() []row {
	rows := make([]row, 0, r.Len())
	for _, g := range r.Glucose {
		rows = append(rows, row{at: g.Timestamp, kind: domain.KindGlucose, value: formatFloat(g.Value), details: string(g.Context)})
	}
	for _, m := range r.Meals {
		rows = append(rows, row{at: m.Timestamp, kind: domain.KindMeal, value: formatFloat(m.Carbs), details: formatFloat(m.InsulinUnits) + " units"})
	}
	for _, s := range r.Symptoms {
		rows = append(rows, row{at: s.Timestamp, kind: domain.KindSymptom, value: strconv.Itoa(s.Severity), details: strings.Join(s.Names, "; ")})
	}
	for _, w := range r.Wellness {
		details := fmt.Sprintf("weight %s kg; sleep %s h; water %s l", formatFloat(w.Weight), formatFloat(w.SleepHours), formatFloat(w.WaterLiters))
		rows = append(rows, row{at: w.Timestamp, kind: domain.KindWellness, details: details})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].at.After(rows[j].at)
	})
	return rows
}

// safeCell prefixes text a spreadsheet would evaluate as a formula
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// WriteCSV writes all records newest-first, timestamps rendered in loc
func WriteCSV(w io.Writer, records Records, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records.rows() {
		if err := cw.Write([]string{r.at.In(loc).Format(time.RFC3339), string(r.kind), safeCell(r.value), safeCell(r.details)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
