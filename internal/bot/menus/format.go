package menus

import (
	"fmt"
	"strings"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/services"
	"github.com/vladimiradmaev/diabetes-care/internal/utils"
)

var trendText = map[analytics.Trend]string{
	analytics.TrendRising:  "📈 rising",
	analytics.TrendFalling: "📉 falling",
	analytics.TrendStable:  "➡️ stable",
}

var riskIcon = map[analytics.RiskLevel]string{
	analytics.RiskStable:   "⚪",
	analytics.RiskOptimal:  "🟢",
	analytics.RiskWatchful: "🟡",
	analytics.RiskCritical: "🔴",
}

// FormatReport renders the dashboard as plain text
func FormatReport(r *services.Report, unit analytics.GlucoseUnit) string {
	var b strings.Builder
	b.WriteString("📊 Report\n\n")

	if r.LatestGlucose == nil {
		b.WriteString("No glucose readings yet. Log one to get started.\n")
	} else {
		fmt.Fprintf(&b, "Latest: %s (%s, %s)\n",
			analytics.FormatGlucose(r.LatestGlucose.Value, unit),
			r.LatestGlucose.Context,
			utils.ClockTime(r.LatestGlucose.Timestamp))
		fmt.Fprintf(&b, "Average: %s over %d readings\n", analytics.FormatGlucose(r.AverageGlucose, unit), r.ReadingCount)
		fmt.Fprintf(&b, "Estimated HbA1c: %.1f%% (%s)\n", r.Marker, r.MarkerStatus.Label)
		fmt.Fprintf(&b, "Trend (14 days): %s\n", trendText[r.Trend])
		fmt.Fprintf(&b, "Time in range: %d%% low / %d%% in range / %d%% high\n", r.Ranges.Low, r.Ranges.InRange, r.Ranges.High)
	}

	fmt.Fprintf(&b, "\nToday: %.1f g carbs, %.1f units insulin\n", r.CarbsToday, r.InsulinToday)

	if len(r.Correlations) > 0 {
		b.WriteString("\n🍽️ After meals\n")
		for _, c := range r.Correlations {
			fmt.Fprintf(&b, "• %s %.0f g → %s at %s\n",
				utils.ClockTime(c.Meal.Timestamp), c.Meal.Carbs,
				analytics.FormatGlucose(c.PostGlucose, unit), utils.ClockTime(c.ReadingAt))
		}
	}

	if len(r.Symptoms) > 0 {
		b.WriteString("\n🤒 Frequent symptoms\n")
		for _, s := range r.Symptoms {
			fmt.Fprintf(&b, "• %s ×%d\n", s.Name, s.Count)
		}
	}

	b.WriteString("\n")
	b.WriteString(FormatForecast(r.Forecast, unit))
	return b.String()
}

// FormatForecast renders the one-hour projection
func FormatForecast(f analytics.ForecastResult, unit analytics.GlucoseUnit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Forecast: %s\n", riskIcon[f.RiskLevel], f.RiskLevel)
	if f.MessageKey != analytics.MsgAwaitingCalibration {
		fmt.Fprintf(&b, "In 60 min: %s (%+.2f mmol/L per hour)\n", analytics.FormatGlucose(f.ProjectedValue, unit), f.Velocity)
	}
	fmt.Fprintf(&b, "%s\n%s", services.MessageText(f.MessageKey), services.MessageText(f.AdviceKey))
	return b.String()
}

// FormatMedicalID renders the emergency card
func FormatMedicalID(id *services.MedicalID) string {
	if id == nil {
		return "🆘 No medical ID saved yet. Set one in settings so it can be shown in an emergency."
	}

	var b strings.Builder
	b.WriteString("🆘 MEDICAL ID\n\n")
	fmt.Fprintf(&b, "Condition: %s diabetes\n", id.DiabetesType)
	if id.BloodType != "" {
		fmt.Fprintf(&b, "Blood type: %s\n", id.BloodType)
	}
	if id.EmergencyContact != "" {
		fmt.Fprintf(&b, "Emergency contact: %s\n", id.EmergencyContact)
	}
	if id.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", id.Notes)
	}
	b.WriteString("\nIf I am unresponsive, check my glucose and give fast sugar if low.")
	return b.String()
}
