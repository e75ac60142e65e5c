package analytics

import "github.com/vladimiradmaev/diabetes-care/internal/domain"

// RiskLevel is the short-horizon risk classification
type RiskLevel string

const (
	RiskStable   RiskLevel = "stable"
	RiskOptimal  RiskLevel = "optimal"
	RiskWatchful RiskLevel = "watchful"
	RiskCritical RiskLevel = "critical"
)

// MessageKey identifies a forecast message or advice for the presentation layer
type MessageKey string

const (
	MsgAwaitingCalibration  MessageKey = "forecast.awaiting_calibration"
	MsgNominal              MessageKey = "forecast.nominal"
	MsgEquilibrium          MessageKey = "forecast.equilibrium"
	MsgApproachingThreshold MessageKey = "forecast.approaching_threshold"
	MsgRapidDescent         MessageKey = "forecast.rapid_descent"
	MsgElevatedProjection   MessageKey = "forecast.elevated_projection"

	AdviceAddReadings        MessageKey = "advice.add_readings"
	AdviceStandardMonitoring MessageKey = "advice.standard_monitoring"
	AdviceStable             MessageKey = "advice.stable"
	AdviceProactiveCarbs     MessageKey = "advice.proactive_carbs"
	AdviceVerifyImmediately  MessageKey = "advice.verify_immediately"
	AdviceVerifyInsulin      MessageKey = "advice.verify_active_insulin"
)

// ForecastResult is a 60-minute projection with its risk classification
type ForecastResult struct {
	RiskLevel      RiskLevel
	ProjectedValue float64
	Velocity       float64 // mmol/L per hour, rounded to 2 decimals
	MessageKey     MessageKey
	AdviceKey      MessageKey
}

// Forecast projects glucose one hour ahead from the two most recent readings.
// entries must be newest-first. The result depends only on the input.
func Forecast(entries []domain.GlucoseReading) ForecastResult {
	if len(entries) < 2 {
		projected := 0.0
		if len(entries) == 1 {
			projected = entries[0].Value
		}
		return ForecastResult{
			RiskLevel:      RiskStable,
			ProjectedValue: projected,
			MessageKey:     MsgAwaitingCalibration,
			AdviceKey:      AdviceAddReadings,
		}
	}

	latest, previous := entries[0], entries[1]

	velocity := 0.0
	hours := latest.Timestamp.Sub(previous.Timestamp).Hours()
	if hours > 0 {
		velocity = (latest.Value - previous.Value) / hours
	}

	// Linear extrapolation exactly one hour ahead, whatever the sampling interval.
	projected := round1(latest.Value + velocity)

	result := ForecastResult{
		RiskLevel:      RiskStable,
		ProjectedValue: projected,
		Velocity:       round2(velocity),
		MessageKey:     MsgNominal,
		AdviceKey:      AdviceStandardMonitoring,
	}

	// Order matters: each matching rule overrides the ones before it.
	if latest.Value >= RangeLow && latest.Value <= RangeHigh {
		result.classify(RiskOptimal, MsgEquilibrium, AdviceStable)
	}
	if projected < forecastApproaching {
		result.classify(RiskWatchful, MsgApproachingThreshold, AdviceProactiveCarbs)
	}
	if projected < forecastCritical || (velocity < forecastRapidFall && latest.Value < forecastRapidFallCap) {
		result.classify(RiskCritical, MsgRapidDescent, AdviceVerifyImmediately)
	}
	if projected > forecastElevated {
		result.classify(RiskWatchful, MsgElevatedProjection, AdviceVerifyInsulin)
	}

	return result
}

func (r *ForecastResult) classify(level RiskLevel, message, advice MessageKey) {
	r.RiskLevel = level
	r.MessageKey = message
	r.AdviceKey = advice
}
