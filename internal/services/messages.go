package services

import "github.com/vladimiradmaev/diabetes-care/internal/analytics"

var messageText = map[analytics.MessageKey]string{
	analytics.MsgAwaitingCalibration:  "Awaiting calibration: log at least two readings.",
	analytics.MsgNominal:              "Trajectory nominal.",
	analytics.MsgEquilibrium:          "Metabolic equilibrium: glucose is in range.",
	analytics.MsgApproachingThreshold: "Approaching the low threshold within the hour.",
	analytics.MsgRapidDescent:         "Rapid descent: hypoglycemia risk within the hour.",
	analytics.MsgElevatedProjection:   "Elevated projection: glucose may exceed 11 mmol/L.",

	analytics.AdviceAddReadings:        "Add more readings to enable forecasting.",
	analytics.AdviceStandardMonitoring: "Continue standard monitoring.",
	analytics.AdviceStable:             "Keep doing what you are doing.",
	analytics.AdviceProactiveCarbs:     "Consider a small proactive carb intake.",
	analytics.AdviceVerifyImmediately:  "Verify with a fingerstick now and treat if low.",
	analytics.AdviceVerifyInsulin:      "Check active insulin and recheck soon.",
}

// MessageText renders a forecast message key in English
func MessageText(key analytics.MessageKey) string {
	if text, ok := messageText[key]; ok {
		return text
	}
	return string(key)
}
