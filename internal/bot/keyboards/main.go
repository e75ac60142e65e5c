package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

// Callback data
const (
	MainMenuData    = "main_menu"
	LogGlucoseData  = "log_glucose"
	LogMealData     = "log_meal"
	LogSymptomsData = "log_symptoms"
	LogWellnessData = "log_wellness"
	ReportData      = "report"
	ForecastData    = "forecast"
	RemindersData   = "reminders"
	SettingsData    = "settings"
	ExportData      = "export"
	HelpData        = "help"
	SOSData         = "sos"
	MedicalIDData   = "medical_id"
	NotifyOnData    = "notify:on"
	NotifyOffData   = "notify:off"

	UnitPrefix   = "unit:"
	TogglePrefix = "toggle:"
	TimePrefix   = "time:"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩸 Glucose", LogGlucoseData),
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Meal", LogMealData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤒 Symptoms", LogSymptomsData),
			tgbotapi.NewInlineKeyboardButtonData("💧 Wellness", LogWellnessData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Report", ReportData),
			tgbotapi.NewInlineKeyboardButtonData("🔮 Forecast", ForecastData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏰ Reminders", RemindersData),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Settings", SettingsData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆘 SOS", SOSData),
		),
	)
}

// SettingsMenu creates the settings menu keyboard
func SettingsMenu(unit analytics.GlucoseUnit, permission domain.NotificationPermission) tgbotapi.InlineKeyboardMarkup {
	unitButton := tgbotapi.NewInlineKeyboardButtonData("Switch to mg/dL", UnitPrefix+"mgdl")
	if unit == analytics.UnitMgDL {
		unitButton = tgbotapi.NewInlineKeyboardButtonData("Switch to mmol/L", UnitPrefix+"mmol")
	}

	notifyButton := tgbotapi.NewInlineKeyboardButtonData("🔔 Enable notifications", NotifyOnData)
	if permission == domain.PermissionGranted {
		notifyButton = tgbotapi.NewInlineKeyboardButtonData("🔕 Disable notifications", NotifyOffData)
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(unitButton),
		tgbotapi.NewInlineKeyboardRow(notifyButton),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🪪 Medical ID", MedicalIDData),
			tgbotapi.NewInlineKeyboardButtonData("📤 Export CSV", ExportData),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", MainMenuData),
		),
	)
}

// RemindersMenu lists each rule with a toggle and an edit-time button
func RemindersMenu(rules []domain.ReminderRule) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rules)+1)
	for _, r := range rules {
		mark := "⚪"
		if r.Enabled {
			mark = "🟢"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %s", mark, r.Label), TogglePrefix+r.ID),
			tgbotapi.NewInlineKeyboardButtonData("🕒 "+r.TimeOfDay, TimePrefix+r.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", MainMenuData),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Back creates a single-button keyboard returning to target
func Back(label, target string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, target),
		),
	)
}
