package handlers

import (
	"bytes"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/menus"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

const exportFileName = "diabetes-care-export.csv"

var prompts = map[string]string{
	state.WaitingForGlucose:   "🩸 Enter your glucose and an optional context (fasting, pre-meal, post-meal, bedtime).\nExample: 5.6 fasting",
	state.WaitingForMeal:      "🍽️ Enter carbs in grams. Optionally add grams per bread unit and insulin units per bread unit.\nExample: 60 or 60 12 1.5",
	state.WaitingForSymptoms:  "🤒 Enter symptoms separated by commas, then ';' and a severity from 1 to 5.\nExample: headache, thirst; 3",
	state.WaitingForWellness:  "💧 Enter weight (kg), sleep (hours) and water (liters). Use 0 to skip a value.\nExample: 72.5 7 1.5",
	state.WaitingForMedicalID: "🪪 Enter your medical ID as: diabetes type; blood type; emergency contact; notes\nExample: Type 1; O+; Anna +44 7700 900123; insulin pump",
}

// actions are the screens reachable from both commands and buttons
type actions struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
}

func (a *actions) prompt(chatID int64, user *domain.User, next string) error {
	a.stateManager.SetUserState(user.TelegramID, next)
	msg := tgbotapi.NewMessage(chatID, prompts[next])
	msg.ReplyMarkup = keyboards.Back("◀️ Cancel", keyboards.MainMenuData)
	_, err := a.api.Send(msg)
	return err
}

func (a *actions) mainMenu(chatID int64, user *domain.User) error {
	a.stateManager.SetUserState(user.TelegramID, state.None)
	a.stateManager.ClearTempData(user.TelegramID)
	return menus.SendMainMenu(a.api, chatID)
}

func (a *actions) report(ctx context.Context, chatID int64, user *domain.User) error {
	report, err := a.deps.MetricsService.Report(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	unit, err := a.deps.PreferenceService.Unit(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, menus.FormatReport(report, unit))
	msg.ReplyMarkup = keyboards.Back("◀️ Main menu", keyboards.MainMenuData)
	_, err = a.api.Send(msg)
	return err
}

func (a *actions) forecast(ctx context.Context, chatID int64, user *domain.User) error {
	result, err := a.deps.MetricsService.Forecast(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	unit, err := a.deps.PreferenceService.Unit(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, menus.FormatForecast(result, unit))
	msg.ReplyMarkup = keyboards.Back("◀️ Main menu", keyboards.MainMenuData)
	_, err = a.api.Send(msg)
	return err
}

func (a *actions) reminders(ctx context.Context, chatID int64, user *domain.User) error {
	rules, err := a.deps.ReminderService.Rules(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	current, err := a.deps.UserService.GetUser(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	return menus.SendRemindersMenu(a.api, chatID, rules, current.Permission)
}

func (a *actions) settings(ctx context.Context, chatID int64, user *domain.User) error {
	unit, err := a.deps.PreferenceService.Unit(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	current, err := a.deps.UserService.GetUser(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	return menus.SendSettingsMenu(a.api, chatID, unit, current.Permission)
}

func (a *actions) setNotifications(ctx context.Context, chatID int64, user *domain.User, enabled bool) error {
	permission := domain.PermissionDenied
	if enabled {
		permission = domain.PermissionGranted
	}
	if err := a.deps.ReminderService.SetPermission(ctx, user.ID, permission); err != nil {
		return a.sendError(ctx, chatID, err)
	}

	text := "🔕 Notifications disabled."
	if enabled {
		text = "🔔 Notifications enabled. Switch on the reminders you want in /reminders."
	}
	return sendText(a.api, chatID, text)
}

func (a *actions) setUnit(ctx context.Context, chatID int64, user *domain.User, raw string) error {
	unit, err := a.deps.PreferenceService.SetUnit(ctx, user.ID, raw)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	return sendText(a.api, chatID, fmt.Sprintf("✅ Glucose is now shown in %s", unit))
}

func (a *actions) export(ctx context.Context, chatID int64, user *domain.User) error {
	var buf bytes.Buffer
	rows, err := a.deps.ExportService.ExportCSV(ctx, user.ID, &buf)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	logger.Info("Export generated", "user_id", user.ID, "rows", rows)

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: exportFileName, Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("📤 %d records", rows)
	_, err = a.api.Send(doc)
	return err
}

func (a *actions) sos(ctx context.Context, chatID int64, user *domain.User) error {
	id, err := a.deps.PreferenceService.MedicalID(ctx, user.ID)
	if err != nil {
		return a.sendError(ctx, chatID, err)
	}
	return sendText(a.api, chatID, menus.FormatMedicalID(id))
}
