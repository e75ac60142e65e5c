package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*actions
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(a *actions) *CallbackHandler {
	return &CallbackHandler{actions: a}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	// any button press abandons a pending input step
	h.stateManager.SetUserState(user.TelegramID, state.None)

	switch data := query.Data; {
	case data == keyboards.MainMenuData:
		return h.mainMenu(chatID, user)
	case data == keyboards.LogGlucoseData:
		return h.prompt(chatID, user, state.WaitingForGlucose)
	case data == keyboards.LogMealData:
		return h.prompt(chatID, user, state.WaitingForMeal)
	case data == keyboards.LogSymptomsData:
		return h.prompt(chatID, user, state.WaitingForSymptoms)
	case data == keyboards.LogWellnessData:
		return h.prompt(chatID, user, state.WaitingForWellness)
	case data == keyboards.MedicalIDData:
		return h.prompt(chatID, user, state.WaitingForMedicalID)
	case data == keyboards.ReportData:
		return h.report(ctx, chatID, user)
	case data == keyboards.ForecastData:
		return h.forecast(ctx, chatID, user)
	case data == keyboards.RemindersData:
		return h.reminders(ctx, chatID, user)
	case data == keyboards.SettingsData:
		return h.settings(ctx, chatID, user)
	case data == keyboards.ExportData:
		return h.export(ctx, chatID, user)
	case data == keyboards.SOSData:
		return h.sos(ctx, chatID, user)
	case data == keyboards.HelpData:
		return sendText(h.api, chatID, helpText)
	case data == keyboards.NotifyOnData:
		if err := h.setNotifications(ctx, chatID, user, true); err != nil {
			return err
		}
		return h.settings(ctx, chatID, user)
	case data == keyboards.NotifyOffData:
		if err := h.setNotifications(ctx, chatID, user, false); err != nil {
			return err
		}
		return h.settings(ctx, chatID, user)
	case strings.HasPrefix(data, keyboards.UnitPrefix):
		if err := h.setUnit(ctx, chatID, user, strings.TrimPrefix(data, keyboards.UnitPrefix)); err != nil {
			return err
		}
		return h.settings(ctx, chatID, user)
	case strings.HasPrefix(data, keyboards.TogglePrefix):
		return h.handleToggle(ctx, chatID, user, strings.TrimPrefix(data, keyboards.TogglePrefix))
	case strings.HasPrefix(data, keyboards.TimePrefix):
		return h.handleEditTime(ctx, chatID, user, strings.TrimPrefix(data, keyboards.TimePrefix))
	default:
		return h.handleUnknownCallback(chatID)
	}
}

func (h *CallbackHandler) handleToggle(ctx context.Context, chatID int64, user *domain.User, ruleID string) error {
	rule, err := h.deps.ReminderService.Toggle(ctx, user.ID, ruleID)
	if err != nil {
		return h.sendError(ctx, chatID, err)
	}
	logger.Info("Reminder toggled", "user_id", user.ID, "rule_id", rule.ID, "enabled", rule.Enabled)
	return h.reminders(ctx, chatID, user)
}

func (h *CallbackHandler) handleEditTime(ctx context.Context, chatID int64, user *domain.User, ruleID string) error {
	rules, err := h.deps.ReminderService.Rules(ctx, user.ID)
	if err != nil {
		return h.sendError(ctx, chatID, err)
	}

	var label string
	for _, r := range rules {
		if r.ID == ruleID {
			label = r.Label
		}
	}
	if label == "" {
		return h.handleUnknownCallback(chatID)
	}

	h.stateManager.SetUserState(user.TelegramID, state.WaitingForReminder)
	h.stateManager.SetTempData(user.TelegramID, state.KeyRuleID, ruleID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🕒 Enter the new time for %s in 24-hour HH:MM format (e.g. 08:00 or 14:30):", label))
	msg.ReplyMarkup = keyboards.Back("◀️ Cancel", keyboards.RemindersData)
	_, err = h.api.Send(msg)
	return err
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	return sendText(h.api, chatID, "Unknown action")
}
