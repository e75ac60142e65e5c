package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/menus"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/services"
)

// TextHandler handles text messages
type TextHandler struct {
	*actions
}

// NewTextHandler creates a new text handler
func NewTextHandler(a *actions) *TextHandler {
	return &TextHandler{actions: a}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	userState := h.stateManager.GetUserState(user.TelegramID)
	if userState == state.None {
		return h.handleDefaultText(message.Chat.ID)
	}
	return h.handleInput(ctx, message.Chat.ID, userState, message.Text, user)
}

// handleInput processes data for an input step. On a validation error the
// state is kept so the user can simply retry.
func (h *TextHandler) handleInput(ctx context.Context, chatID int64, step, text string, user *domain.User) error {
	var (
		reply string
		err   error
	)

	switch step {
	case state.WaitingForGlucose:
		reply, err = h.logGlucose(ctx, user, text)
	case state.WaitingForMeal:
		reply, err = h.logMeal(ctx, user, text)
	case state.WaitingForSymptoms:
		reply, err = h.logSymptoms(ctx, user, text)
	case state.WaitingForWellness:
		reply, err = h.logWellness(ctx, user, text)
	case state.WaitingForMedicalID:
		reply, err = h.saveMedicalID(ctx, user, text)
	case state.WaitingForReminder:
		return h.updateReminderTime(ctx, chatID, user, text)
	default:
		return h.handleDefaultText(chatID)
	}

	if err != nil {
		return h.sendError(ctx, chatID, err)
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	msg := tgbotapi.NewMessage(chatID, reply)
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *TextHandler) logGlucose(ctx context.Context, user *domain.User, text string) (string, error) {
	value, readingCtx, err := ParseGlucoseInput(text)
	if err != nil {
		return "", err
	}
	unit, err := h.deps.PreferenceService.Unit(ctx, user.ID)
	if err != nil {
		return "", err
	}

	reading, err := h.deps.EntryService.LogGlucose(ctx, user.ID, analytics.ToMmol(value, unit), readingCtx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Glucose %s (%s) saved", analytics.FormatGlucose(reading.Value, unit), reading.Context), nil
}

func (h *TextHandler) logMeal(ctx context.Context, user *domain.User, text string) (string, error) {
	carbs, grams, units, err := ParseMealInput(text)
	if err != nil {
		return "", err
	}

	meal, err := h.deps.EntryService.LogMeal(ctx, user.ID, carbs, grams, units)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Meal saved: %.0f g carbs = %.2f BU\n💉 Suggested bolus: %.1f units\n\n⚠️ Always double-check the dose with your care plan.",
		meal.Carbs, meal.BreadUnits, meal.InsulinUnits), nil
}

func (h *TextHandler) logSymptoms(ctx context.Context, user *domain.User, text string) (string, error) {
	names, severity, err := ParseSymptomInput(text)
	if err != nil {
		return "", err
	}

	entry, err := h.deps.EntryService.LogSymptoms(ctx, user.ID, names, severity)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Symptoms saved: %s (severity %d)", strings.Join(entry.Names, ", "), entry.Severity), nil
}

func (h *TextHandler) logWellness(ctx context.Context, user *domain.User, text string) (string, error) {
	weight, sleep, water, err := ParseWellnessInput(text)
	if err != nil {
		return "", err
	}

	if _, err := h.deps.EntryService.LogWellness(ctx, user.ID, weight, sleep, water); err != nil {
		return "", err
	}
	return "✅ Wellness saved", nil
}

func (h *TextHandler) saveMedicalID(ctx context.Context, user *domain.User, text string) (string, error) {
	id, err := services.ParseMedicalID(text)
	if err != nil {
		return "", err
	}
	if err := h.deps.PreferenceService.SetMedicalID(ctx, user.ID, id); err != nil {
		return "", err
	}
	return "✅ Medical ID saved\n\n" + menus.FormatMedicalID(id), nil
}

func (h *TextHandler) updateReminderTime(ctx context.Context, chatID int64, user *domain.User, text string) error {
	ruleID, ok := h.stateManager.GetTempData(user.TelegramID, state.KeyRuleID)
	if !ok {
		h.stateManager.SetUserState(user.TelegramID, state.None)
		return h.reminders(ctx, chatID, user)
	}

	rule, err := h.deps.ReminderService.UpdateTime(ctx, user.ID, ruleID, strings.TrimSpace(text))
	if err != nil {
		return h.sendError(ctx, chatID, err)
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	h.stateManager.ClearTempData(user.TelegramID)
	if err := sendText(h.api, chatID, fmt.Sprintf("✅ %s now fires at %s", rule.Label, rule.TimeOfDay)); err != nil {
		return err
	}
	return h.reminders(ctx, chatID, user)
}

// handleDefaultText handles text when no specific state is set
func (h *TextHandler) handleDefaultText(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Please use the menu to choose an action.")
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := h.api.Send(msg)
	return err
}
