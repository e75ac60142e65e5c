package handlers

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

const helpText = `Available commands:
/start - Show the main menu
/glucose 5.6 fasting - Log a glucose reading
/meal 60 - Log a meal and get a bolus suggestion
/report - Dashboard: HbA1c estimate, trend, time in range
/forecast - Where your glucose is heading in the next hour
/reminders - Manage daily reminders
/notify on|off - Allow or stop notifications
/unit mmol|mgdl - Choose glucose units
/export - Download all your records as CSV
/medical type; blood; contact; notes - Save your medical ID
/sos - Show your medical ID
/help - Show this message

⚠️ This is reference information, always consult your doctor!`

// CommandHandler handles bot commands
type CommandHandler struct {
	*actions
	text *TextHandler
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(a *actions, text *TextHandler) *CommandHandler {
	return &CommandHandler{actions: a, text: text}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, chatID int64, command, args string, user *domain.User) error {
	logger.Info("Handling command", "command", command, "user_id", user.ID)
	args = strings.TrimSpace(args)
	h.stateManager.SetUserState(user.TelegramID, state.None)

	switch command {
	case "start":
		return h.mainMenu(chatID, user)
	case "help":
		return sendText(h.api, chatID, helpText)
	case "glucose":
		return h.withArgs(ctx, chatID, user, state.WaitingForGlucose, args)
	case "meal":
		return h.withArgs(ctx, chatID, user, state.WaitingForMeal, args)
	case "symptoms":
		return h.withArgs(ctx, chatID, user, state.WaitingForSymptoms, args)
	case "wellness":
		return h.withArgs(ctx, chatID, user, state.WaitingForWellness, args)
	case "medical":
		return h.withArgs(ctx, chatID, user, state.WaitingForMedicalID, args)
	case "report":
		return h.report(ctx, chatID, user)
	case "forecast":
		return h.forecast(ctx, chatID, user)
	case "reminders":
		return h.reminders(ctx, chatID, user)
	case "settings":
		return h.settings(ctx, chatID, user)
	case "export":
		return h.export(ctx, chatID, user)
	case "sos":
		return h.sos(ctx, chatID, user)
	case "notify":
		return h.handleNotify(ctx, chatID, user, args)
	case "unit":
		if args == "" {
			return sendText(h.api, chatID, "Usage: /unit mmol or /unit mgdl")
		}
		return h.setUnit(ctx, chatID, user, args)
	default:
		return sendText(h.api, chatID, "Unknown command. Use /help to see the available commands.")
	}
}

// withArgs runs the input step inline when the command carries its data,
// otherwise it asks for the data and waits for the next message
func (h *CommandHandler) withArgs(ctx context.Context, chatID int64, user *domain.User, next, args string) error {
	if args == "" {
		return h.prompt(chatID, user, next)
	}
	return h.text.handleInput(ctx, chatID, next, args, user)
}

func (h *CommandHandler) handleNotify(ctx context.Context, chatID int64, user *domain.User, args string) error {
	switch strings.ToLower(args) {
	case "on":
		return h.setNotifications(ctx, chatID, user, true)
	case "off":
		return h.setNotifications(ctx, chatID, user, false)
	default:
		return sendText(h.api, chatID, "Usage: /notify on or /notify off")
	}
}
