package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	deps            Dependencies
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api API, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	if deps.ErrorHandler == nil {
		deps.ErrorHandler = errors.NewHandler(logger.WithComponent("bot"))
	}
	a := &actions{api: api, deps: deps, stateManager: stateManager}
	text := NewTextHandler(a)
	return &UpdateHandler{
		deps:            deps,
		callbackHandler: NewCallbackHandler(a),
		commandHandler:  NewCommandHandler(a, text),
		textHandler:     text,
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var from *tgbotapi.User
	switch {
	case update.Message != nil:
		from = update.Message.From
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	}
	if from == nil {
		return nil
	}

	// Get or create user
	user, err := h.deps.UserService.RegisterUser(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
	if err != nil {
		logger.Error("Error getting/creating user", "telegram_id", from.ID, "error", err)
		return fmt.Errorf("failed to get/create user: %w", err)
	}

	// Handle different update types
	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, user)
	}

	message := update.Message
	if message.IsCommand() {
		return h.commandHandler.Handle(ctx, message.Chat.ID, message.Command(), message.CommandArguments(), user)
	}
	if message.Text != "" {
		return h.textHandler.Handle(ctx, message, user)
	}
	return nil
}
