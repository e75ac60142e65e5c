package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/bot/handlers"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

// Commands registered in the Telegram client menu
var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Main menu"},
	{Command: "glucose", Description: "Log a glucose reading"},
	{Command: "meal", Description: "Log a meal"},
	{Command: "report", Description: "Metabolic report"},
	{Command: "forecast", Description: "One-hour forecast"},
	{Command: "reminders", Description: "Manage reminders"},
	{Command: "settings", Description: "Units, notifications, medical ID"},
	{Command: "export", Description: "Download records as CSV"},
	{Command: "sos", Description: "Show medical ID"},
	{Command: "help", Description: "Help"},
}

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
}

// NewBotAPI authorizes against Telegram. The API is shared with the notifier.
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "account", api.Self.UserName)
	return api, nil
}

func NewBot(api *tgbotapi.BotAPI, deps handlers.Dependencies, stateManager state.StateManager) *Bot {
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, stateManager),
	}
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		logger.Warn("Failed to register bot commands", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil {
				logger.Debug("Received message", "telegram_id", update.Message.From.ID)
			}
			if err := b.handler.Handle(ctx, update); err != nil {
				logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}
