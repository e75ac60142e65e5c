package handlers

import (
	"context"
	stderrors "errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/interfaces"
)

// API is the part of the Telegram bot API the handlers use
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService       interfaces.UserServiceInterface
	EntryService      interfaces.EntryServiceInterface
	MetricsService    interfaces.MetricsServiceInterface
	ReminderService   interfaces.ReminderServiceInterface
	PreferenceService interfaces.PreferenceServiceInterface
	ExportService     interfaces.ExportServiceInterface

	// ErrorHandler logs failed requests by error type. Optional.
	ErrorHandler *errors.Handler
}

func sendText(api API, chatID int64, text string) error {
	_, err := api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// sendError shows validation problems to the user and hides everything else
func (a *actions) sendError(ctx context.Context, chatID int64, err error) error {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewInternalError(err)
	}
	a.deps.ErrorHandler.Handle(ctx, appErr.WithContext("chat_id", chatID))

	if appErr.Type == errors.ErrorTypeValidation {
		return sendText(a.api, chatID, "⚠️ "+appErr.Message)
	}
	return sendText(a.api, chatID, "Something went wrong. Please try again later.")
}
