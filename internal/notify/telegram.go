package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

// Sender is the part of the Telegram bot API used to push messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages the user's private chat with the bot
type TelegramNotifier struct {
	api   Sender
	users domain.UserRepository
}

func NewTelegramNotifier(api Sender, users domain.UserRepository) *TelegramNotifier {
	return &TelegramNotifier{api: api, users: users}
}

func (n *TelegramNotifier) Notify(ctx context.Context, userID, title, body string) error {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	// private chat id equals the telegram user id
	msg := tgbotapi.NewMessage(user.TelegramID, fmt.Sprintf("🔔 *%s*\n%s", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, title), tgbotapi.EscapeText(tgbotapi.ModeMarkdown, body)))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(msg); err != nil {
		return errors.NewNotificationError(err, "telegram").WithContext("user_id", userID)
	}
	return nil
}
