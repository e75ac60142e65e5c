package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

// Sender is the part of the bot API menus need
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	text := `🩺 *DiabetesCare* — your metabolic companion

Log glucose, meals, symptoms and daily vitals. I keep an eye on the trend,
project where your glucose is heading and remind you when it is time.

⚠️ *Important:* this is reference information, always consult your doctor!

Choose an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendSettingsMenu sends the settings menu to a chat
func SendSettingsMenu(api Sender, chatID int64, unit analytics.GlucoseUnit, permission domain.NotificationPermission) error {
	text := fmt.Sprintf("⚙️ Settings\n\nUnits: %s\nNotifications: %s", unit, permissionText(permission))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.SettingsMenu(unit, permission)
	_, err := api.Send(msg)
	return err
}

// SendRemindersMenu sends the reminder list with its management keyboard
func SendRemindersMenu(api Sender, chatID int64, rules []domain.ReminderRule, permission domain.NotificationPermission) error {
	var b strings.Builder
	b.WriteString("⏰ Reminders\n\n")
	for _, r := range rules {
		status := "off"
		if r.Enabled {
			status = "on"
		}
		fmt.Fprintf(&b, "• %s at %s (%s)\n", r.Label, r.TimeOfDay, status)
	}
	b.WriteString("\nTap a reminder to switch it on or off, or its time to change it.")
	if permission != domain.PermissionGranted {
		b.WriteString("\n\n🔕 Notifications are off. Enable them in settings or with /notify on.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = keyboards.RemindersMenu(rules)
	_, err := api.Send(msg)
	return err
}

func permissionText(p domain.NotificationPermission) string {
	switch p {
	case domain.PermissionGranted:
		return "on"
	case domain.PermissionDenied:
		return "off"
	default:
		return "not set"
	}
}
