// Package notify delivers reminder and risk notifications over the desktop
// and Telegram.
package notify

import (
	"context"

	"github.com/gen2brain/beeep"

	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

// DesktopNotifier shows a system notification on the host running the
// service. It suits single-user installs; userID is not used for routing.
type DesktopNotifier struct {
	send func(title, message, appIcon string) error
	icon string
}

func NewDesktopNotifier(icon string) *DesktopNotifier {
	return &DesktopNotifier{send: beeepNotify, icon: icon}
}

func beeepNotify(title, message, appIcon string) error {
	return beeep.Notify(title, message, appIcon)
}

func (n *DesktopNotifier) Notify(_ context.Context, userID, title, body string) error {
	if err := n.send(title, body, n.icon); err != nil {
		return errors.NewNotificationError(err, "desktop").WithContext("user_id", userID)
	}
	return nil
}
