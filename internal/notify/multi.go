package notify

import (
	"context"
	stderrors "errors"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

// Multi fans a notification out to every channel. It fails only when no
// channel delivered.
type Multi []domain.Notifier

func (m Multi) Notify(ctx context.Context, userID, title, body string) error {
	if len(m) == 0 {
		return nil
	}

	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, userID, title, body); err != nil {
			errs = append(errs, err)
		}
	}

	switch {
	case len(errs) == len(m):
		return stderrors.Join(errs...)
	case len(errs) > 0:
		logger.Warn("Notification partially delivered", "user_id", userID, "failed_channels", len(errs), "error", stderrors.Join(errs...))
	}
	return nil
}
