package services

import (
	"context"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
	"github.com/vladimiradmaev/diabetes-care/internal/reminders"
)

// Watcher is the part of the scheduler that decides whose rules are polled
type Watcher interface {
	Watch(userID string)
	Unwatch(userID string)
}

// ReminderService manages rules and notification consent. Only users who
// granted permission are handed to the scheduler.
type ReminderService struct {
	rules   *reminders.RuleStore
	users   domain.UserRepository
	watcher Watcher
}

func NewReminderService(rules *reminders.RuleStore, users domain.UserRepository, watcher Watcher) *ReminderService {
	return &ReminderService{rules: rules, users: users, watcher: watcher}
}

func (s *ReminderService) Rules(ctx context.Context, userID string) ([]domain.ReminderRule, error) {
	return s.rules.Load(ctx, userID)
}

func (s *ReminderService) Toggle(ctx context.Context, userID, ruleID string) (domain.ReminderRule, error) {
	return s.rules.Toggle(ctx, userID, ruleID)
}

func (s *ReminderService) UpdateTime(ctx context.Context, userID, ruleID, timeOfDay string) (domain.ReminderRule, error) {
	return s.rules.UpdateTime(ctx, userID, ruleID, timeOfDay)
}

// SetPermission records the user's consent and starts or stops polling their rules
func (s *ReminderService) SetPermission(ctx context.Context, userID string, permission domain.NotificationPermission) error {
	switch permission {
	case domain.PermissionGranted, domain.PermissionDenied, domain.PermissionDefault:
	default:
		return errors.NewValidationError("unknown notification permission").WithContext("permission", permission)
	}

	if err := s.users.SetPermission(ctx, userID, permission); err != nil {
		return err
	}

	if permission == domain.PermissionGranted {
		s.watcher.Watch(userID)
	} else {
		s.watcher.Unwatch(userID)
	}
	logger.Info("Notification permission changed", "user_id", userID, "permission", permission)
	return nil
}

// Restore watches every user who granted permission. Called once at startup.
func (s *ReminderService) Restore(ctx context.Context) (int, error) {
	users, err := s.users.ListByPermission(ctx, domain.PermissionGranted)
	if err != nil {
		return 0, err
	}
	for _, u := range users {
		s.watcher.Watch(u.ID)
	}
	return len(users), nil
}
