package services

import (
	"context"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// RegisterUser returns the user for a Telegram account, creating it on first contact
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	return s.users.GetOrCreateByTelegramID(ctx, telegramID, username, firstName, lastName)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
