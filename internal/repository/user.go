package repository

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diabetes-care/internal/database"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreateByTelegramID gets an existing user or registers a new one
func (r *UserRepository) GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	user := database.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Permission: string(domain.PermissionDefault),
	}

	result := r.db.WithContext(ctx).FirstOrCreate(&user, database.User{TelegramID: telegramID})
	if result.Error != nil {
		return nil, errors.NewStorageError(result.Error, "register_user").WithContext("telegram_id", telegramID)
	}
	return user.ToDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrUserNotFound.WithContext("user_id", userID)
	}
	if err != nil {
		return nil, errors.NewStorageError(err, "get_user").WithContext("user_id", userID)
	}
	return user.ToDomain(), nil
}

func (r *UserRepository) SetPermission(ctx context.Context, userID string, permission domain.NotificationPermission) error {
	result := r.db.WithContext(ctx).
		Model(&database.User{}).
		Where("id = ?", userID).
		Update("permission", string(permission))
	if result.Error != nil {
		return errors.NewStorageError(result.Error, "set_permission").WithContext("user_id", userID)
	}
	if result.RowsAffected == 0 {
		return errors.ErrUserNotFound.WithContext("user_id", userID)
	}
	return nil
}

func (r *UserRepository) ListByPermission(ctx context.Context, permission domain.NotificationPermission) ([]domain.User, error) {
	var rows []database.User
	if err := r.db.WithContext(ctx).Where("permission = ?", string(permission)).Find(&rows).Error; err != nil {
		return nil, errors.NewStorageError(err, "list_users")
	}

	users := make([]domain.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}
