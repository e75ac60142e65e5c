package domain

import (
	"context"
	"time"
)

// EntryStore reads and appends health records. Lists are newest-first.
type EntryStore interface {
	GlucoseReadings(ctx context.Context, userID string) ([]GlucoseReading, error)
	Meals(ctx context.Context, userID string) ([]MealEntry, error)
	Symptoms(ctx context.Context, userID string) ([]SymptomEntry, error)
	Wellness(ctx context.Context, userID string) ([]WellnessEntry, error)

	AppendGlucose(ctx context.Context, reading *GlucoseReading) error
	AppendMeal(ctx context.Context, meal *MealEntry) error
	AppendSymptom(ctx context.Context, symptom *SymptomEntry) error
	AppendWellness(ctx context.Context, entry *WellnessEntry) error
}

// EntryFeed delivers a notification every time a user's records change
type EntryFeed interface {
	Publish(ctx context.Context, event EntryEvent) error
	Subscribe(ctx context.Context) (<-chan EntryEvent, error)
}

// Notifier delivers a notification to a user
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string) error
}

// KeyValueStore persists string pairs locally
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetIfAbsent stores value only when key is missing and reports whether it did.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Clock is the source of wall-clock time
type Clock interface {
	Now() time.Time
}

// UserRepository handles user records
type UserRepository interface {
	GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	SetPermission(ctx context.Context, userID string, permission NotificationPermission) error
	ListByPermission(ctx context.Context, permission NotificationPermission) ([]User, error)
}
