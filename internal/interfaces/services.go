package interfaces

import (
	"context"
	"io"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// EntryServiceInterface defines the contract for logging health records
type EntryServiceInterface interface {
	LogGlucose(ctx context.Context, userID string, value float64, readingCtx domain.GlucoseContext) (*domain.GlucoseReading, error)
	LogMeal(ctx context.Context, userID string, carbs, gramsPerBreadUnit, insulinPerBreadUnit float64) (*domain.MealEntry, error)
	LogSymptoms(ctx context.Context, userID string, names []string, severity int) (*domain.SymptomEntry, error)
	LogWellness(ctx context.Context, userID string, weight, sleepHours, waterLiters float64) (*domain.WellnessEntry, error)
}

// MetricsServiceInterface defines the contract for derived metrics
type MetricsServiceInterface interface {
	Report(ctx context.Context, userID string) (*services.Report, error)
	Forecast(ctx context.Context, userID string) (analytics.ForecastResult, error)
}

// ReminderServiceInterface defines the contract for reminder rules and consent
type ReminderServiceInterface interface {
	Rules(ctx context.Context, userID string) ([]domain.ReminderRule, error)
	Toggle(ctx context.Context, userID, ruleID string) (domain.ReminderRule, error)
	UpdateTime(ctx context.Context, userID, ruleID, timeOfDay string) (domain.ReminderRule, error)
	SetPermission(ctx context.Context, userID string, permission domain.NotificationPermission) error
}

// PreferenceServiceInterface defines the contract for per-user settings
type PreferenceServiceInterface interface {
	Unit(ctx context.Context, userID string) (analytics.GlucoseUnit, error)
	SetUnit(ctx context.Context, userID, unit string) (analytics.GlucoseUnit, error)
	MedicalID(ctx context.Context, userID string) (*services.MedicalID, error)
	SetMedicalID(ctx context.Context, userID string, id *services.MedicalID) error
}

// ExportServiceInterface defines the contract for data export
type ExportServiceInterface interface {
	ExportCSV(ctx context.Context, userID string, w io.Writer) (int, error)
}
