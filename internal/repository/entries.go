package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/diabetes-care/internal/database"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

// EntryRepository stores health records in postgres. Lists are newest-first.
type EntryRepository struct {
	db *gorm.DB
}

func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// listByUser loads all rows of T owned by userID, newest first
func listByUser[T any](ctx context.Context, db *gorm.DB, userID string) ([]T, error) {
	var rows []T
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&rows).Error; err != nil {
		return nil, errors.NewStorageError(err, "list").WithContext("user_id", userID)
	}
	return rows, nil
}

func (r *EntryRepository) GlucoseReadings(ctx context.Context, userID string) ([]domain.GlucoseReading, error) {
	rows, err := listByUser[database.GlucoseRecord](ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.GlucoseReading, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *EntryRepository) Meals(ctx context.Context, userID string) ([]domain.MealEntry, error) {
	rows, err := listByUser[database.MealRecord](ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MealEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *EntryRepository) Symptoms(ctx context.Context, userID string) ([]domain.SymptomEntry, error) {
	rows, err := listByUser[database.SymptomRecord](ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SymptomEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *EntryRepository) Wellness(ctx context.Context, userID string) ([]domain.WellnessEntry, error) {
	rows, err := listByUser[database.WellnessRecord](ctx, r.db, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WellnessEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *EntryRepository) create(ctx context.Context, row any) error {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return errors.NewStorageError(err, "create")
	}
	return nil
}

func (r *EntryRepository) AppendGlucose(ctx context.Context, reading *domain.GlucoseReading) error {
	row := database.GlucoseRecordFrom(reading)
	if err := r.create(ctx, row); err != nil {
		return err
	}
	reading.ID = row.ID
	return nil
}

func (r *EntryRepository) AppendMeal(ctx context.Context, meal *domain.MealEntry) error {
	row := database.MealRecordFrom(meal)
	if err := r.create(ctx, row); err != nil {
		return err
	}
	meal.ID = row.ID
	return nil
}

func (r *EntryRepository) AppendSymptom(ctx context.Context, symptom *domain.SymptomEntry) error {
	row := database.SymptomRecordFrom(symptom)
	if err := r.create(ctx, row); err != nil {
		return err
	}
	symptom.ID = row.ID
	return nil
}

func (r *EntryRepository) AppendWellness(ctx context.Context, entry *domain.WellnessEntry) error {
	row := database.WellnessRecordFrom(entry)
	if err := r.create(ctx, row); err != nil {
		return err
	}
	entry.ID = row.ID
	return nil
}
