package services

import (
	"context"
	"io"
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/export"
)

type ExportService struct {
	store domain.EntryStore
	loc   *time.Location
}

func NewExportService(store domain.EntryStore, loc *time.Location) *ExportService {
	return &ExportService{store: store, loc: loc}
}

// ExportCSV writes every record of the user and returns the row count
func (s *ExportService) ExportCSV(ctx context.Context, userID string, w io.Writer) (int, error) {
	var (
		records export.Records
		err     error
	)
	if records.Glucose, err = s.store.GlucoseReadings(ctx, userID); err != nil {
		return 0, err
	}
	if records.Meals, err = s.store.Meals(ctx, userID); err != nil {
		return 0, err
	}
	if records.Symptoms, err = s.store.Symptoms(ctx, userID); err != nil {
		return 0, err
	}
	if records.Wellness, err = s.store.Wellness(ctx, userID); err != nil {
		return 0, err
	}

	if err := export.WriteCSV(w, records, s.loc); err != nil {
		return 0, err
	}
	return records.Len(), nil
}
