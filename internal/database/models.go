package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

// Base gives every table a UUID primary key
type Base struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	Base
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
	Permission string `gorm:"size:16;default:default"`
}

func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Permission: domain.NotificationPermission(u.Permission),
		CreatedAt:  u.CreatedAt,
	}
}

type GlucoseRecord struct {
	Base
	UserID    string `gorm:"type:uuid;not null"`
	Value     float64
	Context   string `gorm:"size:16"`
	Timestamp time.Time
}

func (r *GlucoseRecord) ToDomain() domain.GlucoseReading {
	return domain.GlucoseReading{
		ID:        r.ID,
		UserID:    r.UserID,
		Value:     r.Value,
		Timestamp: r.Timestamp,
		Context:   domain.GlucoseContext(r.Context),
	}
}

func GlucoseRecordFrom(g *domain.GlucoseReading) *GlucoseRecord {
	return &GlucoseRecord{
		Base:      Base{ID: g.ID},
		UserID:    g.UserID,
		Value:     g.Value,
		Context:   string(g.Context),
		Timestamp: g.Timestamp,
	}
}

type MealRecord struct {
	Base
	UserID       string `gorm:"type:uuid;not null"`
	Carbs        float64
	BreadUnits   float64
	InsulinUnits float64
	Timestamp    time.Time
}

func (r *MealRecord) ToDomain() domain.MealEntry {
	return domain.MealEntry{
		ID:           r.ID,
		UserID:       r.UserID,
		Carbs:        r.Carbs,
		BreadUnits:   r.BreadUnits,
		InsulinUnits: r.InsulinUnits,
		Timestamp:    r.Timestamp,
	}
}

func MealRecordFrom(m *domain.MealEntry) *MealRecord {
	return &MealRecord{
		Base:         Base{ID: m.ID},
		UserID:       m.UserID,
		Carbs:        m.Carbs,
		BreadUnits:   m.BreadUnits,
		InsulinUnits: m.InsulinUnits,
		Timestamp:    m.Timestamp,
	}
}

type SymptomRecord struct {
	Base
	UserID    string   `gorm:"type:uuid;not null"`
	Names     []string `gorm:"serializer:json"`
	Severity  int
	Timestamp time.Time
}

func (r *SymptomRecord) ToDomain() domain.SymptomEntry {
	return domain.SymptomEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Names:     r.Names,
		Severity:  r.Severity,
		Timestamp: r.Timestamp,
	}
}

func SymptomRecordFrom(s *domain.SymptomEntry) *SymptomRecord {
	return &SymptomRecord{
		Base:      Base{ID: s.ID},
		UserID:    s.UserID,
		Names:     s.Names,
		Severity:  s.Severity,
		Timestamp: s.Timestamp,
	}
}

type WellnessRecord struct {
	Base
	UserID      string `gorm:"type:uuid;not null"`
	Weight      float64
	SleepHours  float64
	WaterLiters float64
	Timestamp   time.Time
}

func (r *WellnessRecord) ToDomain() domain.WellnessEntry {
	return domain.WellnessEntry{
		ID:          r.ID,
		UserID:      r.UserID,
		Weight:      r.Weight,
		SleepHours:  r.SleepHours,
		WaterLiters: r.WaterLiters,
		Timestamp:   r.Timestamp,
	}
}

func WellnessRecordFrom(w *domain.WellnessEntry) *WellnessRecord {
	return &WellnessRecord{
		Base:        Base{ID: w.ID},
		UserID:      w.UserID,
		Weight:      w.Weight,
		SleepHours:  w.SleepHours,
		WaterLiters: w.WaterLiters,
		Timestamp:   w.Timestamp,
	}
}

// Models lists every table managed by AutoMigrate
func Models() []any {
	return []any{&User{}, &GlucoseRecord{}, &MealRecord{}, &SymptomRecord{}, &WellnessRecord{}}
}
