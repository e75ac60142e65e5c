package domain

import (
	"time"
)

// GlucoseContext describes when a glucose reading was taken
type GlucoseContext string

const (
	ContextFasting  GlucoseContext = "fasting"
	ContextPreMeal  GlucoseContext = "pre-meal"
	ContextPostMeal GlucoseContext = "post-meal"
	ContextBedtime  GlucoseContext = "bedtime"
)

// Valid reports whether c is one of the known reading contexts
func (c GlucoseContext) Valid() bool {
	switch c {
	case ContextFasting, ContextPreMeal, ContextPostMeal, ContextBedtime:
		return true
	}
	return false
}

// EntryKind identifies a record type in the entry store
type EntryKind string

const (
	KindGlucose  EntryKind = "glucose"
	KindMeal     EntryKind = "meal"
	KindSymptom  EntryKind = "symptom"
	KindWellness EntryKind = "wellness"
)

// GlucoseReading represents a blood glucose measurement in mmol/L
type GlucoseReading struct {
	ID        string
	UserID    string
	Value     float64
	Timestamp time.Time
	Context   GlucoseContext
}

// MealEntry represents a logged meal with its calculated bolus
type MealEntry struct {
	ID           string
	UserID       string
	Carbs        float64 // grams
	BreadUnits   float64
	InsulinUnits float64
	Timestamp    time.Time
}

// SymptomEntry represents a set of symptoms felt at one moment
type SymptomEntry struct {
	ID        string
	UserID    string
	Names     []string
	Severity  int // 1..5
	Timestamp time.Time
}

// WellnessEntry represents daily vitals. Stored and exported only.
type WellnessEntry struct {
	ID          string
	UserID      string
	Weight      float64
	SleepHours  float64
	WaterLiters float64
	Timestamp   time.Time
}

// EntryEvent is published every time a record is appended for a user
type EntryEvent struct {
	UserID string    `json:"user_id"`
	Kind   EntryKind `json:"kind"`
}

// ReminderCategory groups reminders by what they remind about
type ReminderCategory string

const (
	CategoryGlucose    ReminderCategory = "glucose"
	CategoryMedication ReminderCategory = "medication"
	CategoryBolus      ReminderCategory = "bolus"
)

// ReminderRule is a recurring daily alert
type ReminderRule struct {
	ID        string           `json:"id"`
	Label     string           `json:"label"`
	TimeOfDay string           `json:"time"` // Format: "HH:MM"
	Enabled   bool             `json:"enabled"`
	Category  ReminderCategory `json:"type"`
}

// FiredMarker identifies one firing slot of a rule
type FiredMarker struct {
	UserID    string
	RuleID    string
	Date      string // Format: "2006-01-02"
	TimeOfDay string
}

// NotificationPermission mirrors the user's consent to receive notifications
type NotificationPermission string

const (
	PermissionDefault NotificationPermission = "default"
	PermissionGranted NotificationPermission = "granted"
	PermissionDenied  NotificationPermission = "denied"
)

// User represents a registered user of the service
type User struct {
	ID         string
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Permission NotificationPermission
	CreatedAt  time.Time
}
