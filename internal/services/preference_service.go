package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

// MedicalID is the emergency card shown by /sos
type MedicalID struct {
	DiabetesType     string `json:"diabetes_type"`
	BloodType        string `json:"blood_type"`
	EmergencyContact string `json:"emergency_contact"`
	Notes            string `json:"notes"`
}

// PreferenceService keeps small per-user settings in the key/value store
type PreferenceService struct {
	kv domain.KeyValueStore
}

func NewPreferenceService(kv domain.KeyValueStore) *PreferenceService {
	return &PreferenceService{kv: kv}
}

func unitKey(userID string) string      { return fmt.Sprintf("prefs:%s:unit", userID) }
func medicalIDKey(userID string) string { return fmt.Sprintf("prefs:%s:medical_id", userID) }

// Unit returns the display unit, mmol/L unless the user chose otherwise
func (s *PreferenceService) Unit(ctx context.Context, userID string) (analytics.GlucoseUnit, error) {
	raw, ok, err := s.kv.Get(ctx, unitKey(userID))
	if err != nil {
		return analytics.UnitMmol, err
	}
	if !ok {
		return analytics.UnitMmol, nil
	}
	unit, valid := analytics.ParseGlucoseUnit(raw)
	if !valid {
		return analytics.UnitMmol, nil
	}
	return unit, nil
}

func (s *PreferenceService) SetUnit(ctx context.Context, userID, unit string) (analytics.GlucoseUnit, error) {
	parsed, ok := analytics.ParseGlucoseUnit(unit)
	if !ok {
		return "", errors.NewValidationError("unit must be mmol or mgdl").WithContext("unit", unit)
	}
	if err := s.kv.Set(ctx, unitKey(userID), string(parsed)); err != nil {
		return "", err
	}
	return parsed, nil
}

// MedicalID returns the stored card, or nil when none was saved
func (s *PreferenceService) MedicalID(ctx context.Context, userID string) (*MedicalID, error) {
	raw, ok, err := s.kv.Get(ctx, medicalIDKey(userID))
	if err != nil || !ok {
		return nil, err
	}
	var id MedicalID
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "MEDICAL_ID_DECODE", "Stored medical ID is unreadable").
			WithContext("user_id", userID)
	}
	return &id, nil
}

// ParseMedicalID reads "type; blood; contact; notes". Missing trailing fields stay empty.
func ParseMedicalID(text string) (*MedicalID, error) {
	parts := strings.SplitN(text, ";", 4)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	if parts[0] == "" {
		return nil, errors.NewValidationError("diabetes type is required")
	}
	return &MedicalID{
		DiabetesType:     parts[0],
		BloodType:        parts[1],
		EmergencyContact: parts[2],
		Notes:            parts[3],
	}, nil
}

func (s *PreferenceService) SetMedicalID(ctx context.Context, userID string, id *MedicalID) error {
	data, err := json.Marshal(id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	return s.kv.Set(ctx, medicalIDKey(userID), string(data))
}
