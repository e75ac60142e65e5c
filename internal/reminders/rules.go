// Package reminders stores per-user reminder rules and fires them once per
// rule per day.
package reminders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
	"github.com/vladimiradmaev/diabetes-care/internal/utils"
)

// SchemaVersion is the version written into every rules document
const SchemaVersion = 1

type rulesDocument struct {
	Version int                   `json:"version"`
	Rules   []domain.ReminderRule `json:"rules"`
}

// DefaultRules is the set every user starts with
func DefaultRules() []domain.ReminderRule {
	return []domain.ReminderRule{
		{ID: "1", Label: "Morning Glucose Check", TimeOfDay: "08:00", Enabled: false, Category: domain.CategoryGlucose},
		{ID: "2", Label: "Post-Lunch Bolus", TimeOfDay: "14:00", Enabled: false, Category: domain.CategoryBolus},
		{ID: "3", Label: "Evening Medication", TimeOfDay: "20:00", Enabled: false, Category: domain.CategoryMedication},
	}
}

func rulesKey(userID string) string {
	return fmt.Sprintf("reminders:%s:rules", userID)
}

// RuleStore persists each user's rules as one versioned JSON document
type RuleStore struct {
	kv domain.KeyValueStore
	// serializes read-modify-write of a document
	mu sync.Mutex
}

func NewRuleStore(kv domain.KeyValueStore) *RuleStore {
	return &RuleStore{kv: kv}
}

// Load returns the user's rules, creating and persisting the defaults on first use
func (s *RuleStore) Load(ctx context.Context, userID string) ([]domain.ReminderRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, userID)
}

func (s *RuleStore) load(ctx context.Context, userID string) ([]domain.ReminderRule, error) {
	raw, ok, err := s.kv.Get(ctx, rulesKey(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		rules := DefaultRules()
		if err := s.save(ctx, userID, rules); err != nil {
			return nil, err
		}
		return rules, nil
	}

	doc, err := decodeRules([]byte(raw))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeStorage, "RULES_DECODE", "Stored reminder rules are unreadable").
			WithContext("user_id", userID)
	}
	if doc.Version > SchemaVersion {
		return nil, errors.ErrUnsupportedSchema.
			WithContext("user_id", userID).
			WithContext("version", doc.Version)
	}
	if doc.Version < SchemaVersion {
		logger.Info("Upgrading reminder rules document", "user_id", userID, "from_version", doc.Version)
		if err := s.save(ctx, userID, doc.Rules); err != nil {
			return nil, err
		}
	}
	return doc.Rules, nil
}

// decodeRules accepts the current envelope and the legacy bare array (version 0)
func decodeRules(raw []byte) (rulesDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rules []domain.ReminderRule
		if err := json.Unmarshal(trimmed, &rules); err != nil {
			return rulesDocument{}, err
		}
		return rulesDocument{Version: 0, Rules: rules}, nil
	}

	var doc rulesDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return rulesDocument{}, err
	}
	return doc, nil
}

func (s *RuleStore) save(ctx context.Context, userID string, rules []domain.ReminderRule) error {
	data, err := json.Marshal(rulesDocument{Version: SchemaVersion, Rules: rules})
	if err != nil {
		return errors.NewInternalError(err)
	}
	return s.kv.Set(ctx, rulesKey(userID), string(data))
}

// mutate applies fn to the rule with ruleID and persists the whole document
func (s *RuleStore) mutate(ctx context.Context, userID, ruleID string, fn func(*domain.ReminderRule)) (domain.ReminderRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.load(ctx, userID)
	if err != nil {
		return domain.ReminderRule{}, err
	}

	for i := range rules {
		if rules[i].ID != ruleID {
			continue
		}
		fn(&rules[i])
		if err := s.save(ctx, userID, rules); err != nil {
			return domain.ReminderRule{}, err
		}
		return rules[i], nil
	}

	return domain.ReminderRule{}, errors.ErrRuleNotFound.
		WithContext("user_id", userID).
		WithContext("rule_id", ruleID)
}

// Toggle flips the enabled flag of a rule
func (s *RuleStore) Toggle(ctx context.Context, userID, ruleID string) (domain.ReminderRule, error) {
	return s.mutate(ctx, userID, ruleID, func(r *domain.ReminderRule) {
		r.Enabled = !r.Enabled
	})
}

// SetEnabled sets the enabled flag of a rule
func (s *RuleStore) SetEnabled(ctx context.Context, userID, ruleID string, enabled bool) (domain.ReminderRule, error) {
	return s.mutate(ctx, userID, ruleID, func(r *domain.ReminderRule) {
		r.Enabled = enabled
	})
}

// UpdateTime changes when a rule fires. Markers already written for the old
// slot are left alone.
func (s *RuleStore) UpdateTime(ctx context.Context, userID, ruleID, timeOfDay string) (domain.ReminderRule, error) {
	normalized, err := utils.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return domain.ReminderRule{}, errors.ErrInvalidTimeOfDay.WithContext("value", timeOfDay)
	}
	return s.mutate(ctx, userID, ruleID, func(r *domain.ReminderRule) {
		r.TimeOfDay = normalized
	})
}
