package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type memoryEntries struct {
	mu       sync.Mutex
	seq      int
	glucose  []domain.GlucoseReading
	meals    []domain.MealEntry
	symptoms []domain.SymptomEntry
	wellness []domain.WellnessEntry
	fail     error
}

func (m *memoryEntries) nextID() string {
	m.seq++
	return fmt.Sprintf("e%d", m.seq)
}

func newestFirst[T any](items []T, at func(T) time.Time) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	return out
}

func ownedBy[T any](items []T, userID string, owner func(T) string) []T {
	var out []T
	for _, it := range items {
		if owner(it) == userID {
			out = append(out, it)
		}
	}
	return out
}

func (m *memoryEntries) GlucoseReadings(_ context.Context, userID string) ([]domain.GlucoseReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	mine := ownedBy(m.glucose, userID, func(g domain.GlucoseReading) string { return g.UserID })
	return newestFirst(mine, func(g domain.GlucoseReading) time.Time { return g.Timestamp }), nil
}

func (m *memoryEntries) Meals(_ context.Context, userID string) ([]domain.MealEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mine := ownedBy(m.meals, userID, func(e domain.MealEntry) string { return e.UserID })
	return newestFirst(mine, func(e domain.MealEntry) time.Time { return e.Timestamp }), nil
}

func (m *memoryEntries) Symptoms(_ context.Context, userID string) ([]domain.SymptomEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mine := ownedBy(m.symptoms, userID, func(e domain.SymptomEntry) string { return e.UserID })
	return newestFirst(mine, func(e domain.SymptomEntry) time.Time { return e.Timestamp }), nil
}

func (m *memoryEntries) Wellness(_ context.Context, userID string) ([]domain.WellnessEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mine := ownedBy(m.wellness, userID, func(e domain.WellnessEntry) string { return e.UserID })
	return newestFirst(mine, func(e domain.WellnessEntry) time.Time { return e.Timestamp }), nil
}

func (m *memoryEntries) AppendGlucose(_ context.Context, r *domain.GlucoseReading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	r.ID = m.nextID()
	m.glucose = append(m.glucose, *r)
	return nil
}

func (m *memoryEntries) AppendMeal(_ context.Context, e *domain.MealEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID()
	m.meals = append(m.meals, *e)
	return nil
}

func (m *memoryEntries) AppendSymptom(_ context.Context, e *domain.SymptomEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID()
	m.symptoms = append(m.symptoms, *e)
	return nil
}

func (m *memoryEntries) AppendWellness(_ context.Context, e *domain.WellnessEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID()
	m.wellness = append(m.wellness, *e)
	return nil
}

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUsers(users ...domain.User) *memoryUsers {
	m := &memoryUsers{users: make(map[string]*domain.User)}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
	}
	return m
}

func (m *memoryUsers) GetOrCreateByTelegramID(_ context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.TelegramID == telegramID {
			return u, nil
		}
	}
	u := &domain.User{ID: fmt.Sprintf("tg%d", telegramID), TelegramID: telegramID, Username: username, FirstName: firstName, LastName: lastName, Permission: domain.PermissionDefault}
	m.users[u.ID] = u
	return u, nil
}

func (m *memoryUsers) GetByID(_ context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, errors.ErrUserNotFound.WithContext("user_id", userID)
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUsers) SetPermission(_ context.Context, userID string, p domain.NotificationPermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return errors.ErrUserNotFound.WithContext("user_id", userID)
	}
	u.Permission = p
	return nil
}

func (m *memoryUsers) ListByPermission(_ context.Context, p domain.NotificationPermission) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.Permission == p {
			out = append(out, *u)
		}
	}
	return out, nil
}

type sentNotification struct {
	userID, title, body string
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	// failures makes the next n Notify calls fail
	failures int
}

func (c *captureNotifier) Notify(_ context.Context, userID, title, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return fmt.Errorf("chat %s unreachable", userID)
	}
	c.sent = append(c.sent, sentNotification{userID, title, body})
	return nil
}

type watchSet map[string]bool

func (w watchSet) Watch(userID string)   { w[userID] = true }
func (w watchSet) Unwatch(userID string) { delete(w, userID) }
