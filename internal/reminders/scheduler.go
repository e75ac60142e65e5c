package reminders

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
	"github.com/vladimiradmaev/diabetes-care/internal/metrics"
	"github.com/vladimiradmaev/diabetes-care/internal/utils"
)

const (
	// PollSpec is how often wall-clock time is compared against the rules
	PollSpec = "@every 30s"

	NotificationTitle = "DiabetesCare Alert"

	// markers only have to outlive the minute they guard
	markerTTL = 48 * time.Hour

	tickTimeout = 20 * time.Second
)

func markerKey(m domain.FiredMarker) string {
	return fmt.Sprintf("reminders:%s:fired:%s:%s:%s", m.UserID, m.RuleID, m.Date, m.TimeOfDay)
}

// Scheduler polls the clock and notifies watched users when one of their
// enabled rules matches the current minute. Each (user, rule, date, time)
// slot is claimed with an atomic set-if-absent before notifying, so a slot
// fires at most once even across several ticks or processes.
type Scheduler struct {
	rules    *RuleStore
	markers  domain.KeyValueStore
	notifier domain.Notifier
	clock    domain.Clock
	metrics  *metrics.Metrics
	log      *slog.Logger

	cron *cron.Cron

	mu      sync.Mutex
	watched map[string]struct{}
	// held for the duration of a tick so ticks never overlap
	tickMu sync.Mutex
}

func NewScheduler(rules *RuleStore, markers domain.KeyValueStore, notifier domain.Notifier, clock domain.Clock, m *metrics.Metrics) *Scheduler {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Scheduler{
		rules:    rules,
		markers:  markers,
		notifier: notifier,
		clock:    clock,
		metrics:  m,
		log:      logger.WithComponent("reminder_scheduler"),
		cron:     cron.New(),
		watched:  make(map[string]struct{}),
	}
}

// Watch adds a user whose rules are checked on every tick
func (s *Scheduler) Watch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watched[userID] = struct{}{}
}

// Unwatch stops checking a user's rules
func (s *Scheduler) Unwatch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watched, userID)
}

// Watching reports whether userID is checked on every tick
func (s *Scheduler) Watching(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watched[userID]
	return ok
}

func (s *Scheduler) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]string, 0, len(s.watched))
	for id := range s.watched {
		users = append(users, id)
	}
	sort.Strings(users)
	return users
}

// Start begins polling in the background
func (s *Scheduler) Start() error {
	s.log.Info("Starting reminder scheduler", "spec", PollSpec)

	_, err := s.cron.AddFunc(PollSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()
		s.Tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop halts polling and waits for a running tick to finish
func (s *Scheduler) Stop() {
	s.log.Info("Stopping reminder scheduler")
	<-s.cron.Stop().Done()
	s.log.Info("Reminder scheduler stopped")
}

// Tick runs one poll against the current time and returns how many
// notifications were sent.
func (s *Scheduler) Tick(ctx context.Context) int {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	now := s.clock.Now()
	hhmm := utils.ClockTime(now)
	date := utils.CalendarDate(now)

	sent := 0
	for _, userID := range s.snapshot() {
		if ctx.Err() != nil {
			s.log.Warn("Tick interrupted", "error", ctx.Err())
			break
		}

		rules, err := s.rules.Load(ctx, userID)
		if err != nil {
			s.log.Error("Failed to load reminder rules", "user_id", userID, "error", err)
			continue
		}

		for _, rule := range rules {
			if !rule.Enabled || rule.TimeOfDay != hhmm {
				continue
			}
			marker := domain.FiredMarker{UserID: userID, RuleID: rule.ID, Date: date, TimeOfDay: hhmm}
			if s.fire(ctx, marker, rule) {
				sent++
			}
		}
	}
	return sent
}

func (s *Scheduler) fire(ctx context.Context, marker domain.FiredMarker, rule domain.ReminderRule) bool {
	key := markerKey(marker)

	claimed, err := s.markers.SetIfAbsent(ctx, key, "1", markerTTL)
	if err != nil {
		s.log.Error("Failed to claim reminder slot", "key", key, "error", err)
		return false
	}
	if !claimed {
		s.metrics.RemindersDeduplicated.Inc()
		return false
	}

	body := "Time for your: " + rule.Label
	if err := s.notifier.Notify(ctx, marker.UserID, NotificationTitle, body); err != nil {
		s.metrics.NotifyFailures.WithLabelValues("reminder").Inc()
		s.log.Warn("Reminder notification failed", "user_id", marker.UserID, "rule_id", rule.ID, "error", err)
		// release the slot so the next tick within the same minute can retry
		if delErr := s.markers.Delete(ctx, key); delErr != nil {
			s.log.Error("Failed to release reminder slot", "key", key, "error", delErr)
		}
		return false
	}

	s.metrics.RemindersFired.Inc()
	s.log.Info("Reminder fired", "user_id", marker.UserID, "rule_id", rule.ID, "time", marker.TimeOfDay, "date", marker.Date)
	return true
}
