package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
	"github.com/vladimiradmaev/diabetes-care/internal/metrics"
)

const (
	RiskAlertTitle = "DiabetesCare Risk Alert"

	riskAlertTTL = 24 * time.Hour
)

func riskLevelKey(userID string) string { return fmt.Sprintf("risk:%s:level", userID) }

func riskAlertKey(userID string, level analytics.RiskLevel, readingID string) string {
	return fmt.Sprintf("risk:%s:alert:%s:%s", userID, level, readingID)
}

// RiskWatcher recomputes the forecast whenever a glucose reading is logged
// and notifies the user when the risk level moves into watchful or critical.
type RiskWatcher struct {
	feed     domain.EntryFeed
	store    domain.EntryStore
	kv       domain.KeyValueStore
	notifier domain.Notifier
	users    domain.UserRepository
	metrics  *metrics.Metrics
	log      *slog.Logger
	errs     *errors.Handler
}

func NewRiskWatcher(feed domain.EntryFeed, store domain.EntryStore, kv domain.KeyValueStore, notifier domain.Notifier, users domain.UserRepository, m *metrics.Metrics) *RiskWatcher {
	if m == nil {
		m = metrics.NewNop()
	}
	log := logger.WithComponent("risk_watcher")
	return &RiskWatcher{
		feed:     feed,
		store:    store,
		kv:       kv,
		notifier: notifier,
		users:    users,
		metrics:  m,
		log:      log,
		errs:     errors.NewHandler(log),
	}
}

// Run consumes the entry feed until ctx is cancelled
func (w *RiskWatcher) Run(ctx context.Context) error {
	events, err := w.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	w.log.Info("Risk watcher started")
	for event := range events {
		if event.Kind != domain.KindGlucose {
			continue
		}
		if _, err := w.Evaluate(ctx, event.UserID); err != nil {
			w.errs.Handle(ctx, err)
		}
	}
	w.log.Info("Risk watcher stopped")
	return nil
}

// Evaluate recomputes the user's forecast and alerts on a transition into an
// elevated risk level. It reports whether a notification was sent.
func (w *RiskWatcher) Evaluate(ctx context.Context, userID string) (bool, error) {
	readings, err := w.store.GlucoseReadings(ctx, userID)
	if err != nil {
		return false, err
	}
	result := analytics.Forecast(readings)
	w.metrics.Forecasts.WithLabelValues(string(result.RiskLevel)).Inc()

	previous, hadPrevious, err := w.kv.Get(ctx, riskLevelKey(userID))
	if err != nil {
		return false, err
	}
	if err := w.kv.Set(ctx, riskLevelKey(userID), string(result.RiskLevel)); err != nil {
		return false, err
	}

	if !elevated(result.RiskLevel) || analytics.RiskLevel(previous) == result.RiskLevel {
		return false, nil
	}

	user, err := w.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.Permission != domain.PermissionGranted {
		return false, nil
	}

	// one alert per reading even when several replicas see the same event
	alertKey := riskAlertKey(userID, result.RiskLevel, readings[0].ID)
	claimed, err := w.kv.SetIfAbsent(ctx, alertKey, "1", riskAlertTTL)
	if err != nil || !claimed {
		return false, err
	}

	body := fmt.Sprintf("%s Projected %.1f mmol/L in 60 min (%+.2f/h). %s",
		MessageText(result.MessageKey), result.ProjectedValue, result.Velocity, MessageText(result.AdviceKey))
	if err := w.notifier.Notify(ctx, userID, RiskAlertTitle, body); err != nil {
		w.metrics.NotifyFailures.WithLabelValues("risk").Inc()
		// undo both writes so the next reading or a replay retries the alert
		w.rollback(ctx, userID, alertKey, previous, hadPrevious)
		return false, err
	}

	w.log.Info("Risk alert sent", "user_id", userID, "risk", result.RiskLevel, "projected", result.ProjectedValue)
	return true, nil
}

func (w *RiskWatcher) rollback(ctx context.Context, userID, alertKey, previous string, hadPrevious bool) {
	if err := w.kv.Delete(ctx, alertKey); err != nil {
		w.log.Error("Failed to release risk alert claim", "key", alertKey, "error", err)
	}

	levelKey := riskLevelKey(userID)
	var err error
	if hadPrevious {
		err = w.kv.Set(ctx, levelKey, previous)
	} else {
		err = w.kv.Delete(ctx, levelKey)
	}
	if err != nil {
		w.log.Error("Failed to restore risk level", "key", levelKey, "error", err)
	}
}

func elevated(level analytics.RiskLevel) bool {
	return level == analytics.RiskWatchful || level == analytics.RiskCritical
}
