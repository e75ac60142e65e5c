package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/repository"
	"github.com/vladimiradmaev/diabetes-care/internal/storage"
)

type riskFixture struct {
	watcher  *RiskWatcher
	store    *memoryEntries
	kv       *storage.MemoryStore
	notifier *captureNotifier
	feed     *repository.MemoryFeed
}

func newRiskFixture(permission domain.NotificationPermission) *riskFixture {
	f := &riskFixture{
		store:    &memoryEntries{},
		kv:       storage.NewMemoryStore(),
		notifier: &captureNotifier{},
		feed:     repository.NewMemoryFeed(),
	}
	users := newMemoryUsers(domain.User{ID: "u1", Permission: permission})
	f.watcher = NewRiskWatcher(f.feed, f.store, f.kv, f.notifier, users, nil)
	return f
}

func (f *riskFixture) log(value float64, at time.Time) {
	r := &domain.GlucoseReading{UserID: "u1", Value: value, Timestamp: at}
	_ = f.store.AppendGlucose(context.Background(), r)
}

func (f *riskFixture) sent() []sentNotification {
	f.notifier.mu.Lock()
	defer f.notifier.mu.Unlock()
	return append([]sentNotification(nil), f.notifier.sent...)
}

func TestRiskWatcher_AlertsOnTransition(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	ctx := context.Background()

	f.log(5.0, testNow.Add(-time.Hour))
	f.log(3.5, testNow)

	sent, err := f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, sent)

	notes := f.sent()
	require.Len(t, notes, 1)
	assert.Equal(t, "u1", notes[0].userID)
	assert.Equal(t, RiskAlertTitle, notes[0].title)
	assert.Contains(t, notes[0].body, "Rapid descent")
	assert.Contains(t, notes[0].body, "2.0 mmol/L")

	level, ok, err := f.kv.Get(ctx, "risk:u1:level")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, string(analytics.RiskCritical), level)

	// same level again: no repeat
	sent, err = f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, f.sent(), 1)
}

func TestRiskWatcher_RealertsAfterRecovery(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	ctx := context.Background()

	f.log(5.0, testNow.Add(-2*time.Hour))
	f.log(3.5, testNow.Add(-time.Hour))
	_, err := f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)

	f.log(6.0, testNow.Add(-30*time.Minute))
	sent, err := f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, sent)

	f.log(4.0, testNow)
	sent, err = f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Len(t, f.sent(), 2)
}

func TestRiskWatcher_SkipsStableLevels(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)

	f.log(6.0, testNow.Add(-time.Hour))
	f.log(7.0, testNow)

	sent, err := f.watcher.Evaluate(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, f.sent())
}

func TestRiskWatcher_RequiresPermission(t *testing.T) {
	f := newRiskFixture(domain.PermissionDenied)
	ctx := context.Background()

	f.log(5.0, testNow.Add(-time.Hour))
	f.log(3.5, testNow)

	sent, err := f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, f.sent())

	level, _, _ := f.kv.Get(ctx, "risk:u1:level")
	assert.Equal(t, string(analytics.RiskCritical), level)
}

func TestRiskWatcher_ClaimsOncePerReading(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	ctx := context.Background()

	f.log(5.0, testNow.Add(-time.Hour))
	f.log(3.5, testNow)

	// another replica already alerted for this reading
	_, err := f.kv.SetIfAbsent(ctx, "risk:u1:alert:critical:e2", "1", time.Hour)
	require.NoError(t, err)

	sent, err := f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, f.sent())
}

func TestRiskWatcher_RetriesAfterNotifyFailure(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	f.notifier.failures = 1
	ctx := context.Background()

	f.log(5.0, testNow.Add(-2*time.Hour))
	f.log(3.5, testNow.Add(-time.Hour))

	sent, err := f.watcher.Evaluate(ctx, "u1")
	require.Error(t, err)
	assert.False(t, sent)
	assert.Empty(t, f.sent())

	_, ok, err := f.kv.Get(ctx, "risk:u1:level")
	require.NoError(t, err)
	assert.False(t, ok, "level must not be stored when the alert was not delivered")

	// a replay of the same reading delivers the alert
	sent, err = f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, f.sent(), 1)
	assert.Contains(t, f.sent()[0].body, "Rapid descent")
}

func TestRiskWatcher_NextReadingAlertsAfterFailure(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	f.notifier.failures = 1
	ctx := context.Background()

	f.log(5.0, testNow.Add(-2*time.Hour))
	f.log(3.5, testNow.Add(-time.Hour))
	_, err := f.watcher.Evaluate(ctx, "u1")
	require.Error(t, err)

	// still critical on the next reading
	f.log(2.8, testNow)
	sent, err := f.watcher.Evaluate(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Len(t, f.sent(), 1)

	level, _, _ := f.kv.Get(ctx, "risk:u1:level")
	assert.Equal(t, string(analytics.RiskCritical), level)
}

func TestRiskWatcher_FailureRestoresPreviousLevel(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	ctx := context.Background()
	require.NoError(t, f.kv.Set(ctx, "risk:u1:level", string(analytics.RiskOptimal)))
	f.notifier.failures = 1

	f.log(5.0, testNow.Add(-time.Hour))
	f.log(3.5, testNow)
	_, err := f.watcher.Evaluate(ctx, "u1")
	require.Error(t, err)

	level, _, _ := f.kv.Get(ctx, "risk:u1:level")
	assert.Equal(t, string(analytics.RiskOptimal), level)
	_, held, _ := f.kv.Get(ctx, "risk:u1:alert:critical:e2")
	assert.False(t, held)
}

func TestRiskWatcher_Run(t *testing.T) {
	f := newRiskFixture(domain.PermissionGranted)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.log(5.0, testNow.Add(-time.Hour))
	f.log(3.5, testNow)

	done := make(chan error, 1)
	go func() { done <- f.watcher.Run(ctx) }()

	assert.Eventually(t, func() bool {
		_ = f.feed.Publish(ctx, domain.EntryEvent{UserID: "u1", Kind: domain.KindMeal})
		_ = f.feed.Publish(ctx, domain.EntryEvent{UserID: "u1", Kind: domain.KindGlucose})
		return len(f.sent()) > 0
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Len(t, f.sent(), 1)
}
