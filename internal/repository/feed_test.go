package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

func receive(t *testing.T, ch <-chan domain.EntryEvent) domain.EntryEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for entry event")
		return domain.EntryEvent{}
	}
}

func TestMemoryFeed_FanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewMemoryFeed()
	a, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	b, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	event := domain.EntryEvent{UserID: "u1", Kind: domain.KindGlucose}
	require.NoError(t, feed.Publish(ctx, event))

	assert.Equal(t, event, receive(t, a))
	assert.Equal(t, event, receive(t, b))
}

func TestMemoryFeed_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	feed := NewMemoryFeed()

	ch, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel was not closed")
	}

	assert.NoError(t, feed.Publish(context.Background(), domain.EntryEvent{UserID: "u1"}))
}

func TestRedisFeed_RoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewRedisFeed(client)
	ch, err := feed.Subscribe(ctx)
	require.NoError(t, err)

	event := domain.EntryEvent{UserID: "u9", Kind: domain.KindMeal}
	require.NoError(t, feed.Publish(ctx, event))
	assert.Equal(t, event, receive(t, ch))
}
