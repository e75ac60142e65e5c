package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
	"github.com/vladimiradmaev/diabetes-care/internal/errors"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

const entriesChannel = "entries:changed"

// RedisFeed announces appended records over redis pub/sub so every replica
// recomputes derived metrics on each change.
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

func (f *RedisFeed) Publish(ctx context.Context, event domain.EntryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if err := f.client.Publish(ctx, entriesChannel, payload).Err(); err != nil {
		return errors.NewStorageError(err, "publish").WithContext("user_id", event.UserID)
	}
	return nil
}

// Subscribe streams events until ctx is cancelled
func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan domain.EntryEvent, error) {
	sub := f.client.Subscribe(ctx, entriesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.NewStorageError(err, "subscribe")
	}

	out := make(chan domain.EntryEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event domain.EntryEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Warn("Dropping malformed entry event", "payload", msg.Payload, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// MemoryFeed is an in-process EntryFeed for single-node runs and tests
type MemoryFeed struct {
	mu   sync.Mutex
	subs []chan domain.EntryEvent
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{}
}

// Publish delivers to every subscriber, dropping the event for any whose buffer is full
func (f *MemoryFeed) Publish(_ context.Context, event domain.EntryEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- event:
		default:
			logger.Warn("Entry feed subscriber is slow, dropping event", "user_id", event.UserID)
		}
	}
	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context) (<-chan domain.EntryEvent, error) {
	ch := make(chan domain.EntryEvent, 64)

	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, c := range f.subs {
			if c == ch {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}
