package storage

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/vladimiradmaev/diabetes-care/internal/errors"
)

const (
	keySeparator = ":"
	// expiry deadlines live beside the data under this prefix
	expiryPrefix = "expiry" + keySeparator
)

// DiskStore persists pairs as files under a base directory. Each key segment
// becomes a directory level, so "reminders:42:rules" is stored at
// <base>/reminders/42/rules. A TTL passed to SetIfAbsent is recorded as a
// deadline under expiry:<key>; expired keys read as absent and are removed
// lazily or by Prune.
type DiskStore struct {
	d *diskv.Diskv
	// serializes check-then-write in SetIfAbsent within this process
	mu  sync.Mutex
	now func() time.Time
}

func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathKey,
			InverseTransform:  pathKeyToKey,
			CacheSizeMax:      1024 * 1024,
		}),
		now: time.Now,
	}
}

func keyToPathKey(key string) *diskv.PathKey {
	parts := strings.Split(key, keySeparator)
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathKeyToKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return strings.Join(pk.Path, keySeparator) + keySeparator + pk.FileName
}

// expired must be called with mu held. It erases key and its deadline once
// the deadline has passed.
func (s *DiskStore) expired(key string) (bool, error) {
	raw, err := s.d.Read(expiryPrefix + key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	deadline, err := time.Parse(time.RFC3339Nano, string(raw))
	if err == nil && s.now().Before(deadline) {
		return false, nil
	}
	// an unreadable deadline is treated as expired
	if err := s.erase(key); err != nil {
		return false, err
	}
	return true, nil
}

// erase must be called with mu held
func (s *DiskStore) erase(key string) error {
	if err := s.d.Erase(key); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := s.d.Erase(expiryPrefix + key); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.d.Has(key) {
		return "", false, nil
	}
	if gone, err := s.expired(key); err != nil {
		return "", false, errors.NewStorageError(err, "get").WithContext("key", key)
	} else if gone {
		return "", false, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.NewStorageError(err, "get").WithContext("key", key)
	}
	return string(val), true, nil
}

// Set writes a value without expiry, clearing any earlier deadline
func (s *DiskStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.d.Write(key, []byte(value)); err != nil {
		return errors.NewStorageError(err, "set").WithContext("key", key)
	}
	if err := s.d.Erase(expiryPrefix + key); err != nil && !os.IsNotExist(err) {
		return errors.NewStorageError(err, "set").WithContext("key", key)
	}
	return nil
}

func (s *DiskStore) SetIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.d.Has(key) {
		gone, err := s.expired(key)
		if err != nil {
			return false, errors.NewStorageError(err, "set_if_absent").WithContext("key", key)
		}
		if !gone {
			return false, nil
		}
	}
	if err := s.d.Write(key, []byte(value)); err != nil {
		return false, errors.NewStorageError(err, "set_if_absent").WithContext("key", key)
	}
	if ttl > 0 {
		deadline := s.now().Add(ttl).UTC().Format(time.RFC3339Nano)
		if err := s.d.Write(expiryPrefix+key, []byte(deadline)); err != nil {
			return false, errors.NewStorageError(err, "set_if_absent").WithContext("key", key)
		}
	}
	return true, nil
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.erase(key); err != nil {
		return errors.NewStorageError(err, "delete").WithContext("key", key)
	}
	return nil
}

// Prune removes every key whose deadline has passed and reports how many
// were removed.
func (s *DiskStore) Prune(ctx context.Context) (int, error) {
	var keys []string
	for k := range s.d.KeysPrefix(expiryPrefix, ctx.Done()) {
		keys = append(keys, strings.TrimPrefix(k, expiryPrefix))
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, key := range keys {
		gone, err := s.expired(key)
		if err != nil {
			return removed, errors.NewStorageError(err, "prune").WithContext("key", key)
		}
		if gone {
			removed++
		}
	}
	return removed, nil
}
