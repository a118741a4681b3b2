package placecache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

// ValkeyStore persists resolved place names in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "lunar"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) GetPlace(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	result := s.client.Do(ctx, s.client.B().Get().Key(s.placeKey(key)).Build())
	name, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

func (s *ValkeyStore) SavePlace(ctx context.Context, key, name string, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	builder := s.client.B().Set().Key(s.placeKey(key)).Value(name)
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) placeKey(key string) string {
	return fmt.Sprintf("%s:place:%s", s.prefix, key)
}

var _ lunar.PlaceCache = (*ValkeyStore)(nil)
