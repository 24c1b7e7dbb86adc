package offerstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "teesheet:offer:"

// Store keeps waitlist offer accept tokens in redis with a TTL. A token
// that lapses is detected on the next accept attempt, which retires the
// entry as expired; redis holds only the token, never the entry itself.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

func New(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Put stores the accept token for a waitlist entry. An existing token
// for the same value is overwritten with a fresh TTL.
func (s *Store) Put(ctx context.Context, token string, entryID int64) error {
	err := s.client.Set(ctx, keyPrefix+token, strconv.FormatInt(entryID, 10), s.ttl).Err()
	if err != nil {
		return fmt.Errorf("%w: Put - set token: %v", ErrStore, err)
	}
	return nil
}

// Consume atomically fetches and deletes the token, returning the entry
// it was issued for. A missing or expired token yields ErrTokenNotFound.
func (s *Store) Consume(ctx context.Context, token string) (int64, error) {
	val, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Consume - getdel token: %v", ErrStore, err)
	}
	entryID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: Consume - parse entry id: %v", ErrStore, err)
	}
	return entryID, nil
}

// TTL returns the configured offer lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
