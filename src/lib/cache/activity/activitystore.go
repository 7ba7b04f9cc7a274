package activitystore

// single-slot activity cache in valkey, last write wins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/emjjkk/portfolio-backend/src/types"
	"github.com/redis/go-redis/v9"
)

var (
	ErrInvalidPayload = errors.New("activity payload is not valid JSON")
	ErrCorruptPayload = errors.New("stored activity is not valid JSON")
)

const (
	DefaultKey     = "premid:activity"
	DefaultTTL     = 24 * time.Hour
	DefaultTimeout = 3 * time.Second
)

type Options struct {
	Key     string
	TTL     time.Duration
	Timeout time.Duration
}

type Store struct {
	rdb     redis.Cmdable
	key     string
	ttl     time.Duration
	timeout time.Duration
}

func NewStore(rdb redis.Cmdable, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Store{
		rdb:     rdb,
		key:     opts.Key,
		ttl:     opts.TTL,
		timeout: opts.Timeout,
	}
}

// Write replaces whatever is stored and restarts the expiry countdown.
func (s *Store) Write(ctx context.Context, payload []byte) error {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || !json.Valid(payload) {
		return ErrInvalidPayload
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store activity: %w", err)
	}
	return nil
}

// Read returns the current activity, or nil when nothing (usable) is stored.
func (s *Store) Read(ctx context.Context) (*types.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read activity: %w", err)
	}

	return Decode(data)
}

// Decode normalizes both stored shapes, a raw record or an
// {"active_activity": ...} envelope, into a single record. Any other valid
// JSON is kept as stored with an empty Name; only null is no activity.
func Decode(data []byte) (*types.Activity, error) {
	if !json.Valid(data) {
		return nil, ErrCorruptPayload
	}

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		// arrays and scalars
		return newActivity(data, nil), nil
	}

	if stringField(object, "name") == "" {
		if inner, ok := object["active_activity"]; ok {
			return Decode(inner)
		}
	}

	return newActivity(data, object), nil
}

func newActivity(raw []byte, object map[string]json.RawMessage) *types.Activity {
	return &types.Activity{
		Name:    stringField(object, "name"),
		Details: stringField(object, "details"),
		Raw:     append(json.RawMessage(nil), raw...),
	}
}

func stringField(object map[string]json.RawMessage, field string) string {
	value, ok := object[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return ""
	}
	return s
}
