package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound indicates no state exists for the session.
var ErrNotFound = errors.New("session: not found")

// ErrStoreUnavailable wraps backend failures so callers can degrade instead
// of surfacing raw transport errors.
var ErrStoreUnavailable = errors.New("session: store unavailable")

// Store loads and persists conversation state.
type Store interface {
	Load(ctx context.Context, merchantID, sessionID string) (*State, error)
	Save(ctx context.Context, state *State) error
}

// RedisStore keeps one JSON document per session with a sliding TTL.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore builds a store over the provided client. A zero ttl falls
// back to 72 hours.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	if tracer == nil {
		tracer = otel.Tracer("leadline.internal.session")
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: tracer,
	}
}

func sessionKey(merchantID, sessionID string) string {
	return fmt.Sprintf("session:%s:%s", merchantID, sessionID)
}

// Load fetches the state document. Unknown sessions return ErrNotFound;
// backend failures return ErrStoreUnavailable.
func (s *RedisStore) Load(ctx context.Context, merchantID, sessionID string) (*State, error) {
	ctx, span := s.tracer.Start(ctx, "session.load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(merchantID, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode state: %w", err)
	}
	if state.Values == nil {
		state.Values = make(map[string]Value)
	}
	if state.FieldMeta == nil {
		state.FieldMeta = make(map[string]FieldMeta)
	}
	return &state, nil
}

// Save writes the state document and refreshes the TTL.
func (s *RedisStore) Save(ctx context.Context, state *State) error {
	ctx, span := s.tracer.Start(ctx, "session.save")
	defer span.End()

	if state == nil {
		return errors.New("session: state cannot be nil")
	}
	state.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(state)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal state: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(state.MerchantID, state.SessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// MemoryStore is an in-process Store for tests and single-node deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, merchantID, sessionID string) (*State, error) {
	s.mu.RLock()
	data, ok := s.states[sessionKey(merchantID, sessionID)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("session: failed to decode state: %w", err)
	}
	return &state, nil
}

func (s *MemoryStore) Save(_ context.Context, state *State) error {
	if state == nil {
		return errors.New("session: state cannot be nil")
	}
	state.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: failed to marshal state: %w", err)
	}
	s.mu.Lock()
	s.states[sessionKey(state.MerchantID, state.SessionID)] = data
	s.mu.Unlock()
	return nil
}
