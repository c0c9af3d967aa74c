package merchant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates no configuration exists for the merchant.
var ErrNotFound = errors.New("merchant: config not found")

// Provider supplies merchant configuration to the engine. The engine caches
// the result per session, so a session never observes a mid-conversation
// configuration change.
type Provider interface {
	GetConfig(ctx context.Context, merchantID string) (*Config, error)
}

// RedisStore persists merchant configs as JSON records in redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a redis-backed config store.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("merchant: redis client cannot be nil")
	}
	return &RedisStore{client: client}
}

func configKey(merchantID string) string {
	return fmt.Sprintf("merchant:config:%s", merchantID)
}

// GetConfig loads a merchant's configuration.
func (s *RedisStore) GetConfig(ctx context.Context, merchantID string) (*Config, error) {
	merchantID = strings.TrimSpace(merchantID)
	if merchantID == "" {
		return nil, ErrNotFound
	}

	data, err := s.client.Get(ctx, configKey(merchantID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("merchant: failed to load config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("merchant: failed to decode config: %w", err)
	}
	if cfg.MerchantID == "" {
		cfg.MerchantID = merchantID
	}
	return &cfg, nil
}

// SaveConfig stores a merchant's configuration.
func (s *RedisStore) SaveConfig(ctx context.Context, cfg *Config) error {
	if cfg == nil || strings.TrimSpace(cfg.MerchantID) == "" {
		return errors.New("merchant: config requires a merchant id")
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("merchant: failed to encode config: %w", err)
	}
	if err := s.client.Set(ctx, configKey(cfg.MerchantID), data, 0).Err(); err != nil {
		return fmt.Errorf("merchant: failed to persist config: %w", err)
	}
	return nil
}

// StaticProvider serves a fixed set of configs, useful for development and
// tests.
type StaticProvider struct {
	configs map[string]*Config
}

// NewStaticProvider builds a provider from the given configs.
func NewStaticProvider(configs ...*Config) *StaticProvider {
	p := &StaticProvider{configs: make(map[string]*Config, len(configs))}
	for _, cfg := range configs {
		if cfg != nil && cfg.MerchantID != "" {
			p.configs[cfg.MerchantID] = cfg
		}
	}
	return p
}

// GetConfig returns the stored config or ErrNotFound.
func (p *StaticProvider) GetConfig(_ context.Context, merchantID string) (*Config, error) {
	cfg, ok := p.configs[merchantID]
	if !ok {
		return nil, ErrNotFound
	}
	return cfg, nil
}
