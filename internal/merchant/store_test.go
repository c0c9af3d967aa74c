package merchant

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/internal/fields"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := &Config{
		MerchantID:   "m1",
		Name:         "Aina",
		Company:      "Studio Aina",
		Template:     "interior_design",
		PortfolioURL: "https://studioaina.example/projects/",
		Fields: []FieldOverride{
			{Key: "budget", Required: boolPtr(true)},
		},
	}
	require.NoError(t, store.SaveConfig(ctx, cfg))

	got, err := store.GetConfig(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, "Studio Aina", got.Company)
	require.Len(t, got.Fields, 1)
}

func TestRedisStoreMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetConfig(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveRegistryTemplateAndOverrides(t *testing.T) {
	cfg := &Config{
		MerchantID: "m1",
		Template:   "real_estate",
		Fields: []FieldOverride{
			{Key: "budget", Required: boolPtr(false)},
			{Key: "move_in", Type: fields.TypeText, Question: "When do you plan to move in?"},
		},
	}

	reg := cfg.ResolveRegistry()

	budget, ok := reg.Get("budget")
	require.True(t, ok)
	require.False(t, budget.Required)

	moveIn, ok := reg.Get("move_in")
	require.True(t, ok)
	require.Equal(t, "Move In", moveIn.Label)
	require.True(t, moveIn.Required)
}

func TestResolveRegistryMalformedFallsBack(t *testing.T) {
	cfg := &Config{
		MerchantID: "m1",
		Template:   "unknown_vertical",
		Fields: []FieldOverride{
			{Key: "mystery"}, // no type, no question: not askable
		},
	}

	reg := cfg.ResolveRegistry()

	// Falls back to the default registry field set.
	require.Equal(t, fields.DefaultRegistry().Len(), reg.Len())
	_, ok := reg.Get("mystery")
	require.False(t, ok)
}

func TestResolveRegistryNilConfig(t *testing.T) {
	var cfg *Config
	reg := cfg.ResolveRegistry()
	require.Equal(t, fields.DefaultRegistry().Len(), reg.Len())
}

func boolPtr(b bool) *bool { return &b }
