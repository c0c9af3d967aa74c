package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/internal/fields"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour, nil), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	state := NewState("m1", "s1")
	state.TurnIndex = 3
	state.Values["name"] = Value{Value: "Mei", Confidence: 0.9, Turn: 1}
	state.RecordAsk("phone")
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx, "m1", "s1")
	require.NoError(t, err)
	require.Equal(t, 3, got.TurnIndex)
	require.Equal(t, "Mei", got.Values["name"].Value)
	require.Equal(t, 1, got.FieldMeta["phone"].AskCount)
}

func TestRedisStoreNotFound(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Load(context.Background(), "m1", "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, NewState("m1", "s1")))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx, "m1", "s1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour, nil)
	mr.Close()

	_, err := store.Load(context.Background(), "m1", "s1")
	require.ErrorIs(t, err, ErrStoreUnavailable)

	err = store.Save(context.Background(), NewState("m1", "s1"))
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := NewState("m1", "s1")
	state.Values["location"] = Value{Value: "Mont Kiara", Confidence: 0.9, Turn: 2}
	require.NoError(t, store.Save(ctx, state))

	got, err := store.Load(ctx, "m1", "s1")
	require.NoError(t, err)
	require.Equal(t, "Mont Kiara", got.Values["location"].Value)

	_, err = store.Load(ctx, "m1", "other")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMissingFollowsRegistryOrder(t *testing.T) {
	state := NewState("m1", "s1")
	reg := fields.DefaultRegistry()

	missing := state.Missing(reg)
	var keys []string
	for _, spec := range missing {
		keys = append(keys, spec.Key)
	}
	require.Equal(t, []string{"name", "phone", "style", "location"}, keys)

	state.Values["phone"] = Value{Value: "+60123456789", Confidence: 0.95, Turn: 1}
	missing = state.Missing(reg)
	keys = keys[:0]
	for _, spec := range missing {
		keys = append(keys, spec.Key)
	}
	require.Equal(t, []string{"name", "style", "location"}, keys)
}

func TestLockerSerializesSameSession(t *testing.T) {
	locker := NewLocker()

	release := locker.Lock("m1", "s1")

	entered := make(chan struct{})
	go func() {
		unlock := locker.Lock("m1", "s1")
		close(entered)
		unlock()
	}()

	select {
	case <-entered:
		t.Fatal("second turn entered while first held the lock")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second turn never entered after release")
	}
}

func TestLockerIndependentSessions(t *testing.T) {
	locker := NewLocker()

	release := locker.Lock("m1", "s1")
	defer release()

	done := make(chan struct{})
	go func() {
		unlock := locker.Lock("m1", "s2")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("different session blocked on unrelated lock")
	}
}

func TestLockerConcurrentCounter(t *testing.T) {
	locker := NewLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("m1", "s1")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}

func TestAppendSummaryBounded(t *testing.T) {
	state := NewState("m1", "s1")

	for i := 0; i < 50; i++ {
		state.AppendSummary("my condo is in Mont Kiara and I like japandi styling for it", "Got it, noted.", 200)
	}

	require.LessOrEqual(t, len(state.HistorySummary), 200)
	require.Contains(t, state.HistorySummary, "assistant:")
}

func TestAppendSummaryKeepsRecentTail(t *testing.T) {
	state := NewState("m1", "s1")
	state.AppendSummary("old message about penang", "ok", 1200)
	state.AppendSummary("newer message about bangsar", "noted", 1200)

	require.True(t, strings.Contains(state.HistorySummary, "penang"))
	require.True(t, strings.Contains(state.HistorySummary, "bangsar"))
}
