package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leadline-ai/leadline/internal/booking"
	"github.com/leadline-ai/leadline/internal/leads"
	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/internal/retrieval"
	"github.com/leadline-ai/leadline/internal/schedule"
	"github.com/leadline-ai/leadline/internal/session"
)

type fakeBooker struct {
	mu      sync.Mutex
	calls   int
	booked  bool
	failErr error
}

func (f *fakeBooker) Name() string { return "fake" }

func (f *fakeBooker) Schedule(_ context.Context, _ booking.LeadSummary) (*booking.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failErr != nil {
		return nil, f.failErr
	}
	if f.booked {
		return &booking.Result{Booked: true, Reference: "bk_1"}, nil
	}
	return &booking.Result{HandoffMessage: booking.HandoffMessage("Studio Aina")}, nil
}

type failingStore struct{}

func (failingStore) Load(context.Context, string, string) (*session.State, error) {
	return nil, session.ErrStoreUnavailable
}

func (failingStore) Save(context.Context, *session.State) error {
	return session.ErrStoreUnavailable
}

// saveFailingStore loads cleanly but cannot persist.
type saveFailingStore struct{}

func (saveFailingStore) Load(context.Context, string, string) (*session.State, error) {
	return nil, session.ErrNotFound
}

func (saveFailingStore) Save(context.Context, *session.State) error {
	return session.ErrStoreUnavailable
}

func newTestEngine(t *testing.T, booker booking.Adapter) (*Engine, session.Store, *leads.InMemoryRepository) {
	t.Helper()
	store := session.NewMemoryStore()
	repo := leads.NewInMemoryRepository()
	provider := merchant.NewStaticProvider(&merchant.Config{
		MerchantID:   "m1",
		Name:         "Aina",
		Company:      "Studio Aina",
		PortfolioURL: "https://studioaina.example/projects/",
		ThemeLinks: map[string]string{
			"japandi": "https://studioaina.example/japandi/",
		},
	})
	engine := NewEngine(store, provider, schedule.New(2, 3), nil, booker, repo, nil)
	return engine, store, repo
}

func turn(t *testing.T, e *Engine, sessionID, message string) *TurnResponse {
	t.Helper()
	resp, err := e.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  sessionID,
		Message:    message,
	})
	require.NoError(t, err)
	return resp
}

func TestProcessTurnFreshSessionCapturesAndAsks(t *testing.T) {
	engine, _, _ := newTestEngine(t, &fakeBooker{})

	resp := turn(t, engine, "s1", "Hi, I'm Mei, looking for ID ideas for my condo in Mont Kiara, budget around 50k")

	require.False(t, resp.Completed)
	require.Equal(t, "phone", resp.AskedField, "name arrived in the message, phone is next in priority")
	require.Contains(t, resp.Reply, "Thanks, Mei!")

	byKey := make(map[string]ChecklistItem)
	for _, item := range resp.Checklist.Fields {
		byKey[item.Key] = item
	}
	require.True(t, byKey["name"].Filled)
	require.Equal(t, "Mont Kiara", byKey["location"].Value)
	require.Equal(t, "50000", byKey["budget"].Value)
	require.False(t, byKey["phone"].Filled)

	require.Equal(t, []string{"phone", "style"}, resp.Checklist.Missing)
	require.Equal(t, 3, resp.Checklist.CollectedCount)
	require.Equal(t, 4, resp.Checklist.RequiredCount)
	require.Equal(t, map[string]int{"phone": 1}, resp.Checklist.AskCounts)
}

func TestProcessTurnCompletionTriggersBookingOnce(t *testing.T) {
	booker := &fakeBooker{booked: true}
	engine, _, repo := newTestEngine(t, booker)

	turn(t, engine, "s1", "Hi, I'm Mei, my condo in Mont Kiara needs a japandi look")
	resp := turn(t, engine, "s1", "sure, it's 012-345 6789")

	require.True(t, resp.Completed)
	require.True(t, resp.Booked)
	require.Equal(t, "bk_1", resp.BookingRef)
	require.Equal(t, 1, booker.calls)

	stored, err := repo.List(context.Background(), "m1", leads.ListLeadsFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "Mei", stored[0].Name)
	require.Equal(t, "+60123456789", stored[0].Phone)

	// Messages after completion never reopen the session or re-book.
	resp = turn(t, engine, "s1", "actually can you also do my office in Penang?")
	require.True(t, resp.Completed)
	require.Equal(t, 1, booker.calls)
	require.Contains(t, resp.Reply, "Studio Aina")
}

func TestProcessTurnBookingFailureDegradesToHandoff(t *testing.T) {
	booker := &fakeBooker{failErr: errors.New("booking service down")}
	engine, store, _ := newTestEngine(t, booker)

	turn(t, engine, "s1", "Hi, I'm Mei, my condo in Mont Kiara needs a japandi look")
	resp := turn(t, engine, "s1", "0123456789")

	require.True(t, resp.Completed, "completion is not rolled back on booking failure")
	require.False(t, resp.Booked)
	require.Contains(t, resp.Reply, "reach out")

	state, err := store.Load(context.Background(), "m1", "s1")
	require.NoError(t, err)
	require.True(t, state.Completed)
	require.Empty(t, state.BookingRef)
}

func TestProcessTurnPricingIntentStillAsks(t *testing.T) {
	engine, _, _ := newTestEngine(t, &fakeBooker{})

	resp := turn(t, engine, "s1", "how much do you charge?")
	require.Equal(t, "pricing", resp.Intent)
	require.Contains(t, resp.Reply, "quote")
	require.Equal(t, "name", resp.AskedField, "intent answers never displace the scheduled question")
}

func TestProcessTurnThemeLinkOnStyleCapture(t *testing.T) {
	engine, _, _ := newTestEngine(t, &fakeBooker{})

	resp := turn(t, engine, "s1", "thinking of a japandi look for my place")
	require.Contains(t, resp.Reply, "https://studioaina.example/japandi/")
}

func TestProcessTurnCooldownAvoidsImmediateReAsk(t *testing.T) {
	engine, _, _ := newTestEngine(t, &fakeBooker{})

	resp1 := turn(t, engine, "s1", "hello")
	require.Equal(t, "name", resp1.AskedField)

	// Dodged the question: the engine moves to another field instead of
	// nagging.
	resp2 := turn(t, engine, "s1", "just browsing for now")
	require.NotEqual(t, "name", resp2.AskedField)
	require.NotEmpty(t, resp2.AskedField)
}

func TestProcessTurnStoreLoadFailureFailsTurn(t *testing.T) {
	provider := merchant.NewStaticProvider(&merchant.Config{MerchantID: "m1", Name: "Aina"})
	engine := NewEngine(failingStore{}, provider, schedule.New(2, 3), nil, nil, nil, nil)

	resp, err := engine.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  "s1",
		Message:    "hi, what are your rates?",
	})
	require.ErrorIs(t, err, session.ErrStoreUnavailable)
	require.Nil(t, resp)
}

func TestProcessTurnSaveFailureFailsTurn(t *testing.T) {
	provider := merchant.NewStaticProvider(&merchant.Config{MerchantID: "m1", Name: "Aina"})
	engine := NewEngine(saveFailingStore{}, provider, schedule.New(2, 3), nil, nil, nil, nil)

	resp, err := engine.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  "s1",
		Message:    "hello",
	})
	require.ErrorIs(t, err, session.ErrStoreUnavailable,
		"a reply without a durable write would drop the captured values")
	require.Nil(t, resp)
}

func TestProcessTurnEmptyMessage(t *testing.T) {
	engine, _, _ := newTestEngine(t, &fakeBooker{})

	_, err := engine.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  "s1",
		Message:    "   ",
	})
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestProcessTurnUnknownMerchantUsesDefaults(t *testing.T) {
	store := session.NewMemoryStore()
	engine := NewEngine(store, merchant.NewStaticProvider(), schedule.New(2, 3), nil, nil, nil, nil)

	resp, err := engine.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "ghost",
		SessionID:  "s1",
		Message:    "hello there",
	})
	require.NoError(t, err)
	require.Equal(t, "name", resp.AskedField)
}

func TestProcessTurnPortfolioUsesRetriever(t *testing.T) {
	idx := retrieval.NewMemoryIndex(0.2)
	idx.Add("m1", retrieval.Passage{
		Text: "Japandi condo portfolio projects in Mont Kiara",
		URL:  "https://studioaina.example/mk-japandi",
	})

	store := session.NewMemoryStore()
	provider := merchant.NewStaticProvider(&merchant.Config{MerchantID: "m1", Name: "Aina"})
	engine := NewEngine(store, provider, schedule.New(2, 3), idx, nil, nil, nil)

	resp, err := engine.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  "s1",
		Message:    "can i see your portfolio?",
	})
	require.NoError(t, err)
	require.Equal(t, "portfolio", resp.Intent)
	require.Contains(t, resp.Reply, "https://studioaina.example/mk-japandi")
}

func TestProcessTurnGenericQuestionAnsweredFromContent(t *testing.T) {
	idx := retrieval.NewMemoryIndex(0.2)
	idx.Add("m1", retrieval.Passage{
		Text: "Yes, we also handle kitchen cabinet carpentry and built-in wardrobes.",
	})

	store := session.NewMemoryStore()
	provider := merchant.NewStaticProvider(&merchant.Config{MerchantID: "m1", Name: "Aina"})
	engine := NewEngine(store, provider, schedule.New(2, 3), idx, nil, nil, nil)

	resp, err := engine.ProcessTurn(context.Background(), TurnRequest{
		MerchantID: "m1",
		SessionID:  "s1",
		Message:    "do you also handle kitchen cabinet carpentry?",
	})
	require.NoError(t, err)
	require.Contains(t, resp.Reply, "kitchen cabinet carpentry", "off-topic questions get a grounded answer")
	require.NotEmpty(t, resp.AskedField, "the scheduled question still follows the answer")
}

func TestProcessTurnConcurrentSameSession(t *testing.T) {
	engine, store, _ := newTestEngine(t, &fakeBooker{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = turn(t, engine, "s1", "hello, any ideas for my condo?")
		}()
	}
	wg.Wait()

	state, err := store.Load(context.Background(), "m1", "s1")
	require.NoError(t, err)
	require.Equal(t, 8, state.TurnIndex, "turns serialize, none are lost")
}
