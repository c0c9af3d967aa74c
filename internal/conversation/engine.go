package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/leadline-ai/leadline/internal/booking"
	"github.com/leadline-ai/leadline/internal/extract"
	"github.com/leadline-ai/leadline/internal/intent"
	"github.com/leadline-ai/leadline/internal/leads"
	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/internal/observability/metrics"
	"github.com/leadline-ai/leadline/internal/retrieval"
	"github.com/leadline-ai/leadline/internal/schedule"
	"github.com/leadline-ai/leadline/internal/session"
	"github.com/leadline-ai/leadline/pkg/logging"
)

// Engine is the production Service implementation.
type Engine struct {
	store      session.Store
	locker     *session.Locker
	merchants  merchant.Provider
	pipeline   *extract.Pipeline
	classifier *intent.Classifier
	scheduler  *schedule.Scheduler
	retriever  retrieval.Retriever
	booker     booking.Adapter
	leadRepo   leads.Repository
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger

	summaryMaxChars int
	retrievalTopK   int
}

// EngineOption tunes optional engine behavior.
type EngineOption func(*Engine)

// WithSummaryMaxChars bounds the rolling history summary.
func WithSummaryMaxChars(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.summaryMaxChars = n
		}
	}
}

// WithRetrievalTopK caps how many passages a content lookup may return.
func WithRetrievalTopK(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.retrievalTopK = n
		}
	}
}

// WithMetrics attaches conversation metrics.
func WithMetrics(m *metrics.ConversationMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine wires the dialogue loop. Store, merchants and scheduler are
// required; retriever, booker and leadRepo are optional collaborators the
// engine degrades without.
func NewEngine(
	store session.Store,
	merchants merchant.Provider,
	scheduler *schedule.Scheduler,
	retriever retrieval.Retriever,
	booker booking.Adapter,
	leadRepo leads.Repository,
	logger *logging.Logger,
	opts ...EngineOption,
) *Engine {
	if store == nil {
		panic("conversation: session store cannot be nil")
	}
	if merchants == nil {
		panic("conversation: merchant provider cannot be nil")
	}
	if scheduler == nil {
		scheduler = schedule.New(0, 0)
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		store:           store,
		locker:          session.NewLocker(),
		merchants:       merchants,
		pipeline:        extract.NewPipeline(),
		classifier:      intent.NewClassifier(),
		scheduler:       scheduler,
		retriever:       retriever,
		booker:          booker,
		leadRepo:        leadRepo,
		logger:          logger,
		summaryMaxChars: 1200,
		retrievalTopK:   3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ Service = (*Engine)(nil)

// ProcessTurn runs one full turn. The session lock serializes concurrent
// messages for the same session; the reply for the earlier message is
// computed before the later one observes state.
func (e *Engine) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if req.MerchantID == "" || req.SessionID == "" {
		return nil, errors.New("conversation: merchant_id and session_id required")
	}

	unlock := e.locker.Lock(req.MerchantID, req.SessionID)
	defer unlock()

	started := time.Now()

	cfg := e.merchantConfig(ctx, req.MerchantID)
	reg := cfg.ResolveRegistry()

	state, err := e.loadState(ctx, req)
	if err != nil {
		return nil, err
	}

	// A finished conversation never reopens: completion is irreversible and
	// the booking must not retrigger.
	if state.Completed {
		return &TurnResponse{
			SessionID:  req.SessionID,
			Reply:      closedReply(cfg),
			Intent:     string(intent.Generic),
			Completed:  true,
			Booked:     state.BookingRef != "",
			BookingRef: state.BookingRef,
			Checklist:  checklist(state, reg),
		}, nil
	}

	state.TurnIndex++

	// Classification and extraction are independent reads of the message;
	// run them concurrently.
	var (
		wg         sync.WaitGroup
		classified intent.Result
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		classified = e.classifier.Classify(message)
	}()
	candidates := e.pipeline.Run(message, state, reg)
	wg.Wait()

	changed := extract.Merge(state, candidates, reg)
	e.observeCandidates(candidates, changed)

	var outcome completionOutcome
	if allRequiredFilled(state, reg) {
		outcome = e.complete(ctx, state, cfg)
	}

	reply, askedField := e.composeReply(ctx, cfg, reg, state, message, classified, changed, outcome)
	if askedField != "" {
		state.RecordAsk(askedField)
		e.metrics.ObserveQuestionAsked(askedField)
	}

	state.LastIntent = string(classified.Primary())
	state.AppendSummary(message, reply, e.summaryMaxChars)

	// Persistence is the one turn-fatal dependency: replying without a
	// durable write would silently drop every value captured this turn.
	if err := e.store.Save(ctx, state); err != nil {
		e.metrics.ObserveCollaboratorError("state_store")
		e.logger.Error("failed to persist session state",
			"error", err,
			"merchant_id", req.MerchantID,
			"session_id", req.SessionID,
		)
		return nil, err
	}

	e.metrics.ObserveTurn(req.MerchantID, string(classified.Primary()), time.Since(started).Seconds())

	return &TurnResponse{
		SessionID:  req.SessionID,
		Reply:      reply,
		Intent:     string(classified.Primary()),
		AskedField: askedField,
		Completed:  state.Completed,
		Booked:     outcome.booked || state.BookingRef != "",
		BookingRef: state.BookingRef,
		Checklist:  checklist(state, reg),
	}, nil
}

// merchantConfig resolves the merchant's config, tolerating lookup failures:
// an unknown or unreachable merchant store yields the default behavior.
func (e *Engine) merchantConfig(ctx context.Context, merchantID string) *merchant.Config {
	cfg, err := e.merchants.GetConfig(ctx, merchantID)
	if err != nil {
		if !errors.Is(err, merchant.ErrNotFound) {
			e.metrics.ObserveCollaboratorError("merchant_config")
			e.logger.Warn("merchant config lookup failed, using defaults",
				"error", err,
				"merchant_id", merchantID,
			)
		}
		return &merchant.Config{MerchantID: merchantID}
	}
	return cfg
}

// loadState fetches or creates session state. A load miss is a fresh
// session; an unavailable store fails the turn, since the engine cannot
// answer safely without the durable record.
func (e *Engine) loadState(ctx context.Context, req TurnRequest) (*session.State, error) {
	state, err := e.store.Load(ctx, req.MerchantID, req.SessionID)
	if err == nil {
		return state, nil
	}
	if errors.Is(err, session.ErrNotFound) {
		return session.NewState(req.MerchantID, req.SessionID), nil
	}
	e.metrics.ObserveCollaboratorError("state_store")
	e.logger.Error("failed to load session state",
		"error", err,
		"merchant_id", req.MerchantID,
		"session_id", req.SessionID,
	)
	return nil, err
}

func (e *Engine) observeCandidates(candidates []extract.Candidate, changed []string) {
	accepted := make(map[string]bool, len(changed))
	for _, key := range changed {
		accepted[key] = true
	}
	for _, cand := range candidates {
		outcome := "rejected"
		if accepted[cand.FieldKey] {
			outcome = "accepted"
		}
		e.metrics.ObserveCandidate(cand.FieldKey, outcome)
	}
}

func merchantDisplayName(cfg *merchant.Config) string {
	if cfg == nil {
		return ""
	}
	if cfg.Company != "" {
		return cfg.Company
	}
	return cfg.Name
}
