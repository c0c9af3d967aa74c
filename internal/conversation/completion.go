package conversation

import (
	"context"
	"time"

	"github.com/leadline-ai/leadline/internal/booking"
	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/leads"
	"github.com/leadline-ai/leadline/internal/merchant"
	"github.com/leadline-ai/leadline/internal/session"
)

type completionOutcome struct {
	justCompleted  bool
	booked         bool
	handoffMessage string
}

// allRequiredFilled is the completion condition: every required field of the
// session's registry holds an accepted value.
func allRequiredFilled(state *session.State, reg *fields.Registry) bool {
	return len(state.Missing(reg)) == 0
}

// complete marks the session done and runs the one-shot completion side
// effects: persist the lead, then hand it to the booking adapter. Failures
// degrade to a manual-handoff message; the completed flag stays set either
// way so nothing retriggers.
func (e *Engine) complete(ctx context.Context, state *session.State, cfg *merchant.Config) completionOutcome {
	state.Completed = true
	state.CompletedTurn = state.TurnIndex

	lead := e.leadSummary(state, cfg)

	if e.leadRepo != nil {
		created, err := e.leadRepo.Create(ctx, leadRequest(state, lead))
		if err != nil {
			e.metrics.ObserveCollaboratorError("lead_store")
			e.logger.Error("failed to persist lead",
				"error", err,
				"merchant_id", state.MerchantID,
				"session_id", state.SessionID,
			)
		} else {
			lead.LeadID = created.ID
		}
	}

	outcome := completionOutcome{justCompleted: true}
	if e.booker == nil {
		outcome.handoffMessage = booking.HandoffMessage(merchantDisplayName(cfg))
		e.metrics.ObserveCompletion(state.MerchantID, false)
		return outcome
	}

	result, err := e.booker.Schedule(ctx, lead)
	if err != nil || result == nil {
		e.metrics.ObserveCollaboratorError("booking")
		e.logger.Error("booking failed, degrading to manual handoff",
			"error", err,
			"merchant_id", state.MerchantID,
			"session_id", state.SessionID,
		)
		outcome.handoffMessage = booking.HandoffMessage(merchantDisplayName(cfg))
		e.metrics.ObserveCompletion(state.MerchantID, false)
		return outcome
	}

	outcome.booked = result.Booked
	outcome.handoffMessage = result.HandoffMessage
	state.BookingRef = result.Reference
	e.metrics.ObserveCompletion(state.MerchantID, result.Booked)
	return outcome
}

func (e *Engine) leadSummary(state *session.State, cfg *merchant.Config) booking.LeadSummary {
	get := func(key string) string {
		if v, ok := state.Get(key); ok {
			return v.Value
		}
		return ""
	}
	return booking.LeadSummary{
		MerchantID:   state.MerchantID,
		SessionID:    state.SessionID,
		MerchantName: merchantDisplayName(cfg),
		Name:         get("name"),
		Phone:        get("phone"),
		Email:        get("email"),
		Location:     get("location"),
		Style:        get("style"),
		Scope:        get("scope"),
		Budget:       get("budget"),
		Notes:        state.HistorySummary,
		CollectedAt:  time.Now().UTC(),
	}
}

func leadRequest(state *session.State, lead booking.LeadSummary) *leads.CreateLeadRequest {
	values := make(map[string]string, len(state.Values))
	for key, v := range state.Values {
		values[key] = v.Value
	}
	req := leads.FromValues(state.MerchantID, state.SessionID, values)
	req.Summary = state.HistorySummary
	req.BookingRef = state.BookingRef
	return req
}

// checklist snapshots collection status for the response: per-field state,
// the still-missing required keys in priority order, and ask counts.
func checklist(state *session.State, reg *fields.Registry) Checklist {
	specs := reg.All()
	out := Checklist{
		Fields:        make([]ChecklistItem, 0, len(specs)),
		Missing:       make([]string, 0, len(specs)),
		RequiredCount: len(reg.Required()),
	}
	for _, spec := range state.Missing(reg) {
		out.Missing = append(out.Missing, spec.Key)
	}
	for _, spec := range specs {
		item := ChecklistItem{
			Key:      spec.Key,
			Label:    spec.Label,
			Required: spec.Required,
		}
		if v, ok := state.Get(spec.Key); ok {
			item.Filled = true
			item.Value = v.Value
			out.CollectedCount++
		}
		if meta, ok := state.FieldMeta[spec.Key]; ok && meta.AskCount > 0 {
			if out.AskCounts == nil {
				out.AskCounts = make(map[string]int)
			}
			out.AskCounts[spec.Key] = meta.AskCount
		}
		out.Fields = append(out.Fields, item)
	}
	return out
}
