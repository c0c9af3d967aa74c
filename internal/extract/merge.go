package extract

import (
	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/session"
)

// Merge folds candidates into the state. A candidate lands only when its
// confidence clears the field's acceptance threshold; an existing value is
// overwritten only by a strictly more confident candidate from a later turn,
// so an early confident answer never flip-flops on a later vague mention.
// Returns the keys whose values changed.
func Merge(state *session.State, candidates []Candidate, reg *fields.Registry) []string {
	if state == nil || reg == nil {
		return nil
	}
	var changed []string
	for _, cand := range candidates {
		spec, ok := reg.Get(cand.FieldKey)
		if !ok {
			continue
		}
		if cand.Confidence < spec.AcceptThreshold() {
			continue
		}
		current, exists := state.Values[cand.FieldKey]
		if exists {
			if cand.Confidence <= current.Confidence {
				continue
			}
			if state.TurnIndex <= current.Turn {
				continue
			}
		}
		state.Values[cand.FieldKey] = session.Value{
			Value:      cand.Normalized,
			Confidence: cand.Confidence,
			Turn:       state.TurnIndex,
		}
		changed = append(changed, cand.FieldKey)
	}
	return changed
}
