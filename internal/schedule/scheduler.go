// Package schedule decides which missing field to ask for next. It balances
// forward progress against nagging: a field just asked rests for a cooldown
// window, and a field that has been asked repeatedly without an answer drops
// to the back of the queue instead of blocking the conversation.
package schedule

import (
	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/session"
)

// Scheduler picks the next field to prompt for.
type Scheduler struct {
	cooldownTurns int
	maxAsks       int
}

// New builds a scheduler. Non-positive arguments fall back to a 2-turn
// cooldown and a 3-ask cap.
func New(cooldownTurns, maxAsks int) *Scheduler {
	if cooldownTurns <= 0 {
		cooldownTurns = 2
	}
	if maxAsks <= 0 {
		maxAsks = 3
	}
	return &Scheduler{cooldownTurns: cooldownTurns, maxAsks: maxAsks}
}

// Next returns the field to ask this turn, or ok=false when every required
// field is filled. Selection walks the registry's priority order three times
// with loosening rules:
//
//  1. unasked or cooled-down fields under the ask cap
//  2. fields under the cap regardless of cooldown, least recently asked first
//  3. capped fields, least recently asked first
//
// so the conversation always moves toward completion even when the user
// keeps dodging a question.
func (s *Scheduler) Next(state *session.State, reg *fields.Registry) (fields.Spec, bool) {
	missing := state.Missing(reg)
	if len(missing) == 0 {
		return fields.Spec{}, false
	}

	for _, spec := range missing {
		meta := state.Meta(spec.Key)
		if meta.AskCount >= s.maxAsks {
			continue
		}
		if meta.AskCount > 0 && state.TurnIndex-meta.LastAskedTurn < s.cooldownTurns {
			continue
		}
		return spec, true
	}

	if spec, ok := leastRecentlyAsked(state, missing, s.maxAsks); ok {
		return spec, true
	}
	return leastRecentlyAsked(state, missing, 0)
}

// leastRecentlyAsked picks the missing field with the oldest last-ask, among
// those under askCap (askCap 0 means no cap). Registry order breaks ties.
func leastRecentlyAsked(state *session.State, missing []fields.Spec, askCap int) (fields.Spec, bool) {
	best := -1
	for i, spec := range missing {
		meta := state.Meta(spec.Key)
		if askCap > 0 && meta.AskCount >= askCap {
			continue
		}
		if best == -1 || meta.LastAskedTurn < state.Meta(missing[best].Key).LastAskedTurn {
			best = i
		}
	}
	if best == -1 {
		return fields.Spec{}, false
	}
	return missing[best], true
}
