// Package extract runs per-turn, field-typed extractors over the latest user
// message and merges accepted candidates into the conversation state.
// Extractors are pure and independent; several may fire on one message.
package extract

import (
	"strings"

	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/session"
)

// Candidate is the transient result of one extractor run. Produced fresh
// each turn and discarded after merge.
type Candidate struct {
	FieldKey   string
	Raw        string
	Normalized string
	Confidence float64
}

// Pipeline scans messages for candidate field values.
type Pipeline struct{}

// NewPipeline creates an extraction pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Run evaluates every field's extractor against the message. The state
// supplies the rolling history summary as fallback context and the ask
// bookkeeping that direct-reply extraction depends on. Malformed input
// yields an empty candidate set, never an error.
func (p *Pipeline) Run(message string, state *session.State, reg *fields.Registry) []Candidate {
	message = strings.TrimSpace(message)
	if message == "" || reg == nil {
		return nil
	}

	var out []Candidate
	for _, spec := range reg.All() {
		cand, ok := p.extractField(message, state, spec)
		if !ok {
			continue
		}
		normalized, valid := fields.Validate(spec, cand.Raw)
		if !valid {
			// Extraction noise: dropped silently.
			continue
		}
		cand.FieldKey = spec.Key
		cand.Normalized = normalized
		out = append(out, cand)
	}
	return out
}

func (p *Pipeline) extractField(message string, state *session.State, spec fields.Spec) (Candidate, bool) {
	switch spec.Type {
	case fields.TypeName:
		return extractName(message)
	case fields.TypePhone:
		return extractPhone(message)
	case fields.TypeEmail:
		return extractEmail(message)
	case fields.TypeLocation:
		return extractLocation(message, state)
	case fields.TypeStyle:
		return extractStyle(message, state, spec.Key)
	case fields.TypeCurrency:
		return extractBudget(message)
	case fields.TypeNumber:
		return extractNumber(message)
	case fields.TypeChoice:
		return extractChoice(message, spec)
	case fields.TypeText:
		return extractText(message, state, spec)
	default:
		return Candidate{}, false
	}
}

// wasAskedLastTurn reports whether the field was prompted on the immediately
// preceding turn, which makes the whole message a plausible direct reply.
func wasAskedLastTurn(state *session.State, key string) bool {
	if state == nil {
		return false
	}
	meta, ok := state.FieldMeta[key]
	if !ok || meta.AskCount == 0 {
		return false
	}
	return state.TurnIndex-meta.LastAskedTurn == 1
}
