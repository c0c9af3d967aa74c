// Package intent labels each user message with the conversational intents it
// expresses. Classification is keyword-driven and deterministic; a message
// may carry several intents at once, returned in fixed priority order so the
// reply assembler always addresses the most actionable one first.
package intent

import (
	"regexp"
	"strings"
)

// Intent is a coarse label for what the user is asking for this turn.
type Intent string

const (
	Portfolio    Intent = "portfolio"
	Pricing      Intent = "pricing"
	Consultation Intent = "consultation"
	Greeting     Intent = "greeting"
	Generic      Intent = "generic"
)

// priority fixes the order intents are reported in. Earlier entries win the
// Primary slot when several fire on one message.
var priority = []Intent{Portfolio, Pricing, Consultation, Greeting, Generic}

var intentPatterns = map[Intent]*regexp.Regexp{
	Portfolio: regexp.MustCompile(`(?i)\b(?:portfolio|past (?:work|projects?)|previous (?:work|projects?)|examples?|gallery|showcase|photos? of|pictures? of|show me|can i see|your (?:work|projects?|designs?))\b`),
	Pricing: regexp.MustCompile(`(?i)\b(?:price|prices|pricing|cost|costs|charge|charges|fees?|rates?|quotation|quote|how much|berapa|expensive|affordable|package(?:s)? price)\b`),
	Consultation: regexp.MustCompile(`(?i)\b(?:consult(?:ation)?|appointment|site visit|meet(?:ing|up)?|schedule|book(?:ing)?|arrange|discuss|come (?:over|by)|visit (?:my|our|the))\b`),
	Greeting: regexp.MustCompile(`(?i)^\s*(?:hi|hii+|hello|hey|yo|good (?:morning|afternoon|evening)|assalamualaikum|salam)\b`),
}

// Result is an ordered classification of one message.
type Result struct {
	Intents []Intent
}

// Primary returns the highest-priority intent, Generic when nothing fired.
func (r Result) Primary() Intent {
	if len(r.Intents) == 0 {
		return Generic
	}
	return r.Intents[0]
}

// Has reports whether the given intent fired.
func (r Result) Has(in Intent) bool {
	for _, got := range r.Intents {
		if got == in {
			return true
		}
	}
	return false
}

// Classifier detects intents in user messages.
type Classifier struct{}

// NewClassifier creates a keyword classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns every intent the message expresses, highest priority
// first. A message that fires nothing classifies as Generic.
func (c *Classifier) Classify(message string) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{Intents: []Intent{Generic}}
	}

	var out []Intent
	for _, in := range priority {
		pattern, ok := intentPatterns[in]
		if !ok {
			continue
		}
		if pattern.MatchString(message) {
			out = append(out, in)
		}
	}
	if len(out) == 0 {
		out = []Intent{Generic}
	}
	return Result{Intents: out}
}
