package extract

import (
	"regexp"
	"strings"

	"github.com/leadline-ai/leadline/internal/fields"
	"github.com/leadline-ai/leadline/internal/session"
)

var (
	// Money with an explicit currency prefix or a k/m magnitude suffix is
	// unambiguous on its own.
	moneyRE = regexp.MustCompile(`(?i)\brm\s*\d[\d,]*(?:\.\d+)?\s*[km]?\b|\b\d[\d,]*(?:\.\d+)?\s*[km]\b`)

	// Bare numbers only count as money next to a budget marker; otherwise a
	// phone number or unit count would match.
	markedMoneyRE = regexp.MustCompile(`(?i)\b(?:budget|spend|spending|around|about|roughly|approx(?:imately)?|up to|under|below|max(?:imum)?|within)(?:\s+(?:is|of|rm))*\s+(\d[\d,]*(?:\.\d+)?\s*[km]?)\b`)

	numberRE        = regexp.MustCompile(`\b\d[\d,]*(?:\.\d+)?\b`)
	scopeKeywordsRE = regexp.MustCompile(`(?i)\b(?:living(?:\s+room)?|kitchen|bed(?:room)?s?|bathroom|dining|study|balcony|whole\s+(?:house|home|unit)|entire\s+(?:house|home|unit)|full\s+(?:house|home|unit|reno(?:vation)?)|wet\s+kitchen|dry\s+kitchen|master\s+(?:bed)?room)\b`)
)

// extractBudget looks for a money amount. Amounts carrying RM or a k/m
// suffix match anywhere; bare digits only match when anchored to a budget
// marker so phone numbers never misread as money. For ranges
// ("RM 50k-80k") the first bound wins.
func extractBudget(message string) (Candidate, bool) {
	if m := moneyRE.FindString(message); m != "" {
		return Candidate{Raw: m, Confidence: 0.85}, true
	}
	if m := markedMoneyRE.FindStringSubmatch(message); m != nil {
		return Candidate{Raw: m[1], Confidence: 0.75}, true
	}
	return Candidate{}, false
}

// extractNumber picks a bare number ("3 bedrooms", "1200 sqft"). Phone-length
// digit runs are rejected.
func extractNumber(message string) (Candidate, bool) {
	m := numberRE.FindString(message)
	if m == "" {
		return Candidate{}, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m)
	if len(digits) >= 9 {
		return Candidate{}, false
	}
	return Candidate{Raw: m, Confidence: 0.7}, true
}

// extractChoice defers option matching to the field validator; the message is
// passed whole so partial mentions ("probably the premium one") still hit.
func extractChoice(message string, spec fields.Spec) (Candidate, bool) {
	if len(spec.Choices) == 0 {
		return Candidate{}, false
	}
	lower := strings.ToLower(message)
	for _, choice := range spec.Choices {
		if strings.Contains(lower, strings.ToLower(choice)) {
			return Candidate{Raw: choice, Confidence: 0.85}, true
		}
	}
	return Candidate{}, false
}

// extractText treats the whole message as the answer when the field was asked
// on the previous turn; otherwise only scope-like keyword phrases are picked
// up opportunistically.
func extractText(message string, state *session.State, spec fields.Spec) (Candidate, bool) {
	if wasAskedLastTurn(state, spec.Key) {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" || len(trimmed) > 300 {
			return Candidate{}, false
		}
		// A direct reply that reads as a question is the user asking back,
		// not answering.
		if strings.HasSuffix(trimmed, "?") {
			return Candidate{}, false
		}
		return Candidate{Raw: trimmed, Confidence: 0.7}, true
	}
	if spec.Key == "scope" {
		if matches := scopeKeywordsRE.FindAllString(message, 4); len(matches) > 0 {
			return Candidate{Raw: strings.Join(matches, ", "), Confidence: 0.55}, true
		}
	}
	return Candidate{}, false
}
