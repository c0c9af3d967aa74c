package extract

import "regexp"

var (
	phoneRE = regexp.MustCompile(`(?:\+?60[-\s]?)?0?1\d(?:[-\s]?\d){7,8}|(?:\+?60[-\s]?)?0[3-9](?:[-\s]?\d){7,9}`)
	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// extractPhone matches local and international digit sequences. Validation
// (separator cleanup, minimum digit count, E.164 normalization) happens in
// the fields package.
func extractPhone(message string) (Candidate, bool) {
	m := phoneRE.FindString(message)
	if m == "" {
		return Candidate{}, false
	}
	return Candidate{Raw: m, Confidence: 0.95}, true
}

func extractEmail(message string) (Candidate, bool) {
	m := emailRE.FindString(message)
	if m == "" {
		return Candidate{}, false
	}
	return Candidate{Raw: m, Confidence: 0.95}, true
}
