package session

import "strings"

// AppendSummary folds one exchange into the rolling history summary, keeping
// the tail within maxChars. Older exchanges fall off the front at line
// boundaries so the kept text stays parseable by the extractors.
func (s *State) AppendSummary(userMessage, reply string, maxChars int) {
	if maxChars <= 0 {
		maxChars = 1200
	}
	var b strings.Builder
	if s.HistorySummary != "" {
		b.WriteString(s.HistorySummary)
		b.WriteString("\n")
	}
	b.WriteString("user: ")
	b.WriteString(strings.TrimSpace(userMessage))
	b.WriteString("\nassistant: ")
	b.WriteString(strings.TrimSpace(reply))

	summary := b.String()
	for len(summary) > maxChars {
		cut := strings.Index(summary, "\n")
		if cut < 0 {
			summary = summary[len(summary)-maxChars:]
			break
		}
		summary = summary[cut+1:]
	}
	s.HistorySummary = summary
}
