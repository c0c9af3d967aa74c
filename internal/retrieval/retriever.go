// Package retrieval fetches merchant content passages used to answer
// portfolio and pricing questions. The engine treats it as best effort: a
// slow or failing retriever degrades the reply, never the turn.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Passage is one scored snippet of merchant content.
type Passage struct {
	Text  string  `json:"text"`
	URL   string  `json:"url,omitempty"`
	Theme string  `json:"theme,omitempty"`
	Score float64 `json:"score"`
}

// Retriever finds passages relevant to a query, best first. Implementations
// return at most topK passages at or above their relevance cutoff; an empty
// result is a valid answer.
type Retriever interface {
	Retrieve(ctx context.Context, merchantID, query string, topK int) ([]Passage, error)
}

// MemoryIndex is a keyword-overlap Retriever for tests and merchants whose
// content fits in memory.
type MemoryIndex struct {
	threshold float64

	mu       sync.RWMutex
	passages map[string][]Passage
}

// NewMemoryIndex builds an empty index. A non-positive threshold falls back
// to 0.2 (keyword overlap scores run much lower than embedding scores).
func NewMemoryIndex(threshold float64) *MemoryIndex {
	if threshold <= 0 {
		threshold = 0.2
	}
	return &MemoryIndex{
		threshold: threshold,
		passages:  make(map[string][]Passage),
	}
}

// Add indexes passages for a merchant.
func (m *MemoryIndex) Add(merchantID string, passages ...Passage) {
	m.mu.Lock()
	m.passages[merchantID] = append(m.passages[merchantID], passages...)
	m.mu.Unlock()
}

// Retrieve scores every indexed passage by keyword overlap with the query.
func (m *MemoryIndex) Retrieve(_ context.Context, merchantID, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		topK = 3
	}
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	m.mu.RLock()
	indexed := m.passages[merchantID]
	m.mu.RUnlock()

	var scored []Passage
	for _, p := range indexed {
		score := overlap(queryTokens, tokenize(p.Text+" "+p.Theme))
		if score < m.threshold {
			continue
		}
		p.Score = score
		scored = append(scored, p)
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func tokenize(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,!?;:\"'()")
		if len(tok) < 3 {
			continue
		}
		out[tok] = true
	}
	return out
}

// overlap is the fraction of query tokens present in the passage.
func overlap(query, passage map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for tok := range query {
		if passage[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

var _ Retriever = (*MemoryIndex)(nil)
