package extract

import (
	"sort"
	"strings"

	"github.com/leadline-ai/leadline/internal/session"
)

// styleKeywords maps surface phrases to canonical design themes.
var styleKeywords = map[string]string{
	"modern":           "modern",
	"contemporary":     "modern contemporary",
	"minimalist":       "minimalist",
	"minimal":          "minimalist",
	"muji":             "muji",
	"japandi":          "japandi",
	"scandinavian":     "scandinavian",
	"scandi":           "scandinavian",
	"nordic":           "scandinavian",
	"industrial":       "industrial",
	"rustic":           "rustic",
	"bohemian":         "bohemian",
	"boho":             "bohemian",
	"luxury":           "modern luxury",
	"luxurious":        "modern luxury",
	"classic":          "modern classic",
	"modern classic":   "modern classic",
	"victorian":        "victorian",
	"english":          "english",
	"french":           "french",
	"mediterranean":    "mediterranean",
	"tropical":         "tropical",
	"balinese":         "balinese",
	"zen":              "zen",
	"retro":            "retro",
	"vintage":          "vintage",
	"mid century":      "mid-century modern",
	"mid-century":      "mid-century modern",
	"wabi sabi":        "wabi-sabi",
	"wabi-sabi":        "wabi-sabi",
	"art deco":         "art deco",
	"farmhouse":        "farmhouse",
	"cottage":          "cottage",
	"eclectic":         "eclectic",
	"raya":             "raya",
	"peranakan":        "peranakan",
	"oriental":         "oriental",
	"chinese new year": "chinese new year",
}

// genericStyleTerms carry weak signal on their own ("nice", "cozy") and are
// accepted at reduced confidence so an explicit theme always outranks them.
var genericStyleTerms = map[string]string{
	"cozy":        "cozy",
	"cosy":        "cozy",
	"warm":        "warm",
	"simple":      "simple",
	"clean":       "clean",
	"bright":      "bright",
	"airy":        "airy",
	"elegant":     "elegant",
	"neutral":     "neutral",
	"earthy":      "earthy tones",
	"earth tones": "earthy tones",
	"dark":        "dark",
	"moody":       "moody",
}

var styleKeysByLength = func() []string {
	keys := make([]string, 0, len(styleKeywords))
	for k := range styleKeywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

const styleFuzzyThreshold = 0.82

// extractStyle matches canonical theme keywords (longest first, with fuzzy
// tolerance for typos like "scandinavain"), then generic descriptors at lower
// confidence. A generic descriptor given as a direct reply to the style
// question is trusted more than one buried in an unrelated message.
func extractStyle(message string, state *session.State, fieldKey string) (Candidate, bool) {
	t := normLocationText(message)
	if t == "" {
		return Candidate{}, false
	}
	padded := " " + t + " "

	for _, key := range styleKeysByLength {
		if strings.Contains(padded, " "+key+" ") {
			return Candidate{Raw: styleKeywords[key], Confidence: 0.9}, true
		}
	}

	// Fuzzy pass over single tokens for misspelled theme words.
	for _, tok := range strings.Fields(t) {
		if len(tok) < 5 {
			continue
		}
		for key, canonical := range styleKeywords {
			if strings.Contains(key, " ") || len(key) < 5 {
				continue
			}
			if similarity(tok, key) >= styleFuzzyThreshold {
				return Candidate{Raw: canonical, Confidence: 0.75}, true
			}
		}
	}

	genericConfidence := 0.45
	if wasAskedLastTurn(state, fieldKey) {
		genericConfidence = 0.65
	}
	for key, canonical := range genericStyleTerms {
		if strings.Contains(padded, " "+key+" ") {
			return Candidate{Raw: canonical, Confidence: genericConfidence}, true
		}
	}

	return Candidate{}, false
}
