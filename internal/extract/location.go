package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/leadline-ai/leadline/internal/session"
)

// cityAliases maps lowercase aliases (abbreviations included) to canonical
// Malaysian place names.
var cityAliases = map[string]string{
	// Abbreviations first
	"kl": "Kuala Lumpur",
	"pj": "Petaling Jaya",
	"jb": "Johor Bahru",
	"kk": "Kota Kinabalu",
	// Klang Valley / popular areas
	"kuala lumpur":  "Kuala Lumpur",
	"petaling jaya": "Petaling Jaya",
	"subang jaya":   "Subang Jaya",
	"shah alam":     "Shah Alam",
	"ampang":        "Ampang",
	"cheras":        "Cheras",
	"gombak":        "Gombak",
	"kepong":        "Kepong",
	"puchong":       "Puchong",
	"kajang":        "Kajang",
	"bangsar":       "Bangsar",
	"damansara":     "Damansara",
	"mont kiara":    "Mont Kiara",
	"desa parkcity": "Desa ParkCity",
	"setia alam":    "Setia Alam",
	"sunway":        "Sunway",
	"usj":           "USJ",
	"klang":         "Klang",
	"sri hartamas":  "Sri Hartamas",
	"bukit jalil":   "Bukit Jalil",
	"ttdi":          "TTDI",
	"wangsa maju":   "Wangsa Maju",
	"setapak":       "Setapak",
	// States & major cities nationwide
	"penang":          "Penang",
	"george town":     "George Town",
	"ipoh":            "Ipoh",
	"perak":           "Perak",
	"seremban":        "Seremban",
	"negeri sembilan": "Negeri Sembilan",
	"kuantan":         "Kuantan",
	"pahang":          "Pahang",
	"kota bharu":      "Kota Bharu",
	"kelantan":        "Kelantan",
	"alor setar":      "Alor Setar",
	"kedah":           "Kedah",
	"kuching":         "Kuching",
	"sarawak":         "Sarawak",
	"miri":            "Miri",
	"sibu":            "Sibu",
	"kota kinabalu":   "Kota Kinabalu",
	"sabah":           "Sabah",
	"sandakan":        "Sandakan",
	"tawau":           "Tawau",
	"putrajaya":       "Putrajaya",
	"cyberjaya":       "Cyberjaya",
	"melaka":          "Melaka",
	"malacca":         "Melaka",
	"johor bahru":     "Johor Bahru",
	"johor":           "Johor",
	"sepang":          "Sepang",
	"nilai":           "Nilai",
	"bangi":           "Bangi",
	"port dickson":    "Port Dickson",
}

// aliasesByLength holds alias keys longest first so specific names win over
// abbreviations.
var aliasesByLength = func() []string {
	keys := make([]string, 0, len(cityAliases))
	for k := range cityAliases {
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

// buildingRE marks building names ("Park Regent Residence").
var buildingRE = regexp.MustCompile(`\b[a-z][a-z '\-]{2,40}\s+(?:residences?|condo(?:minium)?|apartments?|suites?|heights|towers?|soho)\b`)

var locationHintRE = regexp.MustCompile(`\b(?:in|at|near|around|located in|based in)\s+`)

var locationNormRE = regexp.MustCompile(`[^\w\s\-'/]+`)

// nonLocationMarkers are words that, adjacent to a short capitalized token,
// signal the token is part of an unrelated phrase (e.g. "ID ideas") rather
// than a place abbreviation.
var nonLocationMarkers = map[string]bool{
	"ideas": true, "idea": true, "design": true, "designs": true,
	"renovation": true, "reno": true, "makeover": true, "concept": true,
	"concepts": true, "work": true, "works": true, "card": true,
	"interior": true, "project": true, "projects": true, "theme": true,
	"style": true, "inspiration": true,
}

const aliasFuzzyThreshold = 0.82

func normLocationText(s string) string {
	s = strings.ToLower(s)
	s = locationNormRE.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// extractLocation resolves a place mention via the alias dictionary with
// fuzzy support, falling back to the history summary for context. Short
// acronym aliases are only accepted away from non-location intent markers.
func extractLocation(message string, state *session.State) (Candidate, bool) {
	if cand, ok := locationFromText(message); ok {
		return cand, true
	}
	if state != nil && state.HistorySummary != "" && wasAskedLastTurn(state, "location") {
		if cand, ok := locationFromText(state.HistorySummary); ok {
			cand.Confidence -= 0.1
			return cand, true
		}
	}
	return Candidate{}, false
}

func locationFromText(text string) (Candidate, bool) {
	t := normLocationText(text)
	if t == "" {
		return Candidate{}, false
	}
	tokens := strings.Fields(t)
	padded := " " + t + " "

	// 1) Direct alias scan, longest first.
	for _, alias := range aliasesByLength {
		if !strings.Contains(padded, " "+alias+" ") {
			continue
		}
		if len(alias) <= 3 && !acceptShortAlias(tokens, alias) {
			continue
		}
		confidence := 0.9
		if len(alias) <= 3 {
			confidence = 0.75
		}
		return Candidate{Raw: cityAliases[alias], Confidence: confidence}, true
	}

	// 2) "in/at/near ..." span: n-gram alias lookup with fuzzy tolerance.
	if loc := locationHintRE.FindStringIndex(padded); loc != nil {
		span := padded[loc[1]:]
		if cut := strings.IndexAny(span, ".,;!?"); cut >= 0 {
			span = span[:cut]
		}
		if len(span) > 50 {
			span = span[:50]
		}
		spanTokens := strings.Fields(span)
		for n := 3; n >= 1; n-- {
			for i := 0; i+n <= len(spanTokens); i++ {
				ngram := strings.Join(spanTokens[i:i+n], " ")
				if canonical, ok := fuzzyAlias(ngram); ok {
					return Candidate{Raw: canonical, Confidence: 0.7}, true
				}
			}
		}
		if building, ok := buildingName(span); ok {
			return Candidate{Raw: building, Confidence: 0.65}, true
		}
	}

	// 3) Building-like name anywhere.
	if building, ok := buildingName(t); ok {
		return Candidate{Raw: building, Confidence: 0.6}, true
	}

	return Candidate{}, false
}

// acceptShortAlias guards 2-3 letter abbreviations: reject when an adjacent
// word is a non-location intent marker, so "ID ideas" or "PJ concept work"
// style phrases don't produce a place.
func acceptShortAlias(tokens []string, alias string) bool {
	for i, tok := range tokens {
		if tok != alias {
			continue
		}
		if i > 0 && nonLocationMarkers[tokens[i-1]] {
			return false
		}
		if i+1 < len(tokens) && nonLocationMarkers[tokens[i+1]] {
			return false
		}
		return true
	}
	return false
}

// fuzzyAlias matches an n-gram against the alias table with edit-distance
// tolerance for typos like "mont kiaraa".
func fuzzyAlias(ngram string) (string, bool) {
	if canonical, ok := cityAliases[ngram]; ok {
		if len(ngram) <= 3 {
			return "", false // short aliases only via the guarded direct scan
		}
		return canonical, true
	}
	if len(ngram) < 5 {
		return "", false
	}
	bestScore := 0.0
	bestCanonical := ""
	for alias, canonical := range cityAliases {
		if len(alias) < 5 {
			continue
		}
		score := similarity(ngram, alias)
		if score > bestScore {
			bestScore = score
			bestCanonical = canonical
		}
	}
	if bestScore >= aliasFuzzyThreshold {
		return bestCanonical, true
	}
	return "", false
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func buildingName(text string) (string, bool) {
	match := buildingRE.FindString(text)
	if match == "" {
		return "", false
	}
	return titleCaseWords(strings.TrimSpace(match)), true
}

func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
