package extract

import (
	"regexp"
	"strings"
)

// ---------- package-level compiled regexes ----------

const nameWordPattern = `[\p{L}][\p{L}'-]*`

var namePhrasePattern = nameWordPattern + `(?:\s+` + nameWordPattern + `){0,2}`

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+(` + namePhrasePattern + `)`),
	regexp.MustCompile(`(?i)\bi'?m\s+(` + namePhrasePattern + `)(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)\bi am\s+(` + namePhrasePattern + `)(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)this is\s+(` + namePhrasePattern + `)`),
	regexp.MustCompile(`(?i)call me\s+(` + namePhrasePattern + `)`),
	regexp.MustCompile(`(?i)name'?s\s+(` + namePhrasePattern + `)`),
}

var greetingPrefixRE = regexp.MustCompile(`(?i)^(?:hi|hello|hey|good (?:morning|afternoon|evening))[\s,!.]*`)

var nameQuoteNormalizer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"′", "'",
)

// commonWords are everyday words that must never be captured as a name.
var commonWords = map[string]bool{
	"interested": true, "looking": true, "here": true, "ready": true,
	"good": true, "fine": true, "okay": true, "ok": true, "sure": true,
	"new": true, "not": true, "just": true, "still": true, "also": true,
	"planning": true, "hoping": true, "wanting": true, "trying": true,
	"thinking": true, "wondering": true, "asking": true, "checking": true,
	"going": true, "about": true, "after": true, "keen": true,
	"renovating": true, "renovation": true, "designing": true,
	"budget": true, "style": true, "location": true, "phone": true,
	"the": true, "and": true, "for": true, "all": true, "yes": true,
	"no": true, "thanks": true, "thank": true, "please": true,
	"very": true, "really": true, "so": true, "a": true, "an": true,
	"in": true, "on": true, "at": true, "from": true, "free": true,
	"busy": true, "back": true, "done": true, "open": true,
}

// nameStopWords end a name phrase when they follow a captured word.
var nameStopWords = map[string]bool{
	"and": true, "my": true, "phone": true, "is": true, "number": true,
	"please": true, "call": true, "contact": true, "at": true, "from": true,
	"looking": true, "here": true, "interested": true, "keen": true,
}

// extractName applies greeting stripping and introduction patterns, falling
// back to the comma form ("Mei, 0123...") and the words-before-phone form.
// Confidence reflects how explicit the introduction was; a low-confidence
// guess never displaces an accepted value (merge policy).
func extractName(message string) (Candidate, bool) {
	text := nameQuoteNormalizer.Replace(message)
	text = greetingPrefixRE.ReplaceAllString(text, "")

	for _, pattern := range namePatterns {
		m := pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		if name := cleanNamePhrase(m[1]); name != "" {
			return Candidate{Raw: name, Confidence: 0.9}, true
		}
	}

	// "Mei, 0123456789" style: take the part before the first comma.
	if idx := strings.Index(text, ","); idx > 0 {
		left := strings.TrimSpace(text[:idx])
		if name := cleanNamePhrase(left); name != "" && len(strings.Fields(left)) <= 3 {
			return Candidate{Raw: name, Confidence: 0.7}, true
		}
	}

	// Leading words before a phone number, e.g. "Mei Ling 0123456789".
	if phoneCand, ok := extractPhone(text); ok {
		if pos := strings.Index(text, phoneCand.Raw); pos > 0 {
			lead := strings.TrimSpace(text[:pos])
			if name := cleanNamePhrase(lead); name != "" && len(strings.Fields(lead)) <= 3 {
				return Candidate{Raw: name, Confidence: 0.6}, true
			}
		}
	}

	return Candidate{}, false
}

// cleanNamePhrase trims punctuation, cuts the phrase at the first stop word
// and rejects phrases made of common non-name words.
func cleanNamePhrase(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	var kept []string
	for _, word := range words {
		cleaned := strings.Trim(word, ".,!?\"()[]{}'-")
		if cleaned == "" {
			continue
		}
		lower := strings.ToLower(cleaned)
		if len(kept) > 0 && nameStopWords[lower] {
			break
		}
		if commonWords[lower] || !isAlphabetic(cleaned) {
			if len(kept) > 0 {
				break
			}
			return ""
		}
		kept = append(kept, cleaned)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}

func isAlphabetic(word string) bool {
	for _, r := range word {
		if !isLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return len(word) >= 2
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}
