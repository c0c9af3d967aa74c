package fields

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	phoneRE    = regexp.MustCompile(`(?:\+?60[-\s]?)?0?1\d(?:[-\s]?\d){7,8}|(?:\+?60[-\s]?)?0?[3-9](?:[-\s]?\d){7,9}`)
	emailRE    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	numberRE   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	currencyRE = regexp.MustCompile(`(?i)(?:rm|myr)?\s*(\d[\d,]*(?:\.\d+)?)\s*(k|m)?\b`)
	nameRE     = regexp.MustCompile(`^[\p{L}][\p{L}' .-]{1,59}$`)

	nonDigitRE = regexp.MustCompile(`[^\d+]`)
)

const minPhoneDigits = 9

// Validate checks a raw value against the spec's type and returns the
// normalized form. Returning ok=false means the candidate is extraction
// noise and must be dropped silently.
func Validate(spec Spec, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	switch spec.Type {
	case TypePhone:
		return normalizePhone(raw)
	case TypeEmail:
		m := emailRE.FindString(raw)
		return strings.ToLower(m), m != ""
	case TypeNumber:
		m := numberRE.FindString(raw)
		return m, m != ""
	case TypeCurrency:
		return NormalizeCurrency(raw)
	case TypeChoice:
		return matchChoice(raw, spec.Choices)
	case TypeName:
		return normalizeName(raw)
	case TypeLocation, TypeStyle, TypeText:
		return raw, true
	default:
		return raw, true
	}
}

// normalizePhone cleans separators and converts Malaysian numbers to E.164.
func normalizePhone(raw string) (string, bool) {
	m := phoneRE.FindString(raw)
	if m == "" {
		return "", false
	}
	digits := nonDigitRE.ReplaceAllString(m, "")

	var normalized string
	switch {
	case strings.HasPrefix(digits, "+60"):
		normalized = digits
	case strings.HasPrefix(digits, "60"):
		normalized = "+" + digits
	case strings.HasPrefix(digits, "0"):
		normalized = "+60" + digits[1:]
	default:
		normalized = digits
	}

	if countDigits(normalized) < minPhoneDigits {
		return "", false
	}
	return normalized, true
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// NormalizeCurrency parses numeric-plus-unit expressions such as "RM 50k",
// "50,000" or "1.2m" into a canonical integer string.
func NormalizeCurrency(raw string) (string, bool) {
	m := currencyRE.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	numeric := strings.ReplaceAll(m[1], ",", "")
	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		value *= 1_000
	case "m":
		value *= 1_000_000
	}
	if value <= 0 {
		return "", false
	}
	return strconv.FormatInt(int64(value), 10), true
}

func matchChoice(raw string, choices []string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, choice := range choices {
		if strings.Contains(lower, strings.ToLower(choice)) {
			return choice, true
		}
	}
	return "", false
}

func normalizeName(raw string) (string, bool) {
	cleaned := strings.Trim(raw, " .-")
	if !nameRE.MatchString(cleaned) {
		return "", false
	}
	words := strings.Fields(cleaned)
	if len(words) == 0 || len(words) > 4 {
		return "", false
	}
	for i, w := range words {
		words[i] = capitalizeWord(w)
	}
	return strings.Join(words, " "), true
}

func capitalizeWord(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
