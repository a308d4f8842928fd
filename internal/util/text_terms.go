package util

import (
	"strings"
	"unicode"
)

// SplitSentences breaks text on sentence-final punctuation. The last
// unterminated fragment is kept.
func SplitSentences(s string) []string {
	out := make([]string, 0, 8)
	var b strings.Builder
	for _, r := range s {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			x := strings.TrimSpace(b.String())
			if x != "" {
				out = append(out, x)
			}
			b.Reset()
		}
	}
	rest := strings.TrimSpace(b.String())
	if rest != "" {
		out = append(out, rest)
	}
	return out
}

// MeaningfulTerms lowercases text and returns the distinct non-stopword
// tokens of length >= 3, in first-seen order.
func MeaningfulTerms(s string) []string {
	s = strings.ToLower(TrimClean(s, 2000))
	fields := strings.Fields(s)
	uniq := map[string]struct{}{}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ",.;:!?()[]{}\"'`")
		if len(f) < 3 {
			continue
		}
		if IsStopword(f) {
			continue
		}
		if _, ok := uniq[f]; ok {
			continue
		}
		uniq[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "to": {}, "of": {}, "in": {}, "on": {},
	"for": {}, "is": {}, "are": {}, "was": {}, "were": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "how": {}, "why": {}, "which": {}, "that": {}, "this": {}, "these": {}, "those": {},
	"with": {}, "from": {}, "did": {}, "does": {}, "had": {}, "has": {}, "have": {}, "about": {},
	"percentage": {}, "much": {}, "many": {}, "been": {}, "will": {}, "they": {}, "their": {},
}

func IsStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}

// TrimClean strips control characters and truncates to maxRunes, appending an
// ellipsis when truncation happened.
func TrimClean(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\x00' {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			out = append(out, r)
		}
	}
	trimmed := strings.TrimSpace(string(out))
	runes := []rune(trimmed)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes])) + "..."
	}
	return trimmed
}
