package qa

import (
	"fmt"
	"strings"
	"unicode"

	"voxqa/internal/util"
)

// baseQuestions are always offered first; they apply to any transcript.
var baseQuestions = []string{
	"What is the main topic discussed here?",
	"What are the important details discussed here?",
}

// Suggest derives up to maxCount candidate questions from the document alone.
// It mines proper nouns (capitalized words away from sentence starts) and
// numeric mentions in document order and templates them into question forms,
// deduplicating near-identical output. Deterministic for a given document;
// never calls the extraction capability.
func Suggest(document string, maxCount int) []string {
	if maxCount <= 0 {
		maxCount = 5
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, maxCount)
	add := func(q string) bool {
		key := NormalizeAnswer(q)
		if key == "" {
			return len(out) < maxCount
		}
		if _, dup := seen[key]; dup {
			return len(out) < maxCount
		}
		seen[key] = struct{}{}
		out = append(out, q)
		return len(out) < maxCount
	}

	for _, q := range baseQuestions {
		if !add(q) {
			return out
		}
	}

	for _, sentence := range util.SplitSentences(util.SanitizeTranscript(document)) {
		words := strings.Fields(sentence)
		for i, w := range words {
			token := strings.Trim(w, ",.;:!?()[]{}\"'`")
			if token == "" {
				continue
			}
			if isNumeric(token) {
				mention := token
				if i+1 < len(words) {
					next := strings.Trim(words[i+1], ",.;:!?()[]{}\"'`")
					if next != "" && !util.IsStopword(next) && !isNumeric(next) {
						mention = token + " " + next
					}
				}
				if !add(fmt.Sprintf("What does %s refer to?", mention)) {
					return out
				}
				continue
			}
			if i == 0 || len([]rune(token)) < 3 || util.IsStopword(token) {
				continue
			}
			if first := []rune(token)[0]; !unicode.IsUpper(first) {
				continue
			}
			if !add(fmt.Sprintf("What was mentioned about %s?", token)) {
				return out
			}
		}
	}
	return out
}

func isNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
			continue
		}
		if r == '.' || r == ',' || r == '%' || r == '-' {
			continue
		}
		return false
	}
	return digits > 0
}
