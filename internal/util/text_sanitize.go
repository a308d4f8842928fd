package util

import (
	"strings"
	"unicode"
)

// SanitizeTranscript cleans raw transcript text before chunking: NUL and
// non-printing controls are dropped (some export paths emit 0x00), runs of
// whitespace collapse to a single space, and immediately repeated words
// (a common transcription stutter) are removed.
func SanitizeTranscript(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ' ')
			continue
		}
		if ch < 0x20 {
			continue
		}
		r = append(r, ch)
	}

	fields := strings.Fields(string(r))
	out := make([]string, 0, len(fields))
	for i, f := range fields {
		if i > 0 && strings.EqualFold(f, fields[i-1]) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// NormalizeQuestion trims a user question, capitalizes it and guarantees a
// trailing question mark, matching what the extraction model was trained on.
func NormalizeQuestion(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return q
	}
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}
	runes := []rune(q)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// RestoreWordBoundaries re-inserts spaces lost by PDF text extraction where
// case or digit transitions make the seam unambiguous.
func RestoreWordBoundaries(s string) string {
	if s == "" {
		return s
	}
	in := []rune(s)
	out := make([]rune, 0, len(in)+len(in)/8)
	for i, r := range in {
		if i > 0 && needBoundary(in[i-1], r) {
			last := out[len(out)-1]
			if !unicode.IsSpace(last) {
				out = append(out, ' ')
			}
		}
		out = append(out, r)
	}
	return string(out)
}

func needBoundary(a, b rune) bool {
	if unicode.IsLower(a) && unicode.IsUpper(b) {
		return true
	}
	if unicode.IsLetter(a) && unicode.IsDigit(b) {
		return true
	}
	if unicode.IsDigit(a) && unicode.IsLetter(b) {
		return true
	}
	return false
}
