package extract

import (
	"context"
	"strings"
	"unicode"

	"voxqa/internal/util"
)

// MockExtractor is a deterministic heuristic stand-in for the real model,
// used in tests and as a dev fallback. It scores sentences by question-term
// overlap and extracts a numeric span when the question asks for a quantity,
// otherwise the best-matching sentence.
type MockExtractor struct{}

func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

func (m *MockExtractor) Extract(ctx context.Context, req Request) (Response, ExtractorInfo, error) {
	info := ExtractorInfo{Name: "mock", Model: "mock-extractive-v1", Key: "mock"}
	if err := ctx.Err(); err != nil {
		return Response{}, info, err
	}
	terms := util.MeaningfulTerms(req.Question)
	if len(terms) == 0 {
		return Response{}, info, nil
	}

	best, matched := bestSentence(req.Context, terms)
	if matched == 0 {
		return Response{}, info, nil
	}
	score := NormalizeScore(0.2 + 0.75*float64(matched)/float64(len(terms)))

	span, ok := pickSpan(req, best)
	if !ok {
		return Response{}, info, nil
	}
	span.Score = score
	return Response{Spans: []Span{span}}, info, nil
}

type sentenceSpan struct {
	start int // rune offset into the context
	end   int
	text  string
}

func bestSentence(text string, terms []string) (sentenceSpan, int) {
	var best sentenceSpan
	bestScore := 0
	cur := sentenceSpan{}
	runes := []rune(text)
	flush := func(end int) {
		cur.end = end
		cur.text = string(runes[cur.start:cur.end])
		low := strings.ToLower(cur.text)
		score := 0
		for _, term := range terms {
			if strings.Contains(low, term) {
				score++
			}
		}
		if score > bestScore {
			best = cur
			bestScore = score
		}
		cur = sentenceSpan{start: end}
	}
	for i, r := range runes {
		if r == '.' || r == '!' || r == '?' {
			flush(i + 1)
		}
	}
	if cur.start < len(runes) {
		flush(len(runes))
	}
	return best, bestScore
}

// pickSpan chooses the answer span inside the winning sentence: a number
// plus its unit word when the question sounds quantitative and the sentence
// has one, else the sentence itself trimmed of surrounding whitespace and
// trailing punctuation.
func pickSpan(req Request, s sentenceSpan) (Span, bool) {
	if wantsQuantity(req.Question) {
		if sp, ok := numericSpan(s); ok {
			return sp, true
		}
	}
	text := s.text
	start := s.start
	for len(text) > 0 {
		r := []rune(text)[0]
		if !unicode.IsSpace(r) {
			break
		}
		text = string([]rune(text)[1:])
		start++
	}
	text = strings.TrimRightFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '!' || r == '?'
	})
	if text == "" {
		return Span{}, false
	}
	if req.MaxAnswerLength > 0 && len([]rune(text)) > req.MaxAnswerLength {
		return Span{}, false
	}
	return Span{Text: text, Start: start, End: start + len([]rune(text))}, true
}

func wantsQuantity(question string) bool {
	q := strings.ToLower(question)
	for _, marker := range []string{"percent", "how many", "how much", "number", "when", "what year", "figure"} {
		if strings.Contains(q, marker) {
			return true
		}
	}
	return false
}

func numericSpan(s sentenceSpan) (Span, bool) {
	runes := []rune(s.text)
	i := 0
	for i < len(runes) && !unicode.IsDigit(runes[i]) {
		i++
	}
	if i == len(runes) {
		return Span{}, false
	}
	j := i
	for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.' || runes[j] == ',' || runes[j] == '%') {
		j++
	}
	// Trim a trailing sentence period picked up by the numeric scan.
	for j > i && (runes[j-1] == '.' || runes[j-1] == ',') {
		j--
	}
	end := j
	// Attach the following word when it reads as a unit ("12 percent").
	k := j
	for k < len(runes) && unicode.IsSpace(runes[k]) {
		k++
	}
	wordEnd := k
	for wordEnd < len(runes) && unicode.IsLetter(runes[wordEnd]) {
		wordEnd++
	}
	if word := string(runes[k:wordEnd]); word != "" && !util.IsStopword(word) {
		end = wordEnd
	}
	text := string(runes[i:end])
	return Span{Text: text, Start: s.start + i, End: s.start + end}, true
}
