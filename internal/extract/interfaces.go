package extract

import "context"

type ExtractorInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type Request struct {
	Question        string `json:"question"`
	Context         string `json:"context"`
	MaxAnswerLength int    `json:"max_answer_length,omitempty"`
}

// Span is one candidate answer inside Request.Context. Start/End are rune
// offsets into the context. Score is already normalized to [0,1] by the
// implementation; scores are only comparable across contexts after that
// normalization.
type Span struct {
	Text  string  `json:"text"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// Response with no spans means the context holds no answer for the question.
// That is a legitimate outcome, not an error, and must not be reported as a
// zero-confidence span.
type Response struct {
	Spans []Span `json:"spans"`
}

// Extractor is a bounded-context span-extraction capability: given a
// question and a context no longer than the model window, it returns
// candidate spans or abstains.
type Extractor interface {
	Extract(ctx context.Context, req Request) (Response, ExtractorInfo, error)
}

// NormalizeScore clamps a capability score into [0,1]. Backends whose raw
// scores are not probabilities must apply their monotonic transform before
// this clamp; keeping it a pure function keeps calibration testable apart
// from extraction I/O.
func NormalizeScore(raw float64) float64 {
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}
