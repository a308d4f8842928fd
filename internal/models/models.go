package models

import "time"

type Transcript struct {
	TranscriptID string    `json:"transcript_id"`
	Title        string    `json:"title,omitempty"`
	Filename     string    `json:"filename"`
	Text         string    `json:"text,omitempty"`
	Status       string    `json:"status"`
	FailReason   string    `json:"fail_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QASession is one answered (or abstained) question against a transcript.
// SourceStart/SourceEnd are rune offsets into the transcript text; both are
// -1 when the answer's location could not be attributed.
type QASession struct {
	SessionID     string    `json:"session_id"`
	TranscriptID  string    `json:"transcript_id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Confidence    float64   `json:"confidence"`
	Abstained     bool      `json:"abstained"`
	SourceStart   int       `json:"source_start"`
	SourceEnd     int       `json:"source_end"`
	SourceSnippet string    `json:"source_snippet,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
