package workflows

import "voxqa/internal/qa"

type AnswerInput struct {
	TranscriptID    string  `json:"transcript_id"`
	Question        string  `json:"question"`
	ChunkSize       int     `json:"chunk_size,omitempty"`
	ChunkOverlap    int     `json:"chunk_overlap,omitempty"`
	Threshold       float64 `json:"threshold,omitempty"`
	MaxParallel     int     `json:"max_parallel,omitempty"`
	MaxAnswerLength int     `json:"max_answer_length,omitempty"`
}

type AnswerOutput struct {
	SessionID string    `json:"session_id"`
	Result    qa.Result `json:"result"`
}

type AnswerProgress struct {
	TranscriptID string `json:"transcript_id"`
	Question     string `json:"question"`
	Status       string `json:"status"`
	TotalChunks  int    `json:"total_chunks"`
	DoneChunks   int    `json:"done_chunks"`
	FailedChunks int    `json:"failed_chunks"`
}
