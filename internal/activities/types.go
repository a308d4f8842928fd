package activities

import "voxqa/internal/qa"

type LoadTranscriptInput struct {
	TranscriptID string `json:"transcript_id"`
}

type LoadTranscriptOutput struct {
	Text string `json:"text"`
}

type ChunkTranscriptInput struct {
	Text         string `json:"text"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

type ChunkTranscriptOutput struct {
	Chunks []qa.Chunk `json:"chunks"`
}

type ExtractChunkInput struct {
	Question        string   `json:"question"`
	Chunk           qa.Chunk `json:"chunk"`
	MaxAnswerLength int      `json:"max_answer_length"`
}

type ExtractChunkOutput struct {
	Candidates []qa.Candidate `json:"candidates"`
}

type AggregateAnswersInput struct {
	Candidates   []qa.Candidate `json:"candidates"`
	Chunks       []qa.Chunk     `json:"chunks"`
	Threshold    float64        `json:"threshold"`
	TotalChunks  int            `json:"total_chunks"`
	FailedChunks int            `json:"failed_chunks"`
}

type AggregateAnswersOutput struct {
	Result qa.Result `json:"result"`
}

type SaveSessionInput struct {
	TranscriptID string    `json:"transcript_id"`
	Question     string    `json:"question"`
	Result       qa.Result `json:"result"`
}

type SaveSessionOutput struct {
	SessionID string `json:"session_id"`
}

type WriteAnswerArtifactInput struct {
	TranscriptID string         `json:"transcript_id"`
	SessionID    string         `json:"session_id"`
	Record       map[string]any `json:"record"`
}
