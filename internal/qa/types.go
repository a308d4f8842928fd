package qa

// Chunk is a contiguous window of the document handed to one extraction
// call. Start/End are rune offsets into the original document; Start is -1
// when the chunk came from an externally pre-chunked source and its position
// is unknown.
type Chunk struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Candidate is one extracted answer span from one chunk. LocalStart/LocalEnd
// are rune offsets within the chunk text. Confidence is normalized to [0,1]
// but is only a within-chunk judgment until aggregation merges duplicates.
type Candidate struct {
	ChunkIndex int     `json:"chunk_index"`
	LocalStart int     `json:"local_start"`
	LocalEnd   int     `json:"local_end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Result is the engine output for one question. When Abstained is true the
// answer is empty and Confidence records the best confidence that was
// discarded below the threshold, for diagnostics. HasOffset reports whether
// Start/End point into the original document.
type Result struct {
	Answer       string  `json:"answer"`
	Confidence   float64 `json:"confidence"`
	Abstained    bool    `json:"abstained"`
	SourceChunk  int     `json:"source_chunk"`
	Start        int     `json:"start"`
	End          int     `json:"end"`
	HasOffset    bool    `json:"has_offset"`
	TotalChunks  int     `json:"total_chunks,omitempty"`
	FailedChunks int     `json:"failed_chunks,omitempty"`
}
