package qa

// Locate maps a winning candidate's chunk-local span to rune offsets in the
// original document. It reports ok=false instead of guessing when the chunk
// index is out of range or the chunk's own position is unknown, so source
// attribution degrades to "unknown" rather than pointing at the wrong text.
func Locate(winner Candidate, chunks []Chunk) (start, end int, ok bool) {
	if winner.ChunkIndex < 0 || winner.ChunkIndex >= len(chunks) {
		return 0, 0, false
	}
	c := chunks[winner.ChunkIndex]
	if c.Start < 0 {
		return 0, 0, false
	}
	if winner.LocalStart < 0 || winner.LocalEnd < winner.LocalStart {
		return 0, 0, false
	}
	return c.Start + winner.LocalStart, c.Start + winner.LocalEnd, true
}
