package qa

import "voxqa/internal/util"

// Split cuts text into overlapping windows of at most size runes. A window
// that would end mid-sentence is trimmed back to the last sentence terminator
// when one falls in the final 30% of the window; otherwise the cut is a hard
// rune cut. Every following window starts exactly overlap runes before the
// previous one ends, so offsets stay exact and a span found inside a chunk
// maps back to the document by plain addition. An answer that straddles a cut
// is only recoverable from the overlap region of the adjacent window, which
// is why overlap should stay comfortably larger than the longest expected
// answer.
func Split(text string, size, overlap int) ([]Chunk, error) {
	if size < 1 || overlap < 0 || overlap >= size {
		return nil, util.ErrBadChunkConfig
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return []Chunk{}, nil
	}
	if len(runes) <= size {
		return []Chunk{{Index: 0, Start: 0, End: len(runes), Text: text}}, nil
	}
	out := make([]Chunk, 0, len(runes)/(size-overlap)+1)
	for i := 0; i < len(runes); {
		end := i + size
		if end >= len(runes) {
			end = len(runes)
		} else if cut, ok := sentenceCut(runes, i, end, size, overlap); ok {
			end = cut
		}
		out = append(out, Chunk{
			Index: len(out),
			Start: i,
			End:   end,
			Text:  string(runes[i:end]),
		})
		if end == len(runes) {
			break
		}
		i = end - overlap
	}
	return out, nil
}

// sentenceCut finds the rune position just past the last '.', '!' or '?' in
// the final 30% of the window [start, end). The cut is rejected when it would
// leave the next window starting at or before this one (only possible when
// overlap crowds the window), keeping forward progress.
func sentenceCut(runes []rune, start, end, size, overlap int) (int, bool) {
	lo := start + size*7/10
	if lo < start {
		lo = start
	}
	for j := end - 1; j >= lo; j-- {
		switch runes[j] {
		case '.', '!', '?':
			cut := j + 1
			if cut-start <= overlap {
				return 0, false
			}
			return cut, true
		}
	}
	return 0, false
}
