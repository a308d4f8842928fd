package qa

import (
	"sort"
	"strings"
	"unicode"
)

// Group is a set of candidates whose answer texts are equivalent under
// NormalizeAnswer. Confidence is the maximum over the members: each member
// is a full independent judgment of the same span seen through a different
// window, so averaging or summing would turn overlap into fake corroboration.
type Group struct {
	Key        string
	Confidence float64
	Best       Candidate
	Members    []Candidate
}

// NormalizeAnswer lowercases, treats punctuation as a word break and
// collapses whitespace so the same span recovered from two overlapping
// windows compares equal ("12-PERCENT!" and "12 percent" share a key).
func NormalizeAnswer(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// GroupCandidates merges candidates by normalized answer text. Within a
// group the representative is the highest-confidence member; ties go to the
// lowest chunk index, then the shorter span.
func GroupCandidates(cands []Candidate) []Group {
	byKey := map[string]int{}
	groups := make([]Group, 0, len(cands))
	for _, c := range cands {
		key := NormalizeAnswer(c.Text)
		if key == "" {
			continue
		}
		idx, ok := byKey[key]
		if !ok {
			byKey[key] = len(groups)
			groups = append(groups, Group{Key: key, Confidence: c.Confidence, Best: c, Members: []Candidate{c}})
			continue
		}
		g := &groups[idx]
		g.Members = append(g.Members, c)
		if c.Confidence > g.Confidence {
			g.Confidence = c.Confidence
		}
		if betterRepresentative(c, g.Best) {
			g.Best = c
		}
	}
	return groups
}

func betterRepresentative(a, b Candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.ChunkIndex != b.ChunkIndex {
		return a.ChunkIndex < b.ChunkIndex
	}
	return spanLen(a) < spanLen(b)
}

func spanLen(c Candidate) int {
	return c.LocalEnd - c.LocalStart
}

// Aggregate applies the confidence threshold (inclusive), merges duplicate
// answers across windows and ranks the survivors. When nothing survives the
// result abstains and carries the best discarded confidence for diagnostics.
func Aggregate(cands []Candidate, threshold float64) Result {
	res, _, _ := AggregateWithWinner(cands, threshold)
	return res
}

// AggregateWithWinner additionally returns the winning group's
// representative candidate so the caller can locate its span in the
// document. ok is false when the result abstained.
func AggregateWithWinner(cands []Candidate, threshold float64) (Result, Candidate, bool) {
	kept := make([]Candidate, 0, len(cands))
	maxDiscarded := 0.0
	for _, c := range cands {
		if c.Confidence >= threshold {
			kept = append(kept, c)
			continue
		}
		if c.Confidence > maxDiscarded {
			maxDiscarded = c.Confidence
		}
	}

	groups := GroupCandidates(kept)
	if len(groups) == 0 {
		return Result{
			Abstained:   true,
			Confidence:  maxDiscarded,
			SourceChunk: -1,
			Start:       -1,
			End:         -1,
		}, Candidate{}, false
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Confidence != groups[j].Confidence {
			return groups[i].Confidence > groups[j].Confidence
		}
		if groups[i].Best.ChunkIndex != groups[j].Best.ChunkIndex {
			return groups[i].Best.ChunkIndex < groups[j].Best.ChunkIndex
		}
		return spanLen(groups[i].Best) < spanLen(groups[j].Best)
	})

	win := groups[0]
	return Result{
		Answer:      win.Best.Text,
		Confidence:  win.Confidence,
		SourceChunk: win.Best.ChunkIndex,
		Start:       -1,
		End:         -1,
	}, win.Best, true
}
