package qa

import (
	"errors"
	"strings"
	"testing"

	"voxqa/internal/util"
)

func TestSplitCoversDocumentExactly(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10)
	chunks, err := Split(text, 30, 10)
	if err != nil {
		t.Fatal(err)
	}
	if chunks[0].Start != 0 {
		t.Fatalf("first chunk starts at %d", chunks[0].Start)
	}
	if chunks[len(chunks)-1].End != len([]rune(text)) {
		t.Fatalf("last chunk ends at %d, document has %d runes", chunks[len(chunks)-1].End, len([]rune(text)))
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if overlap := prev.End - cur.Start; overlap != 10 && i != len(chunks)-1 {
			t.Fatalf("chunk %d overlaps previous by %d, want 10", i, overlap)
		}
		if cur.Start > prev.End {
			t.Fatalf("gap between chunk %d and %d", i-1, i)
		}
	}
	for _, c := range chunks {
		if c.Text != string([]rune(text)[c.Start:c.End]) {
			t.Fatalf("chunk %d text does not match its offsets", c.Index)
		}
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	sentence := strings.Repeat("x", 38) + ". "
	text := strings.Repeat(sentence, 5)
	chunks, err := Split(text, 100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	// The period at rune 78 falls in the window's final 30%, so the first
	// chunk is trimmed there instead of cut mid-sentence at 100.
	if chunks[0].End != 79 {
		t.Fatalf("first chunk ends at %d, want 79", chunks[0].End)
	}
	if !strings.HasSuffix(chunks[0].Text, ".") {
		t.Fatalf("trimmed chunk should end at a sentence terminator: %q", chunks[0].Text)
	}
	for i := 1; i < len(chunks); i++ {
		if got := chunks[i-1].End - chunks[i].Start; got != 20 {
			t.Fatalf("chunk %d overlaps previous by %d, want 20", i, got)
		}
	}
	if chunks[len(chunks)-1].End != len([]rune(text)) {
		t.Fatalf("last chunk ends at %d, document has %d runes", chunks[len(chunks)-1].End, len([]rune(text)))
	}
	for _, c := range chunks {
		if c.Text != string([]rune(text)[c.Start:c.End]) {
			t.Fatalf("chunk %d text does not match its offsets", c.Index)
		}
	}
}

func TestSplitHardCutWithoutNearbyBoundary(t *testing.T) {
	// Terminator sits in the first 70% of the window; the cut stays hard.
	text := "one sentence here. " + strings.Repeat("y", 181)
	chunks, err := Split(text, 100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if chunks[0].End != 100 {
		t.Fatalf("first chunk ends at %d, want hard cut at 100", chunks[0].End)
	}
}

func TestSplitShortDocumentSingleChunk(t *testing.T) {
	chunks, err := Split("short transcript", 100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "short transcript" || chunks[0].Start != 0 {
		t.Fatalf("unexpected chunk: %+v", chunks[0])
	}
}

func TestSplitBadOverlap(t *testing.T) {
	for _, size := range []int{1, 5, 100} {
		if _, err := Split("text", size, size); !errors.Is(err, util.ErrBadChunkConfig) {
			t.Fatalf("size=%d overlap=%d: expected ErrBadChunkConfig, got %v", size, size, err)
		}
		if _, err := Split("text", size, size+3); !errors.Is(err, util.ErrBadChunkConfig) {
			t.Fatalf("overlap beyond size: expected ErrBadChunkConfig, got %v", err)
		}
	}
	if _, err := Split("text", 0, 0); !errors.Is(err, util.ErrBadChunkConfig) {
		t.Fatalf("zero size: expected ErrBadChunkConfig, got %v", err)
	}
}

func TestSplitMultiByteBoundaries(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 8)
	chunks, err := Split(text, 17, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		if !strings.Contains(text, c.Text) {
			t.Fatalf("chunk %d split inside a multi-byte character: %q", c.Index, c.Text)
		}
	}
}

func TestSplitEmptyDocument(t *testing.T) {
	chunks, err := Split("", 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}
