package util

import "testing"

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First point. Second one! Third? trailing fragment")
	if len(got) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %v", len(got), got)
	}
	if got[3] != "trailing fragment" {
		t.Fatalf("unexpected tail: %q", got[3])
	}
}

func TestMeaningfulTerms(t *testing.T) {
	terms := MeaningfulTerms("What was the quarterly revenue growth?")
	want := map[string]bool{"quarterly": true, "revenue": true, "growth": true}
	if len(terms) != len(want) {
		t.Fatalf("unexpected terms: %v", terms)
	}
	for _, term := range terms {
		if !want[term] {
			t.Fatalf("unexpected term %q in %v", term, terms)
		}
	}
}

func TestTrimClean(t *testing.T) {
	out := TrimClean("Hello\x00 world this is long", 11)
	if out != "Hello world..." {
		t.Fatalf("unexpected: %q", out)
	}
}
