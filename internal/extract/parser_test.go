package extract

import "testing"

func TestParseExtractorList(t *testing.T) {
	refs := ParseExtractorList(" http:main | mock |")
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d", len(refs))
	}
	if refs[0].Name != "http" || refs[0].KeyAlias != "main" {
		t.Fatalf("unexpected first ref: %+v", refs[0])
	}
	if refs[1].Name != "mock" || refs[1].KeyAlias != "" {
		t.Fatalf("unexpected second ref: %+v", refs[1])
	}
}

func TestParseExtractorListEmptyFallsBackToMock(t *testing.T) {
	refs := ParseExtractorList("   ")
	if len(refs) != 1 || refs[0].Name != "mock" {
		t.Fatalf("expected mock fallback, got %+v", refs)
	}
}
