package api

import (
	"fmt"
	"net/http"
	"testing"

	"voxqa/internal/util"
)

func TestAskErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{util.ErrBadChunkConfig, http.StatusBadRequest},
		{fmt.Errorf("answer: %w", util.ErrBadChunkConfig), http.StatusBadRequest},
		{util.ErrEmptyQuestion, http.StatusBadRequest},
		{util.ErrNoExtractableText, http.StatusBadRequest},
		{fmt.Errorf("3/3 chunks failed: %w", util.ErrExtractionUnavailable), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := askErrorStatus(c.err); got != c.want {
			t.Fatalf("askErrorStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestToAPIErrorUserMessages(t *testing.T) {
	e := toAPIError(http.StatusBadRequest, util.ErrBadChunkConfig)
	if e.Code != "VQ-API-4001" {
		t.Fatalf("unexpected code %q", e.Code)
	}
	if e.Message != "chunk_overlap must be smaller than chunk_size." {
		t.Fatalf("unexpected message %q", e.Message)
	}
	e = toAPIError(http.StatusBadGateway, util.ErrExtractionUnavailable)
	if e.Code != "VQ-API-5020" {
		t.Fatalf("unexpected code %q", e.Code)
	}
}
