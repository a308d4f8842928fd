package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPExtractorExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["question"] == "" || req["context"] == "" {
			http.Error(w, "missing fields", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"answer": "12 percent",
			"start":  30,
			"end":    40,
			"score":  0.91,
		})
	}))
	defer srv.Close()
	t.Setenv("VOXQA_INFER_BASE_URL", srv.URL)

	ex := NewHTTPExtractor("", "distilbert-base-cased-distilled-squad", time.Minute, 10*time.Second)
	resp, info, err := ex.Extract(context.Background(), Request{
		Question: "By what percentage did revenue grow?",
		Context:  "The quarterly revenue grew by 12 percent in March.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "http" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(resp.Spans) != 1 {
		t.Fatalf("expected one span, got %d", len(resp.Spans))
	}
	sp := resp.Spans[0]
	if sp.Text != "12 percent" || sp.Start != 30 || sp.End != 40 {
		t.Fatalf("unexpected span: %+v", sp)
	}
	if sp.Score != 0.91 {
		t.Fatalf("unexpected score: %v", sp.Score)
	}
	if !ex.warmed.Load() {
		t.Fatal("first successful call should mark the extractor warm")
	}
}

func TestHTTPExtractorNoAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"no_answer": true})
	}))
	defer srv.Close()
	t.Setenv("VOXQA_INFER_BASE_URL", srv.URL)

	ex := NewHTTPExtractor("", "m", time.Minute, 10*time.Second)
	resp, _, err := ex.Extract(context.Background(), Request{Question: "q?", Context: "unrelated"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Spans) != 0 {
		t.Fatalf("no-answer must yield zero spans, got %d", len(resp.Spans))
	}
}

func TestHTTPExtractorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("VOXQA_INFER_BASE_URL", srv.URL)

	ex := NewHTTPExtractor("", "m", time.Minute, 10*time.Second)
	if _, _, err := ex.Extract(context.Background(), Request{Question: "q?", Context: "c"}); err == nil {
		t.Fatal("expected error from 500 response")
	}
}

func TestRuneSpanByteOffsetFallback(t *testing.T) {
	// "héllo " is 6 runes but 7 bytes; a byte-offset server reports 7.
	ctx := "héllo world"
	start, end, ok := runeSpan(ctx, "world", 7, 12)
	if !ok || start != 6 || end != 11 {
		t.Fatalf("got [%d,%d) ok=%v, want [6,11) true", start, end, ok)
	}
}
