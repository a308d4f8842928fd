package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

// HTTPExtractor talks to a question-answering inference server (a
// HuggingFace-pipeline style endpoint: POST /qa with question+context,
// answer span back). The first call after process start may block on model
// load, so it runs under a separate, much longer warm-up timeout.
type HTTPExtractor struct {
	alias          string
	baseURL        string
	model          string
	client         *http.Client
	warmupTimeout  time.Duration
	requestTimeout time.Duration
	warmed         atomic.Bool
}

func NewHTTPExtractor(alias, model string, warmupTimeout, requestTimeout time.Duration) *HTTPExtractor {
	baseURL := strings.TrimSpace(os.Getenv("VOXQA_INFER_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:8500"
	}
	if warmupTimeout <= 0 {
		warmupTimeout = 5 * time.Minute
	}
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &HTTPExtractor{
		alias:          alias,
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		client:         &http.Client{},
		warmupTimeout:  warmupTimeout,
		requestTimeout: requestTimeout,
	}
}

func (h *HTTPExtractor) Extract(ctx context.Context, req Request) (Response, ExtractorInfo, error) {
	info := ExtractorInfo{Name: "http", Model: h.model, Key: h.alias}

	timeout := h.requestTimeout
	if !h.warmed.Load() {
		timeout = h.warmupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{
		"model":             h.model,
		"question":          req.Question,
		"context":           req.Context,
		"max_answer_length": req.MaxAnswerLength,
	})
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/qa", bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Response{}, info, fmt.Errorf("qa inference request failed: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Response{}, info, fmt.Errorf("qa inference error %d: %s", resp.StatusCode, string(body))
	}
	var parsed struct {
		Answer   string  `json:"answer"`
		Start    int     `json:"start"`
		End      int     `json:"end"`
		Score    float64 `json:"score"`
		NoAnswer bool    `json:"no_answer"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Response{}, info, fmt.Errorf("decode qa inference response: %w", err)
	}
	h.warmed.Store(true)

	if parsed.NoAnswer || strings.TrimSpace(parsed.Answer) == "" {
		return Response{}, info, nil
	}
	start, end, ok := runeSpan(req.Context, parsed.Answer, parsed.Start, parsed.End)
	if !ok {
		return Response{}, info, nil
	}
	return Response{Spans: []Span{{
		Text:  parsed.Answer,
		Start: start,
		End:   end,
		Score: NormalizeScore(parsed.Score),
	}}}, info, nil
}

// runeSpan reconciles the server-reported span with the context. Servers
// report byte offsets more often than rune offsets; when the reported range
// does not reproduce the answer text the span is re-anchored by searching
// for the answer, preferring the occurrence nearest the reported start.
func runeSpan(context, answer string, start, end int) (int, int, bool) {
	runes := []rune(context)
	n := utf8.RuneCountInString(answer)
	if start >= 0 && start+n <= len(runes) && string(runes[start:start+n]) == answer {
		return start, start + n, true
	}
	if start >= 0 && start < len(context) {
		if idx := strings.Index(context[start:], answer); idx >= 0 {
			rs := utf8.RuneCountInString(context[:start+idx])
			return rs, rs + n, true
		}
	}
	if idx := strings.Index(context, answer); idx >= 0 {
		rs := utf8.RuneCountInString(context[:idx])
		return rs, rs + n, true
	}
	_ = end
	return 0, 0, false
}
