package qa

import (
	"context"
	"fmt"
	"log"
	"sync"

	"voxqa/internal/config"
	"voxqa/internal/extract"
	"voxqa/internal/util"
)

type Options struct {
	ChunkSize       int
	ChunkOverlap    int
	Threshold       float64
	Parallelism     int
	MaxAnswerLength int
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		ChunkSize:       cfg.ChunkSize,
		ChunkOverlap:    cfg.ChunkOverlap,
		Threshold:       cfg.ConfidenceThreshold,
		Parallelism:     cfg.ExtractParallelism,
		MaxAnswerLength: cfg.MaxAnswerLength,
	}
}

// Engine answers free-text questions against a document far longer than the
// extraction capability's input window: split into overlapping chunks, run
// extraction per chunk, merge and rank candidates, attribute the winner back
// to its document offsets. The engine never mutates the document; callers
// own sanitization (see util.SanitizeTranscript) so that returned offsets
// stay exact.
type Engine struct {
	ex   extract.Extractor
	opts Options
}

func NewEngine(cfg config.Config, ex extract.Extractor) *Engine {
	return &Engine{ex: ex, opts: OptionsFromConfig(cfg)}
}

func (e *Engine) Answer(ctx context.Context, document, question string) (Result, error) {
	return e.AnswerWithOptions(ctx, document, question, e.opts)
}

func (e *Engine) AnswerWithOptions(ctx context.Context, document, question string, opts Options) (Result, error) {
	question = util.NormalizeQuestion(question)
	if question == "" {
		return Result{}, util.ErrEmptyQuestion
	}
	chunks, err := Split(document, opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return Result{}, err
	}
	if len(chunks) == 0 {
		return Result{}, util.ErrNoExtractableText
	}

	outcomes := e.extractAll(ctx, chunks, question, opts)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	cands := make([]Candidate, 0, len(chunks))
	failed := 0
	for i, o := range outcomes {
		if o.err != nil {
			failed++
			log.Printf("voxqa: chunk %d extraction failed (%s): %v", i, extract.ClassifyError(o.err), o.err)
			continue
		}
		cands = append(cands, o.cands...)
	}
	if failed == len(chunks) {
		return Result{}, fmt.Errorf("%d/%d chunks failed: %w", failed, len(chunks), util.ErrExtractionUnavailable)
	}

	res, winner, found := AggregateWithWinner(cands, opts.Threshold)
	res.TotalChunks = len(chunks)
	res.FailedChunks = failed
	if found {
		if start, end, ok := Locate(winner, chunks); ok {
			res.Start, res.End, res.HasOffset = start, end, true
		}
	}
	return res, nil
}

type chunkOutcome struct {
	cands []Candidate
	err   error
}

// extractAll runs one extraction call per chunk over a bounded worker count.
// Chunks never share state; the join here is the barrier before aggregation.
// On cancellation, dispatch stops and in-flight calls drain; their results
// are discarded by the caller.
func (e *Engine) extractAll(ctx context.Context, chunks []Chunk, question string, opts Options) []chunkOutcome {
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > len(chunks) {
		parallelism = len(chunks)
	}

	outcomes := make([]chunkOutcome, len(chunks))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				resp, _, err := e.ex.Extract(ctx, extract.Request{
					Question:        question,
					Context:         chunks[idx].Text,
					MaxAnswerLength: opts.MaxAnswerLength,
				})
				if err != nil {
					outcomes[idx].err = err
					continue
				}
				outcomes[idx].cands = CandidatesFromSpans(idx, resp.Spans, opts.MaxAnswerLength)
			}
		}()
	}

dispatch:
	for idx := range chunks {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

const minAnswerRunes = 3

// CandidatesFromSpans adapts one chunk's extraction spans into candidates:
// scores are clamped to [0,1], and spans shorter than three runes or longer
// than maxAnswerLength are dropped.
func CandidatesFromSpans(chunkIndex int, spans []extract.Span, maxAnswerLength int) []Candidate {
	out := make([]Candidate, 0, len(spans))
	for _, sp := range spans {
		n := len([]rune(sp.Text))
		if n < minAnswerRunes {
			continue
		}
		if maxAnswerLength > 0 && n > maxAnswerLength {
			continue
		}
		out = append(out, Candidate{
			ChunkIndex: chunkIndex,
			LocalStart: sp.Start,
			LocalEnd:   sp.End,
			Text:       sp.Text,
			Confidence: extract.NormalizeScore(sp.Score),
		})
	}
	return out
}
