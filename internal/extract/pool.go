package extract

import (
	"context"
	"fmt"
)

// Pool serializes access to a fixed set of extractor handles. The loaded
// model is the expensive shared resource: a pool of size 1 makes a
// non-concurrency-safe capability safe to call from parallel chunk workers,
// and size N spreads load over N independent handles. Pool itself satisfies
// Extractor, so callers acquire and release per call without seeing the
// discipline.
type Pool struct {
	handles chan Extractor
}

func NewPool(handles []Extractor) (*Pool, error) {
	if len(handles) == 0 {
		return nil, fmt.Errorf("extractor pool needs at least one handle")
	}
	ch := make(chan Extractor, len(handles))
	for _, h := range handles {
		ch <- h
	}
	return &Pool{handles: ch}, nil
}

func (p *Pool) Acquire(ctx context.Context) (Extractor, error) {
	select {
	case h := <-p.handles:
		return h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) Release(h Extractor) {
	p.handles <- h
}

func (p *Pool) Size() int {
	return cap(p.handles)
}

func (p *Pool) Extract(ctx context.Context, req Request) (Response, ExtractorInfo, error) {
	h, err := p.Acquire(ctx)
	if err != nil {
		return Response{}, ExtractorInfo{}, err
	}
	defer p.Release(h)
	return h.Extract(ctx, req)
}
