package extract

import (
	"fmt"
	"strings"
	"time"

	"voxqa/internal/config"
)

type NamedExtractor struct {
	Ref       ExtractorRef
	Extractor Extractor
}

// Manager builds the configured extractor handles and exposes them as a
// bounded pool. Each ref in the list is one independent capability handle;
// the pool size equals the number of handles.
type Manager struct {
	extractors []NamedExtractor
}

func NewManager(cfg config.Config) (*Manager, error) {
	refs := ParseExtractorList(cfg.Extractors)
	m := &Manager{}
	for _, ref := range refs {
		ex, err := buildExtractor(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.extractors = append(m.extractors, NamedExtractor{Ref: ref, Extractor: ex})
	}
	if len(m.extractors) == 0 {
		m.extractors = []NamedExtractor{{Ref: ExtractorRef{Raw: "mock", Name: "mock"}, Extractor: NewMockExtractor()}}
	}
	return m, nil
}

func (m *Manager) Pool() (*Pool, error) {
	handles := make([]Extractor, 0, len(m.extractors))
	for i := range m.extractors {
		handles = append(handles, m.extractors[i].Extractor)
	}
	return NewPool(handles)
}

func (m *Manager) First() Extractor {
	return m.extractors[0].Extractor
}

func (m *Manager) Count() int {
	return len(m.extractors)
}

func (m *Manager) Refs() []ExtractorRef {
	out := make([]ExtractorRef, 0, len(m.extractors))
	for i := range m.extractors {
		out = append(out, m.extractors[i].Ref)
	}
	return out
}

func (m *Manager) FindByName(name string) (Extractor, ExtractorRef, bool) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return nil, ExtractorRef{}, false
	}
	for i := range m.extractors {
		if strings.ToLower(m.extractors[i].Ref.Name) == target {
			return m.extractors[i].Extractor, m.extractors[i].Ref, true
		}
	}
	return nil, ExtractorRef{}, false
}

func buildExtractor(ref ExtractorRef, cfg config.Config) (Extractor, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockExtractor(), nil
	case "http":
		return NewHTTPExtractor(
			ref.KeyAlias,
			cfg.QAModel,
			time.Duration(cfg.WarmupTimeoutSeconds)*time.Second,
			time.Duration(cfg.RequestTimeoutSeconds)*time.Second,
		), nil
	default:
		return nil, fmt.Errorf("unsupported extractor: %s", ref.Name)
	}
}
