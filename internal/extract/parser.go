package extract

import "strings"

type ExtractorRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

// ParseExtractorList splits a pipe-separated extractor spec such as
// "http:main|http:spare|mock" into refs. An empty list falls back to mock.
func ParseExtractorList(raw string) []ExtractorRef {
	parts := strings.Split(raw, "|")
	out := make([]ExtractorRef, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := ExtractorRef{Raw: p}
		if strings.Contains(p, ":") {
			x := strings.SplitN(p, ":", 2)
			ref.Name = strings.TrimSpace(x[0])
			ref.KeyAlias = strings.TrimSpace(x[1])
		} else {
			ref.Name = p
		}
		out = append(out, ref)
	}
	if len(out) == 0 {
		out = append(out, ExtractorRef{Raw: "mock", Name: "mock"})
	}
	return out
}
