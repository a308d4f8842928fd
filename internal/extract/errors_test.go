package extract

import (
	"errors"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"model is loading":                ErrorWarmup,
		"429 rate limited":                ErrorRate,
		"sequence length exceeds maximum": ErrorContext,
		"context deadline exceeded":       ErrorTransient,
		"request timeout":                 ErrorTransient,
		"connection refused by endpoint":  ErrorPermanent,
		"service temporarily overloaded":  ErrorTransient,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("nil error should classify empty, got %s", got)
	}
}
