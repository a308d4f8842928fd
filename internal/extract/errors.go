package extract

import "strings"

type ErrorType string

const (
	ErrorWarmup    ErrorType = "warmup"
	ErrorRate      ErrorType = "rate"
	ErrorTransient ErrorType = "transient"
	ErrorContext   ErrorType = "context"
	ErrorPermanent ErrorType = "permanent"
)

// ClassifyError buckets capability errors by message so callers can decide
// whether a chunk is worth retrying on another handle.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "loading"), strings.Contains(e, "warming"), strings.Contains(e, "503"):
		return ErrorWarmup
	case strings.Contains(e, "rate"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "timeout"), strings.Contains(e, "deadline"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"):
		return ErrorTransient
	case strings.Contains(e, "too long"), strings.Contains(e, "sequence length"), strings.Contains(e, "context length"):
		return ErrorContext
	default:
		return ErrorPermanent
	}
}
