package util

import "errors"

var (
	ErrNoExtractableText = errors.New("no extractable text found in document")

	ErrBadChunkConfig        = errors.New("chunk overlap must be smaller than chunk size")
	ErrEmptyQuestion         = errors.New("question is empty")
	ErrExtractionUnavailable = errors.New("extraction capability unavailable for every chunk")
)
