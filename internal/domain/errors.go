package domain

import "errors"

var (
	// ErrFetch signals the source document could not be downloaded.
	ErrFetch = errors.New("document fetch failed")
	// ErrUnsupportedContent signals a content type outside the supported set.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrParse signals the document yielded no usable text.
	ErrParse = errors.New("document parse failed")
	// ErrEmbedding signals an embedding provider failure.
	ErrEmbedding = errors.New("embedding provider error")
	// ErrRetrieval signals a vector index build or search failure.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals an answer generation provider failure.
	ErrGeneration = errors.New("generation provider error")
)
