package domain

import "errors"

var (
	// ErrIndexUnavailable signals that the vector index service cannot be
	// reached or rejected a collection operation.
	ErrIndexUnavailable = errors.New("vector index unavailable")
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrCorpusRead signals a missing or malformed corpus file.
	ErrCorpusRead = errors.New("corpus read failed")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrGenerationService signals a language model service failure.
	ErrGenerationService = errors.New("generation service error")
	// ErrMissingPayloadField signals a retrieved document without a payload
	// field the prompt template requires.
	ErrMissingPayloadField = errors.New("missing payload field")
)
