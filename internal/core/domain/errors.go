package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProfileNotFound indicates no profile exists for a user ID.
	// Callers must branch on this explicitly rather than treating it
	// as a generic storage failure.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates blank or whitespace-only text was passed
	// to the embedding service.
	ErrEmptyInput = errors.New("text cannot be empty")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// reachable. Indexing and retrieval are disabled without it; this
	// is fatal at the orchestration level.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrStorageUnavailable indicates the article or vector store is
	// not reachable. Fatal at the orchestration level.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chat, report and podcast generation are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrSpeechUnavailable indicates the text-to-speech service is not
	// configured. Podcast audio generation is disabled without it.
	ErrSpeechUnavailable = errors.New("speech service unavailable")
)
