package driving

import (
	"context"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// AgentService orchestrates the three generation flows: conversational
// chat (agentic RAG via tool calling), report generation and podcast
// generation (both deterministic RAG with a manual retrieval call).
type AgentService interface {
	// Chat answers a prompt while maintaining the user's session
	// history and applying their profile instructions.
	Chat(ctx context.Context, userID, prompt string) (string, error)

	// ClearSession drops the conversation history for a user.
	ClearSession(userID string)

	// Report generates a structured report grounded in retrieved
	// articles for the given topics and time scope.
	Report(ctx context.Context, userID, topics string, scope domain.TimeScope, structure string) (string, error)

	// Podcast generates a podcast script grounded in retrieved
	// articles and converts it to audio, returning a data URI.
	Podcast(ctx context.Context, userID, topics string, scope domain.TimeScope, structure string) (string, error)
}

// ProfileService manages user profiles.
type ProfileService interface {
	// Sync upserts a profile.
	Sync(ctx context.Context, profile domain.UserProfile) error

	// Get retrieves a profile; domain.ErrProfileNotFound when absent.
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
}
