package driven

import (
	"context"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

// ProfileStore persists user profiles keyed by user ID.
type ProfileStore interface {
	// Upsert creates or updates a profile.
	Upsert(ctx context.Context, profile domain.UserProfile) error

	// Get retrieves a profile by user ID.
	// Returns domain.ErrProfileNotFound when absent, which callers
	// must distinguish from other storage errors.
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
}
