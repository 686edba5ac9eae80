package services

import (
	"context"
	"fmt"

	"github.com/tiagocrz/deNoise/internal/core/domain"
	"github.com/tiagocrz/deNoise/internal/core/ports/driven"
	"github.com/tiagocrz/deNoise/internal/core/ports/driving"
	"github.com/tiagocrz/deNoise/internal/logger"
)

// Ensure ProfileService implements the interface.
var _ driving.ProfileService = (*ProfileService)(nil)

// ProfileService manages user profiles on top of the profile store.
type ProfileService struct {
	profiles driven.ProfileStore
}

// NewProfileService creates a profile service.
func NewProfileService(profiles driven.ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Sync upserts a profile.
func (s *ProfileService) Sync(ctx context.Context, profile domain.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	if profile.UserID == domain.AnonymousUserID {
		return fmt.Errorf("sync profile: %w", domain.ErrInvalidInput)
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("sync profile %s: %w", profile.UserID, err)
	}
	logger.Debug("profiles: synced %s", profile.UserID)
	return nil
}

// Get retrieves a profile by user ID.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}
