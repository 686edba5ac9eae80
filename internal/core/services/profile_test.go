package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiagocrz/deNoise/internal/core/domain"
)

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	t.Run("sync then get round-trips", func(t *testing.T) {
		svc := NewProfileService(&mockProfileStore{})

		profile := domain.UserProfile{
			UserID:             "u1",
			DisplayName:        "Tiago",
			SystemInstructions: "be brief",
			Email:              "tiago@example.com",
		}
		require.NoError(t, svc.Sync(ctx, profile))

		got, err := svc.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, profile, *got)
	})

	t.Run("missing user id is rejected", func(t *testing.T) {
		svc := NewProfileService(&mockProfileStore{})
		err := svc.Sync(ctx, domain.UserProfile{DisplayName: "Nameless"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("anonymous id is rejected", func(t *testing.T) {
		svc := NewProfileService(&mockProfileStore{})
		err := svc.Sync(ctx, domain.UserProfile{UserID: domain.AnonymousUserID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown user yields profile-not-found", func(t *testing.T) {
		svc := NewProfileService(&mockProfileStore{})
		_, err := svc.Get(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}
