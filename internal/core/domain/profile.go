package domain

// UserProfile holds per-user personalisation data.
// Profiles are created and updated via upsert; the retrieval core only
// ever reads them.
type UserProfile struct {
	// UserID is the primary key.
	UserID string

	// DisplayName is how the user wants to be addressed.
	DisplayName string

	// SystemInstructions are custom instructions injected into the
	// LLM system prompt for this user.
	SystemInstructions string

	// Email is the user's contact address.
	Email string
}

// Validate checks the profile for required fields.
func (p UserProfile) Validate() error {
	if p.UserID == "" {
		return ErrInvalidInput
	}
	return nil
}
