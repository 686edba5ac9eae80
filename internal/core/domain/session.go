package domain

// TurnRole identifies who produced a conversation turn.
type TurnRole string

const (
	// RoleUser marks a turn written by the user.
	RoleUser TurnRole = "user"
	// RoleModel marks a turn produced by the model.
	RoleModel TurnRole = "model"
)

// Turn is a single message in a user's conversation history.
type Turn struct {
	Role TurnRole
	Text string
}

// AnonymousUserID is the user ID under which profile lookups are
// skipped entirely.
const AnonymousUserID = "anonymous"
