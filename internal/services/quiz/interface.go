package quiz

//go:generate mockgen -destination=mock/mock.go -package=mockquiz -source=interface.go

import (
	"context"
)

// Asker talks to the quiz taker in private
type Asker interface {
	// Ask sends text and waits for the user's next reply in the same channel
	Ask(ctx context.Context, text string) (string, error)

	// Notify sends text without waiting
	Notify(ctx context.Context, text string) error
}

// RoleGranter assigns a guild role by name. A missing role is reported as
// NotFound and a refusal by the platform as PermissionDenied.
type RoleGranter interface {
	GrantRole(ctx context.Context, guildID, userID, roleName string) error
}
