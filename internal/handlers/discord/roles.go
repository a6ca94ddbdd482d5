package discord

import (
	"context"

	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/services/quiz"
)

// guildRoleGranter assigns guild roles by name
type guildRoleGranter struct {
	session Session
}

var _ quiz.RoleGranter = (*guildRoleGranter)(nil)

// NewRoleGranter creates a role granter backed by the Discord API
func NewRoleGranter(session Session) quiz.RoleGranter {
	return &guildRoleGranter{session: session}
}

// GrantRole looks the role up by exact name and adds it to the member
func (g *guildRoleGranter) GrantRole(ctx context.Context, guildID, userID, roleName string) error {
	roles, err := g.session.GuildRoles(guildID)
	if err != nil {
		return discordError(err, "failed to list guild roles").WithMeta("guild_id", guildID)
	}

	for _, role := range roles {
		if role.Name != roleName {
			continue
		}
		if err := g.session.GuildMemberRoleAdd(guildID, userID, role.ID); err != nil {
			return discordError(err, "failed to add role").
				WithMeta("guild_id", guildID).
				WithMeta("role", roleName)
		}
		return nil
	}

	return apperr.NotFoundf("role '%s' does not exist", roleName).
		WithMeta("guild_id", guildID).
		WithMeta("role", roleName)
}
