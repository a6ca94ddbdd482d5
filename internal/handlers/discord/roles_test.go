package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	mockdiscord "github.com/KirkDiggler/nature-bot/internal/handlers/discord/mock"
)

func TestGuildRoleGranter(t *testing.T) {
	roles := []*discordgo.Role{
		{ID: "r-1", Name: "Calm"},
		{ID: "r-2", Name: "Jolly"},
	}
	forbidden := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}

	tests := []struct {
		name  string
		role  string
		setup func(m *mockdiscord.MockSession)
		check func(t *testing.T, err error)
	}{
		{
			name: "assigns existing role",
			role: "Jolly",
			setup: func(m *mockdiscord.MockSession) {
				m.EXPECT().GuildRoles("guild-1").Return(roles, nil)
				m.EXPECT().GuildMemberRoleAdd("guild-1", "user-1", "r-2").Return(nil)
			},
			check: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name: "missing role",
			role: "Hardy",
			setup: func(m *mockdiscord.MockSession) {
				m.EXPECT().GuildRoles("guild-1").Return(roles, nil)
			},
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsNotFound(err)) },
		},
		{
			name: "forbidden",
			role: "Calm",
			setup: func(m *mockdiscord.MockSession) {
				m.EXPECT().GuildRoles("guild-1").Return(roles, nil)
				m.EXPECT().GuildMemberRoleAdd("guild-1", "user-1", "r-1").Return(forbidden)
			},
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsPermissionDenied(err)) },
		},
		{
			name: "listing fails",
			role: "Calm",
			setup: func(m *mockdiscord.MockSession) {
				m.EXPECT().GuildRoles("guild-1").Return(nil, errors.New("gateway down"))
			},
			check: func(t *testing.T, err error) { assert.True(t, apperr.IsInternal(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			session := mockdiscord.NewMockSession(ctrl)
			tt.setup(session)

			err := NewRoleGranter(session).GrantRole(context.Background(), "guild-1", "user-1", tt.role)
			tt.check(t, err)
		})
	}
}
