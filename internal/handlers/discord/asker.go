package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/nature-bot/internal/services/quiz"
)

// dmAsker runs the quiz in the user's direct messages
type dmAsker struct {
	session   Session
	waiter    *Waiter
	userID    string
	channelID string
}

var _ quiz.Asker = (*dmAsker)(nil)

func newDMAsker(session Session, waiter *Waiter, userID string) *dmAsker {
	return &dmAsker{
		session: session,
		waiter:  waiter,
		userID:  userID,
	}
}

// Ask sends text and waits for the user's next message in the DM channel
func (a *dmAsker) Ask(ctx context.Context, text string) (string, error) {
	if err := a.Notify(ctx, text); err != nil {
		return "", err
	}

	msg, err := a.waiter.WaitForMessage(ctx, func(m *discordgo.Message) bool {
		return m.Author != nil && m.Author.ID == a.userID && m.ChannelID == a.channelID
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// Notify sends text to the DM channel, opening it on first use
func (a *dmAsker) Notify(ctx context.Context, text string) error {
	if err := a.open(); err != nil {
		return err
	}
	if _, err := a.session.ChannelMessageSend(a.channelID, text); err != nil {
		return discordError(err, "failed to send direct message")
	}
	return nil
}

func (a *dmAsker) open() error {
	if a.channelID != "" {
		return nil
	}
	channel, err := a.session.UserChannelCreate(a.userID)
	if err != nil {
		return discordError(err, "failed to open direct message channel")
	}
	a.channelID = channel.ID
	return nil
}
