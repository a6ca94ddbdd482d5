package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/nature-bot/internal/domain/rulebook"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/services/allocation"
)

// reactionPrompter runs an allocation dialogue on one channel message.
// Stats are picked by reacting to the prompt and amounts are typed replies.
type reactionPrompter struct {
	session   Session
	waiter    *Waiter
	channelID string
	ownerID   string
	title     string
	messageID string

	// registered before triggers are attached so early clicks count
	pending *Subscription[*discordgo.MessageReaction]
}

var _ allocation.Prompter = (*reactionPrompter)(nil)

func newReactionPrompter(session Session, waiter *Waiter, channelID, ownerID, title string) *reactionPrompter {
	return &reactionPrompter{
		session:   session,
		waiter:    waiter,
		channelID: channelID,
		ownerID:   ownerID,
		title:     title,
	}
}

// Open posts the prompt and attaches one reaction per stat
func (p *reactionPrompter) Open(ctx context.Context, remaining int) error {
	msg, err := p.session.ChannelMessageSend(p.channelID, p.promptText(remaining))
	if err != nil {
		return discordError(err, "failed to send allocation prompt")
	}
	p.messageID = msg.ID

	return p.armTriggers()
}

// AwaitCategory waits for the owner to react to the prompt with a trigger
func (p *reactionPrompter) AwaitCategory(ctx context.Context) (entities.StatCategory, error) {
	if p.messageID == "" {
		return "", apperr.Internal("allocation prompt was not opened")
	}

	sub := p.pending
	p.pending = nil
	if sub == nil {
		sub = p.listen()
	}

	reaction, err := sub.Wait(ctx)
	if err != nil {
		return "", err
	}

	category, _ := rulebook.CategoryForEmoji(reaction.Emoji.Name)
	return category, nil
}

// AwaitAmount asks for a number and waits for the owner's numeric reply.
// Anything that is not a non-negative integer is ignored.
func (p *reactionPrompter) AwaitAmount(ctx context.Context, category entities.StatCategory, remaining int) (int, error) {
	question := fmt.Sprintf("<@%s> How many points would you like to put into %s %s? (%d remaining)",
		p.ownerID, rulebook.EmojiFor(category), category, remaining)
	if _, err := p.session.ChannelMessageSend(p.channelID, question); err != nil {
		return 0, discordError(err, "failed to ask for amount")
	}

	msg, err := p.waiter.WaitForMessage(ctx, func(m *discordgo.Message) bool {
		if m.Author == nil || m.Author.ID != p.ownerID || m.ChannelID != p.channelID {
			return false
		}
		_, ok := parseAmount(m.Content)
		return ok
	})
	if err != nil {
		return 0, err
	}

	amount, _ := parseAmount(msg.Content)
	return amount, nil
}

// Refresh rewrites the budget line and resets the reactions.
// Clearing reactions needs Manage Messages; without it the old ones stay.
func (p *reactionPrompter) Refresh(ctx context.Context, remaining int) error {
	if _, err := p.session.ChannelMessageEdit(p.channelID, p.messageID, p.promptText(remaining)); err != nil {
		return discordError(err, "failed to update allocation prompt")
	}
	if err := p.session.MessageReactionsRemoveAll(p.channelID, p.messageID); err != nil {
		slog.Warn("failed to clear allocation reactions",
			"error", err,
			"channel_id", p.channelID,
			"message_id", p.messageID)
	}
	if remaining == 0 {
		return nil
	}
	return p.armTriggers()
}

// Notify posts a plain message in the dialogue channel
func (p *reactionPrompter) Notify(ctx context.Context, message string) error {
	if _, err := p.session.ChannelMessageSend(p.channelID, fmt.Sprintf("<@%s> %s", p.ownerID, message)); err != nil {
		return discordError(err, "failed to send message")
	}
	return nil
}

// close drops a listener registered for a category that was never awaited
func (p *reactionPrompter) close() {
	if p.pending != nil {
		p.pending.Cancel()
		p.pending = nil
	}
}

func (p *reactionPrompter) listen() *Subscription[*discordgo.MessageReaction] {
	ownerID, messageID := p.ownerID, p.messageID
	return p.waiter.ListenForReaction(func(r *discordgo.MessageReaction) bool {
		if r.UserID != ownerID || r.MessageID != messageID {
			return false
		}
		_, ok := rulebook.CategoryForEmoji(r.Emoji.Name)
		return ok
	})
}

// armTriggers starts listening and then attaches the trigger reactions
func (p *reactionPrompter) armTriggers() error {
	if p.pending == nil {
		p.pending = p.listen()
	}
	for _, t := range rulebook.Triggers {
		if err := p.session.MessageReactionAdd(p.channelID, p.messageID, t.Emoji); err != nil {
			p.close()
			return discordError(err, "failed to add reaction").WithMeta("emoji", t.Emoji)
		}
	}
	return nil
}

func (p *reactionPrompter) promptText(remaining int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", p.title)
	if remaining == 0 {
		b.WriteString("All points have been allocated.")
		return b.String()
	}

	b.WriteString("React with a stat, then reply with how many points to put into it.\n")
	for _, t := range rulebook.Triggers {
		fmt.Fprintf(&b, "%s %s\n", t.Emoji, t.Category)
	}
	fmt.Fprintf(&b, "Points remaining: **%d**", remaining)
	return b.String()
}

func parseAmount(content string) (int, bool) {
	amount, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || amount < 0 {
		return 0, false
	}
	return amount, true
}
