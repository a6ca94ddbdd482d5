package discord

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	mockdiscord "github.com/KirkDiggler/nature-bot/internal/handlers/discord/mock"
)

type PrompterTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	session  *mockdiscord.MockSession
	waiter   *Waiter
	prompter *reactionPrompter
}

func (s *PrompterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.session = mockdiscord.NewMockSession(s.ctrl)
	s.waiter = NewWaiter()
	s.prompter = newReactionPrompter(s.session, s.waiter, "chan-1", "user-1", "Ash's starting stats")
}

func (s *PrompterTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.Equal(0, s.waiter.Pending())
}

func TestPrompterTestSuite(t *testing.T) {
	suite.Run(t, new(PrompterTestSuite))
}

// whenWaiting runs feed once a listener is registered
func (s *PrompterTestSuite) whenWaiting(feed func()) {
	go func() {
		deadline := time.Now().Add(time.Second)
		for s.waiter.Pending() == 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		feed()
	}()
}

func (s *PrompterTestSuite) reaction(userID, messageID, emoji string) *discordgo.MessageReactionAdd {
	return &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{
		UserID:    userID,
		MessageID: messageID,
		ChannelID: "chan-1",
		Emoji:     discordgo.Emoji{Name: emoji},
	}}
}

func (s *PrompterTestSuite) open() {
	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).
		Return(&discordgo.Message{ID: "prompt-1"}, nil)
	s.session.EXPECT().MessageReactionAdd("chan-1", "prompt-1", gomock.Any()).Return(nil).Times(5)
	s.Require().NoError(s.prompter.Open(context.Background(), 5))
}

func (s *PrompterTestSuite) TestOpen_AddsEveryTrigger() {
	var added []string
	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).
		DoAndReturn(func(_ string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			s.Contains(content, "Points remaining: **5**")
			return &discordgo.Message{ID: "prompt-1"}, nil
		})
	s.session.EXPECT().MessageReactionAdd("chan-1", "prompt-1", gomock.Any()).
		DoAndReturn(func(_, _, emoji string, _ ...discordgo.RequestOption) error {
			added = append(added, emoji)
			return nil
		}).Times(5)

	s.Require().NoError(s.prompter.Open(context.Background(), 5))
	s.Equal([]string{"👊", "🔮", "🧱", "🔰", "💨"}, added)

	s.prompter.close()
}

func (s *PrompterTestSuite) TestOpen_ReactionDuringTriggerSetupCounts() {
	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).
		Return(&discordgo.Message{ID: "prompt-1"}, nil)
	s.session.EXPECT().MessageReactionAdd("chan-1", "prompt-1", gomock.Any()).
		DoAndReturn(func(_, _, emoji string, _ ...discordgo.RequestOption) error {
			// the owner clicks the first trigger before the rest are attached
			if emoji == "🔮" {
				s.waiter.OnReactionAdd(nil, s.reaction("user-1", "prompt-1", "👊"))
			}
			return nil
		}).Times(5)

	s.Require().NoError(s.prompter.Open(context.Background(), 5))

	category, err := s.prompter.AwaitCategory(context.Background())
	s.Require().NoError(err)
	s.Equal(entities.StatATK, category)
}

func (s *PrompterTestSuite) TestOpen_TriggerFailureDropsListener() {
	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).
		Return(&discordgo.Message{ID: "prompt-1"}, nil)
	s.session.EXPECT().MessageReactionAdd("chan-1", "prompt-1", "👊").
		Return(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}})

	err := s.prompter.Open(context.Background(), 5)
	s.True(apperr.IsPermissionDenied(err))
	s.Equal(0, s.waiter.Pending())
}

func (s *PrompterTestSuite) TestOpen_PermissionDenied() {
	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).
		Return(nil, &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}})

	err := s.prompter.Open(context.Background(), 5)
	s.True(apperr.IsPermissionDenied(err))
}

func (s *PrompterTestSuite) TestAwaitCategory_IgnoresOtherReactions() {
	s.open()

	s.whenWaiting(func() {
		s.waiter.OnReactionAdd(nil, s.reaction("user-2", "prompt-1", "👊"))
		s.waiter.OnReactionAdd(nil, s.reaction("user-1", "other-msg", "👊"))
		s.waiter.OnReactionAdd(nil, s.reaction("user-1", "prompt-1", "😀"))
		s.waiter.OnReactionAdd(nil, s.reaction("user-1", "prompt-1", "🧱"))
	})

	category, err := s.prompter.AwaitCategory(context.Background())
	s.Require().NoError(err)
	s.Equal(entities.StatDEF, category)
}

func (s *PrompterTestSuite) TestAwaitCategory_NotOpened() {
	_, err := s.prompter.AwaitCategory(context.Background())
	s.True(apperr.IsInternal(err))
}

func (s *PrompterTestSuite) TestAwaitCategory_Timeout() {
	s.open()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.prompter.AwaitCategory(ctx)
	s.True(apperr.IsTimeout(err))
}

func (s *PrompterTestSuite) TestAwaitAmount_IgnoresNonNumericReplies() {
	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).Return(&discordgo.Message{ID: "ask"}, nil)

	s.whenWaiting(func() {
		for _, m := range []*discordgo.MessageCreate{
			messageFrom("user-1", "chan-1", "lots"),
			messageFrom("user-1", "chan-1", "-2"),
			messageFrom("user-2", "chan-1", "1"),
			messageFrom("user-1", "chan-2", "1"),
			messageFrom("user-1", "chan-1", " 4 "),
		} {
			s.waiter.OnMessageCreate(nil, m)
		}
	})

	amount, err := s.prompter.AwaitAmount(context.Background(), entities.StatATK, 3)
	s.Require().NoError(err)
	s.Equal(4, amount)
}

func (s *PrompterTestSuite) TestRefresh() {
	s.open()

	s.session.EXPECT().ChannelMessageEdit("chan-1", "prompt-1", gomock.Any()).Return(&discordgo.Message{}, nil)
	s.session.EXPECT().MessageReactionsRemoveAll("chan-1", "prompt-1").Return(nil)
	s.session.EXPECT().MessageReactionAdd("chan-1", "prompt-1", gomock.Any()).Return(nil).Times(5)
	s.NoError(s.prompter.Refresh(context.Background(), 2))

	s.session.EXPECT().ChannelMessageEdit("chan-1", "prompt-1", gomock.Any()).
		DoAndReturn(func(_, _, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
			s.Contains(content, "All points have been allocated.")
			return &discordgo.Message{}, nil
		})
	s.session.EXPECT().MessageReactionsRemoveAll("chan-1", "prompt-1").Return(nil)
	s.NoError(s.prompter.Refresh(context.Background(), 0))

	s.prompter.close()
}

func (s *PrompterTestSuite) TestRefresh_ClearFailureIsNotFatal() {
	s.open()

	s.session.EXPECT().ChannelMessageEdit("chan-1", "prompt-1", gomock.Any()).Return(&discordgo.Message{}, nil)
	s.session.EXPECT().MessageReactionsRemoveAll("chan-1", "prompt-1").
		Return(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}})
	s.session.EXPECT().MessageReactionAdd("chan-1", "prompt-1", gomock.Any()).Return(nil).Times(5)
	s.NoError(s.prompter.Refresh(context.Background(), 3))

	s.whenWaiting(func() {
		s.waiter.OnReactionAdd(nil, s.reaction("user-1", "prompt-1", "💨"))
	})
	category, err := s.prompter.AwaitCategory(context.Background())
	s.Require().NoError(err)
	s.Equal(entities.StatSPE, category)
}

func (s *PrompterTestSuite) TestNotify() {
	s.session.EXPECT().ChannelMessageSend("chan-1", "<@user-1> nope").Return(&discordgo.Message{}, nil)
	s.NoError(s.prompter.Notify(context.Background(), "nope"))

	s.session.EXPECT().ChannelMessageSend("chan-1", gomock.Any()).Return(nil, errors.New("gateway down"))
	s.True(apperr.IsInternal(s.prompter.Notify(context.Background(), "nope")))
}
