package allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/repositories/characters"
	mockallocation "github.com/KirkDiggler/nature-bot/internal/services/allocation/mock"
)

type DialogueTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	prompter *mockallocation.MockPrompter
	sink     *mockallocation.MockSink
	ctx      context.Context
}

func (s *DialogueTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.prompter = mockallocation.NewMockPrompter(s.ctrl)
	s.sink = mockallocation.NewMockSink(s.ctrl)
	s.ctx = context.Background()
}

func (s *DialogueTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDialogueTestSuite(t *testing.T) {
	suite.Run(t, new(DialogueTestSuite))
}

func (s *DialogueTestSuite) newDialogue(budget int, stats entities.Stats) *Dialogue {
	d, err := NewDialogue(&Config{
		ID:       "dlg-1",
		OwnerID:  "user-1",
		Budget:   budget,
		Stats:    stats,
		Prompter: s.prompter,
		Sink:     s.sink,
	})
	s.Require().NoError(err)
	d.stepTimeout = 20 * time.Millisecond
	return d
}

func (s *DialogueTestSuite) expectStep(category entities.StatCategory, remaining, amount int) {
	s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(category, nil)
	s.prompter.EXPECT().AwaitAmount(gomock.Any(), category, remaining).Return(amount, nil)
}

func (s *DialogueTestSuite) TestRun_SpendsWholeBudget() {
	initial := entities.NewStats()
	initial[entities.StatDEF] = 4

	gomock.InOrder(
		s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil),
		s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(entities.StatATK, nil),
		s.prompter.EXPECT().AwaitAmount(gomock.Any(), entities.StatATK, 5).Return(3, nil),
		s.sink.EXPECT().Apply(gomock.Any(), entities.StatATK, 3).Return(nil),
		s.prompter.EXPECT().Refresh(gomock.Any(), 2).Return(nil),
		s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(entities.StatSPE, nil),
		s.prompter.EXPECT().AwaitAmount(gomock.Any(), entities.StatSPE, 2).Return(2, nil),
		s.sink.EXPECT().Apply(gomock.Any(), entities.StatSPE, 2).Return(nil),
		s.prompter.EXPECT().Refresh(gomock.Any(), 0).Return(nil),
		s.sink.EXPECT().Complete(gomock.Any(), entities.Stats{
			entities.StatATK:        3,
			entities.StatSpecialATK: 0,
			entities.StatDEF:        4,
			entities.StatSpecialDEF: 0,
			entities.StatSPE:        2,
		}).Return(nil),
	)

	d := s.newDialogue(5, initial)
	result, err := d.Run(s.ctx)
	s.Require().NoError(err)

	s.Equal(0, result.Remaining)
	s.Equal(2, result.Steps)
	s.Equal(initial.Total()+5, result.Stats.Total())
	s.Equal(StateComplete, d.State())

	// caller's map is untouched
	s.Equal(0, initial.Get(entities.StatATK))
}

func (s *DialogueTestSuite) TestRun_ZeroBudgetCompletesWithoutPrompting() {
	s.sink.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil)

	d := s.newDialogue(0, entities.NewStats())
	result, err := d.Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, result.Steps)
	s.Equal(StateComplete, d.State())
}

func (s *DialogueTestSuite) TestRun_ExactAmountEndsOnFirstStep() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.expectStep(entities.StatSpecialATK, 5, 5)
	s.sink.EXPECT().Apply(gomock.Any(), entities.StatSpecialATK, 5).Return(nil)
	s.prompter.EXPECT().Refresh(gomock.Any(), 0).Return(nil)
	s.sink.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.newDialogue(5, entities.NewStats()).Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, result.Steps)
	s.Equal(5, result.Stats.Get(entities.StatSpecialATK))
}

func (s *DialogueTestSuite) TestRun_RejectedAmountChangesNothing() {
	gomock.InOrder(
		s.prompter.EXPECT().Open(gomock.Any(), 2).Return(nil),
		s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(entities.StatATK, nil),
		s.prompter.EXPECT().AwaitAmount(gomock.Any(), entities.StatATK, 2).Return(7, nil),
		s.prompter.EXPECT().Notify(gomock.Any(), InvalidAmountMessage(7, 2)).Return(nil),
		s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(entities.StatDEF, nil),
		s.prompter.EXPECT().AwaitAmount(gomock.Any(), entities.StatDEF, 2).Return(-1, nil),
		s.prompter.EXPECT().Notify(gomock.Any(), InvalidAmountMessage(-1, 2)).Return(nil),
		s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(entities.StatDEF, nil),
		s.prompter.EXPECT().AwaitAmount(gomock.Any(), entities.StatDEF, 2).Return(2, nil),
		s.sink.EXPECT().Apply(gomock.Any(), entities.StatDEF, 2).Return(nil),
		s.prompter.EXPECT().Refresh(gomock.Any(), 0).Return(nil),
		s.sink.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil),
	)

	result, err := s.newDialogue(2, entities.NewStats()).Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, result.Stats.Get(entities.StatATK))
	s.Equal(2, result.Stats.Get(entities.StatDEF))
	s.Equal(1, result.Steps)
}

func (s *DialogueTestSuite) TestRun_ZeroAmountIsAccepted() {
	s.prompter.EXPECT().Open(gomock.Any(), 1).Return(nil)
	s.expectStep(entities.StatATK, 1, 0)
	s.sink.EXPECT().Apply(gomock.Any(), entities.StatATK, 0).Return(nil)
	s.prompter.EXPECT().Refresh(gomock.Any(), 1).Return(nil)
	s.expectStep(entities.StatSPE, 1, 1)
	s.sink.EXPECT().Apply(gomock.Any(), entities.StatSPE, 1).Return(nil)
	s.prompter.EXPECT().Refresh(gomock.Any(), 0).Return(nil)
	s.sink.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.newDialogue(1, entities.NewStats()).Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, result.Steps)
}

func (s *DialogueTestSuite) TestRun_CategoryTimeout() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.prompter.EXPECT().AwaitCategory(gomock.Any()).DoAndReturn(
		func(ctx context.Context) (entities.StatCategory, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	d := s.newDialogue(5, entities.NewStats())
	_, err := d.Run(s.ctx)
	s.True(apperr.IsTimeout(err))
	s.Equal("dlg-1", apperr.GetMeta(err)["dialogue_id"])
	s.Equal(StateFailed, d.State())
}

func (s *DialogueTestSuite) TestRun_AmountTimeout() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.prompter.EXPECT().AwaitCategory(gomock.Any()).Return(entities.StatATK, nil)
	s.prompter.EXPECT().AwaitAmount(gomock.Any(), entities.StatATK, 5).DoAndReturn(
		func(ctx context.Context, _ entities.StatCategory, _ int) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})

	_, err := s.newDialogue(5, entities.NewStats()).Run(s.ctx)
	s.True(apperr.IsTimeout(err))
}

func (s *DialogueTestSuite) TestRun_OpenFails() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(errors.New("missing access"))

	_, err := s.newDialogue(5, entities.NewStats()).Run(s.ctx)
	s.True(apperr.IsInternal(err))
}

func (s *DialogueTestSuite) TestRun_ApplyFails() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.expectStep(entities.StatATK, 5, 1)
	s.sink.EXPECT().Apply(gomock.Any(), entities.StatATK, 1).Return(errors.New("store down"))

	d := s.newDialogue(5, entities.NewStats())
	_, err := d.Run(s.ctx)
	s.True(apperr.IsInternal(err))
	s.Equal(StateFailed, d.State())
}

func (s *DialogueTestSuite) TestRun_ApplyKeepsStoreCode() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.expectStep(entities.StatATK, 5, 2)
	s.sink.EXPECT().Apply(gomock.Any(), entities.StatATK, 2).
		Return(apperr.InvalidArgument("not enough unspent stat points"))

	_, err := s.newDialogue(5, entities.NewStats()).Run(s.ctx)
	s.True(apperr.IsInvalidArgument(err))
	s.Equal(2, apperr.GetMeta(err)["amount"])
	s.Equal("dlg-1", apperr.GetMeta(err)["dialogue_id"])
}

func (s *DialogueTestSuite) TestRun_FinalRefreshFailureStillCompletes() {
	var stored entities.Stats
	d, err := NewDialogue(&Config{
		OwnerID:  "user-1",
		Budget:   5,
		Stats:    entities.NewStats(),
		Prompter: s.prompter,
		Sink: &DraftSink{OnComplete: func(_ context.Context, stats entities.Stats) error {
			stored = stats
			return nil
		}},
	})
	s.Require().NoError(err)

	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.expectStep(entities.StatATK, 5, 5)
	s.prompter.EXPECT().Refresh(gomock.Any(), 0).Return(errors.New("403 Missing Permissions"))

	result, err := d.Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, result.Remaining)
	s.Equal(StateComplete, d.State())
	s.Require().NotNil(stored)
	s.Equal(5, stored.Get(entities.StatATK))
}

func (s *DialogueTestSuite) TestRun_MidDialogueRefreshFailureFails() {
	s.prompter.EXPECT().Open(gomock.Any(), 5).Return(nil)
	s.expectStep(entities.StatATK, 5, 2)
	s.sink.EXPECT().Apply(gomock.Any(), entities.StatATK, 2).Return(nil)
	s.prompter.EXPECT().Refresh(gomock.Any(), 3).Return(errors.New("unknown message"))

	d := s.newDialogue(5, entities.NewStats())
	_, err := d.Run(s.ctx)
	s.True(apperr.IsInternal(err))
	s.Equal(StateFailed, d.State())
}

func (s *DialogueTestSuite) TestRun_CompleteKeepsStoreCode() {
	s.sink.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(apperr.AlreadyExists("character already exists"))

	_, err := s.newDialogue(0, entities.NewStats()).Run(s.ctx)
	s.True(apperr.IsAlreadyExists(err))
}

func (s *DialogueTestSuite) TestNewDialogue_Invalid() {
	_, err := NewDialogue(nil)
	s.True(apperr.IsInvalidArgument(err))

	_, err = NewDialogue(&Config{Budget: -1, Prompter: s.prompter, Sink: s.sink})
	s.True(apperr.IsInvalidArgument(err))

	_, err = NewDialogue(&Config{Budget: 1, Sink: s.sink})
	s.True(apperr.IsInvalidArgument(err))

	_, err = NewDialogue(&Config{Budget: 1, Prompter: s.prompter})
	s.True(apperr.IsInvalidArgument(err))
}

func (s *DialogueTestSuite) TestRun_LiveStepsSurviveFailure() {
	repo := characters.NewInMemoryRepository()
	start := entities.NewStats()
	start[entities.StatATK] = 2
	char := entities.NewCharacter("user-1", "Ash", "Trainer", "Bold", start)
	char.UnspentStatPoints = 3
	s.Require().NoError(repo.Create(s.ctx, char))

	s.prompter.EXPECT().Open(gomock.Any(), 3).Return(nil)
	s.expectStep(entities.StatDEF, 3, 2)
	s.prompter.EXPECT().Refresh(gomock.Any(), 1).Return(nil)
	s.prompter.EXPECT().AwaitCategory(gomock.Any()).DoAndReturn(
		func(ctx context.Context) (entities.StatCategory, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	d, err := NewDialogue(&Config{
		OwnerID:  "user-1",
		Budget:   3,
		Stats:    char.Stats,
		Prompter: s.prompter,
		Sink:     &LiveSink{Repo: repo, OwnerID: "user-1"},
	})
	s.Require().NoError(err)
	d.stepTimeout = 20 * time.Millisecond

	_, err = d.Run(s.ctx)
	s.True(apperr.IsTimeout(err))

	stored, err := repo.Get(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(2, stored.Stats.Get(entities.StatDEF))
	s.Equal(1, stored.UnspentStatPoints)
	s.Equal(stored.GrantedStatPoints(), stored.Stats.Total()+stored.UnspentStatPoints)
}

func (s *DialogueTestSuite) TestRun_DraftSinkReceivesFinalStats() {
	var received entities.Stats
	sink := &DraftSink{OnComplete: func(_ context.Context, stats entities.Stats) error {
		received = stats
		return nil
	}}

	s.prompter.EXPECT().Open(gomock.Any(), 1).Return(nil)
	s.expectStep(entities.StatSPE, 1, 1)
	s.prompter.EXPECT().Refresh(gomock.Any(), 0).Return(nil)

	d, err := NewDialogue(&Config{
		OwnerID:  "user-1",
		Budget:   1,
		Stats:    entities.NewStats(),
		Prompter: s.prompter,
		Sink:     sink,
	})
	s.Require().NoError(err)

	_, err = d.Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, received.Get(entities.StatSPE))
}
