package characters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/nature-bot/internal/clock"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
	"github.com/KirkDiggler/nature-bot/internal/testutils"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo Repository
	now  time.Time
	ctx  context.Context
}

func (s *RedisRepoTestSuite) SetupTest() {
	mr, rc := testutils.CreateTestRedisClient(s.T())
	s.mr = mr
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
	s.repo = NewRedisRepository(&RedisRepoConfig{
		Client: rc,
		Clock:  clock.Fixed(s.now),
	})
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) newCharacter(ownerID string) *entities.Character {
	stats := entities.NewStats()
	stats[entities.StatATK] = 3
	stats[entities.StatSPE] = 2
	return entities.NewCharacter(ownerID, "Ash", "Trainer", "Jolly", stats)
}

func (s *RedisRepoTestSuite) TestCreateAndGet() {
	char := s.newCharacter("owner-1")

	s.Require().NoError(s.repo.Create(s.ctx, char))
	s.True(s.mr.Exists("character:owner-1"))
	s.True(s.mr.Exists("characters"))

	got, err := s.repo.Get(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Equal("owner-1", got.OwnerID)
	s.Equal("Ash", got.Name)
	s.Equal("Trainer", got.Profession)
	s.Equal("Jolly", got.Nature)
	s.Equal(1, got.Level)
	s.Equal(0, got.UnspentStatPoints)
	s.Equal(3, got.Stats.Get(entities.StatATK))
	s.Equal(2, got.Stats.Get(entities.StatSPE))
	s.Equal(0, got.Stats.Get(entities.StatDEF))
	s.True(s.now.Equal(got.CreatedAt))
	s.True(s.now.Equal(got.UpdatedAt))
}

func (s *RedisRepoTestSuite) TestCreate_Duplicate() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newCharacter("owner-1")))

	second := s.newCharacter("owner-1")
	second.Name = "Gary"
	err := s.repo.Create(s.ctx, second)
	s.True(apperr.IsAlreadyExists(err))

	got, err := s.repo.Get(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Equal("Ash", got.Name)
}

func (s *RedisRepoTestSuite) TestCreate_Invalid() {
	err := s.repo.Create(s.ctx, nil)
	s.True(apperr.IsInvalidArgument(err))

	err = s.repo.Create(s.ctx, &entities.Character{OwnerID: "owner-1"})
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, "nobody")
	s.True(apperr.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, "")
	s.True(apperr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestIncrementStat() {
	char := s.newCharacter("owner-1")
	char.UnspentStatPoints = 3
	s.Require().NoError(s.repo.Create(s.ctx, char))

	s.Require().NoError(s.repo.IncrementStat(s.ctx, "owner-1", entities.StatDEF, 2))

	got, err := s.repo.Get(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Equal(2, got.Stats.Get(entities.StatDEF))
	s.Equal(1, got.UnspentStatPoints)
}

func (s *RedisRepoTestSuite) TestIncrementStat_Insufficient() {
	char := s.newCharacter("owner-1")
	char.UnspentStatPoints = 1
	s.Require().NoError(s.repo.Create(s.ctx, char))

	err := s.repo.IncrementStat(s.ctx, "owner-1", entities.StatDEF, 2)
	s.True(apperr.IsInvalidArgument(err))

	err = s.repo.IncrementStat(s.ctx, "owner-1", entities.StatDEF, -1)
	s.True(apperr.IsInvalidArgument(err))

	got, err := s.repo.Get(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Equal(0, got.Stats.Get(entities.StatDEF))
	s.Equal(1, got.UnspentStatPoints)
}

func (s *RedisRepoTestSuite) TestIncrementStat_NotFound() {
	err := s.repo.IncrementStat(s.ctx, "nobody", entities.StatATK, 1)
	s.True(apperr.IsNotFound(err))

	s.False(s.mr.Exists("character:nobody"))
}

func (s *RedisRepoTestSuite) TestIncrementStat_UnknownCategory() {
	err := s.repo.IncrementStat(s.ctx, "owner-1", entities.StatCategory("hp"), 1)
	s.True(apperr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestLevelUp() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newCharacter("owner-1")))

	got, err := s.repo.LevelUp(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Equal(2, got.Level)
	s.Equal(1, got.UnspentStatPoints)
	s.Equal(got.GrantedStatPoints(), got.Stats.Total()+got.UnspentStatPoints)

	_, err = s.repo.LevelUp(s.ctx, "nobody")
	s.True(apperr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestList() {
	s.Require().NoError(s.repo.Create(s.ctx, s.newCharacter("owner-b")))
	s.Require().NoError(s.repo.Create(s.ctx, s.newCharacter("owner-a")))

	chars, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(chars, 2)
	s.Equal("owner-a", chars[0].OwnerID)
	s.Equal("owner-b", chars[1].OwnerID)
}

func (s *RedisRepoTestSuite) TestList_Empty() {
	chars, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(chars)
}

func (s *RedisRepoTestSuite) TestGet_CorruptField() {
	s.mr.HSet("character:owner-1", "owner_id", "owner-1", "level", "not-a-number")

	_, err := s.repo.Get(s.ctx, "owner-1")
	s.True(apperr.IsInternal(err))
}

// Store failures surface as internal errors

type RedisErrorTestSuite struct {
	suite.Suite
	mock redismock.ClientMock
	repo Repository
}

func (s *RedisErrorTestSuite) SetupTest() {
	client, mock := redismock.NewClientMock()
	s.mock = mock
	s.repo = NewRedis(client)
}

func (s *RedisErrorTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisErrorTestSuite(t *testing.T) {
	suite.Run(t, new(RedisErrorTestSuite))
}

func (s *RedisErrorTestSuite) TestGet_StoreError() {
	s.mock.ExpectHGetAll("character:owner-1").SetErr(errors.New("connection reset"))

	_, err := s.repo.Get(context.Background(), "owner-1")
	s.True(apperr.IsInternal(err))
	s.Equal("owner-1", apperr.GetMeta(err)["owner_id"])
}

func (s *RedisErrorTestSuite) TestList_StoreError() {
	s.mock.ExpectSMembers("characters").SetErr(errors.New("connection reset"))

	_, err := s.repo.List(context.Background())
	s.True(apperr.IsInternal(err))
}

func (s *RedisErrorTestSuite) TestList_MemberError() {
	s.mock.ExpectSMembers("characters").SetVal([]string{"owner-1"})
	s.mock.ExpectHGetAll("character:owner-1").SetErr(errors.New("connection reset"))

	_, err := s.repo.List(context.Background())
	s.True(apperr.IsInternal(err))
}
