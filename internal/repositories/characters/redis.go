package characters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/nature-bot/internal/clock"
	"github.com/KirkDiggler/nature-bot/internal/entities"
	apperr "github.com/KirkDiggler/nature-bot/internal/errors"
)

const (
	characterKeyPrefix = "character:"
	characterIndexKey  = "characters"
	statFieldPrefix    = "stat:"

	fieldOwnerID    = "owner_id"
	fieldName       = "name"
	fieldProfession = "profession"
	fieldLevel      = "level"
	fieldNature     = "nature"
	fieldUnspent    = "unspent_stat_points"
	fieldCreatedAt  = "created_at"
	fieldUpdatedAt  = "updated_at"

	listConcurrency = 8
)

// Result codes of incrementStatScript
const (
	scriptNotFound     = -1
	scriptInsufficient = -2
)

// incrementStatScript checks the unspent pool and moves points into a stat
// in one server-side step.
// KEYS[1] character hash, ARGV[1] stat field, ARGV[2] amount, ARGV[3] updated_at.
var incrementStatScript = redis.NewScript(`
local unspent = redis.call('HGET', KEYS[1], 'unspent_stat_points')
if not unspent then
  return -1
end
unspent = tonumber(unspent)
local amount = tonumber(ARGV[2])
if amount < 0 or amount > unspent then
  return -2
end
redis.call('HINCRBY', KEYS[1], ARGV[1], amount)
redis.call('HINCRBY', KEYS[1], 'unspent_stat_points', -amount)
redis.call('HSET', KEYS[1], 'updated_at', ARGV[3])
return unspent - amount
`)

// redisRepo stores each character as a hash so single fields can be
// incremented atomically
type redisRepo struct {
	client redis.UniversalClient
	clock  clock.Clock
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	Clock  clock.Clock // Optional: defaults to the system clock
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepo{
		client: cfg.Client,
		clock:  c,
	}
}

func (r *redisRepo) key(ownerID string) string {
	return characterKeyPrefix + ownerID
}

func statField(category entities.StatCategory) string {
	return statFieldPrefix + string(category)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *entities.Character) error {
	if char == nil {
		return apperr.InvalidArgument("character cannot be nil")
	}
	if err := char.Validate(); err != nil {
		return apperr.Wrap(err, "invalid character").WithMeta("owner_id", char.OwnerID)
	}

	key := r.key(char.OwnerID)
	now := r.clock.Now()

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check character existence: %w", err)
		}
		if exists > 0 {
			return apperr.AlreadyExistsf("character for owner '%s' already exists", char.OwnerID).
				WithMeta("owner_id", char.OwnerID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, toFields(char, now))
			pipe.SAdd(ctx, characterIndexKey, char.OwnerID)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
	case errors.Is(err, redis.TxFailedErr):
		// someone else created the key between WATCH and EXEC
		return apperr.AlreadyExistsf("character for owner '%s' already exists", char.OwnerID).
			WithMeta("owner_id", char.OwnerID)
	case apperr.IsAlreadyExists(err):
		return err
	default:
		return apperr.WrapWithCode(err, apperr.CodeInternal, "failed to create character").
			WithMeta("owner_id", char.OwnerID)
	}

	char.CreatedAt = now
	char.UpdatedAt = now
	return nil
}

// Get retrieves a character by owner
func (r *redisRepo) Get(ctx context.Context, ownerID string) (*entities.Character, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	fields, err := r.client.HGetAll(ctx, r.key(ownerID)).Result()
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to get character").
			WithMeta("owner_id", ownerID)
	}
	if len(fields) == 0 {
		return nil, apperr.NotFoundf("character for owner '%s' not found", ownerID).
			WithMeta("owner_id", ownerID)
	}

	char, err := fromFields(fields)
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to decode character").
			WithMeta("owner_id", ownerID)
	}
	return char, nil
}

// IncrementStat moves points from the unspent pool into one stat
func (r *redisRepo) IncrementStat(ctx context.Context, ownerID string, category entities.StatCategory, amount int) error {
	if ownerID == "" {
		return apperr.InvalidArgument("owner ID is required")
	}
	if !category.Valid() {
		return apperr.InvalidArgumentf("unknown stat category '%s'", category)
	}

	now := r.clock.Now().Format(time.RFC3339Nano)
	remaining, err := incrementStatScript.Run(ctx, r.client,
		[]string{r.key(ownerID)}, statField(category), amount, now).Int()
	if err != nil {
		return apperr.WrapWithCode(err, apperr.CodeInternal, "failed to increment stat").
			WithMeta("owner_id", ownerID)
	}

	switch remaining {
	case scriptNotFound:
		return apperr.NotFoundf("character for owner '%s' not found", ownerID).
			WithMeta("owner_id", ownerID)
	case scriptInsufficient:
		return apperr.InvalidArgumentf("cannot allocate %d points", amount).
			WithMeta("owner_id", ownerID).
			WithMeta("amount", amount)
	}

	slog.Debug("stat incremented",
		"owner_id", ownerID,
		"category", string(category),
		"amount", amount,
		"remaining", remaining)
	return nil
}

// LevelUp raises the level by one and grants the level's stat points
func (r *redisRepo) LevelUp(ctx context.Context, ownerID string) (*entities.Character, error) {
	if ownerID == "" {
		return nil, apperr.InvalidArgument("owner ID is required")
	}

	key := r.key(ownerID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("failed to check character existence: %w", err)
		}
		if exists == 0 {
			return apperr.NotFoundf("character for owner '%s' not found", ownerID).
				WithMeta("owner_id", ownerID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HIncrBy(ctx, key, fieldLevel, 1)
			pipe.HIncrBy(ctx, key, fieldUnspent, entities.StatPointsPerLevel)
			pipe.HSet(ctx, key, fieldUpdatedAt, r.clock.Now().Format(time.RFC3339Nano))
			return nil
		})
		return err
	}, key)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to level up character").
			WithMeta("owner_id", ownerID)
	}

	return r.Get(ctx, ownerID)
}

// List retrieves every character, loading them concurrently
func (r *redisRepo) List(ctx context.Context) ([]*entities.Character, error) {
	ownerIDs, err := r.client.SMembers(ctx, characterIndexKey).Result()
	if err != nil {
		return nil, apperr.WrapWithCode(err, apperr.CodeInternal, "failed to list character owners")
	}
	sort.Strings(ownerIDs)

	characters := make([]*entities.Character, len(ownerIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, ownerID := range ownerIDs {
		g.Go(func() error {
			char, err := r.Get(gctx, ownerID)
			if err != nil {
				return err
			}
			characters[i] = char
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return characters, nil
}

func toFields(char *entities.Character, now time.Time) map[string]any {
	ts := now.Format(time.RFC3339Nano)
	fields := map[string]any{
		fieldOwnerID:    char.OwnerID,
		fieldName:       char.Name,
		fieldProfession: char.Profession,
		fieldLevel:      char.Level,
		fieldNature:     char.Nature,
		fieldUnspent:    char.UnspentStatPoints,
		fieldCreatedAt:  ts,
		fieldUpdatedAt:  ts,
	}
	for _, cat := range entities.StatCategories {
		fields[statField(cat)] = char.Stats.Get(cat)
	}
	return fields
}

func fromFields(fields map[string]string) (*entities.Character, error) {
	char := &entities.Character{
		OwnerID:    fields[fieldOwnerID],
		Name:       fields[fieldName],
		Profession: fields[fieldProfession],
		Nature:     fields[fieldNature],
		Stats:      entities.NewStats(),
	}

	var err error
	if char.Level, err = atoiField(fields, fieldLevel); err != nil {
		return nil, err
	}
	if char.UnspentStatPoints, err = atoiField(fields, fieldUnspent); err != nil {
		return nil, err
	}
	for _, cat := range entities.StatCategories {
		if char.Stats[cat], err = atoiField(fields, statField(cat)); err != nil {
			return nil, err
		}
	}
	if char.CreatedAt, err = timeField(fields, fieldCreatedAt); err != nil {
		return nil, err
	}
	if char.UpdatedAt, err = timeField(fields, fieldUpdatedAt); err != nil {
		return nil, err
	}

	return char, nil
}

// atoiField treats a missing field as zero
func atoiField(fields map[string]string, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return v, nil
}

func timeField(fields map[string]string, name string) (time.Time, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", name, err)
	}
	return t, nil
}
