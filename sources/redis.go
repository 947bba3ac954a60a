package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/onnwee/rankpipe/pipeline"
)

// Redis source errors.
var (
	ErrNilClient  = errors.New("redis client cannot be nil")
	ErrNilKeyFunc = errors.New("key function cannot be nil")
)

// RedisSource fetches candidates from a Redis sorted set, highest score
// first. Members are CBOR envelopes produced with EncodeEnvelope; the sorted
// set score becomes the candidate's prior score. Undecodable members are
// skipped so one bad publish never poisons a fetch.
type RedisSource[T any] struct {
	client *redis.Client
	name   string
	key    func(rc *pipeline.RunContext) string
	logger *slog.Logger
}

// NewRedisSource creates a Redis-backed source. key derives the sorted set
// key for a run, typically from the requester ID.
func NewRedisSource[T any](client *redis.Client, name string, key func(rc *pipeline.RunContext) string, logger *slog.Logger) (*RedisSource[T], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if key == nil {
		return nil, ErrNilKeyFunc
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSource[T]{client: client, name: name, key: key, logger: logger}, nil
}

// StaticKey returns a key function that ignores the run context.
func StaticKey(key string) func(rc *pipeline.RunContext) string {
	return func(*pipeline.RunContext) string { return key }
}

// Name identifies the source in logs, metrics and candidate origins.
func (s *RedisSource[T]) Name() string { return s.name }

// Fetch reads up to max members from the sorted set in descending score
// order and decodes each into a candidate.
func (s *RedisSource[T]) Fetch(ctx context.Context, rc *pipeline.RunContext, max int) ([]pipeline.Candidate[T], error) {
	key := s.key(rc)
	members, err := s.client.ZRevRangeWithScores(ctx, key, 0, int64(max)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s failed: %w", key, err)
	}

	cands := make([]pipeline.Candidate[T], 0, len(members))
	var skipped int
	for _, member := range members {
		raw, ok := member.Member.(string)
		if !ok {
			skipped++
			continue
		}
		env, err := DecodeEnvelope([]byte(raw))
		if err != nil {
			skipped++
			s.logger.Warn("skipping undecodable member",
				slog.String("source", s.name),
				slog.String("key", key),
				slog.String("error", err.Error()))
			continue
		}
		c, err := DecodeCandidate[T](env, s.name)
		if err != nil {
			skipped++
			s.logger.Warn("skipping undecodable payload",
				slog.String("source", s.name),
				slog.String("id", env.ID),
				slog.String("error", err.Error()))
			continue
		}
		// The sorted set score is the authoritative prior.
		c.Score = member.Score
		cands = append(cands, c)
	}

	if skipped > 0 {
		s.logger.Warn("fetch completed with skipped members",
			slog.String("source", s.name),
			slog.Int("skipped", skipped),
			slog.Int("returned", len(cands)))
	}
	return cands, nil
}

// Publish adds a candidate envelope to the sorted set with the given score.
// Producers use it to feed RedisSource consumers.
func Publish(ctx context.Context, client *redis.Client, key, id string, score float64, payload any) error {
	data, err := EncodeEnvelope(id, "", score, payload)
	if err != nil {
		return err
	}
	return client.ZAdd(ctx, key, redis.Z{Score: score, Member: string(data)}).Err()
}
