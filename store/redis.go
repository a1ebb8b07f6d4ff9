package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	backend "github.com/redis/go-redis/v9"

	"github.com/dogfinder/dogfinder/types"
)

const defaultRedisPrefix = "dogfinder_"

// RedisStore keeps state under three keys that mirror the browser storage
// layout: <prefix>current_index, <prefix>user_id and the hash <prefix>voted_breeds.
type RedisStore struct {
	client *backend.Client
	prefix string
}

type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix. Empty values keep the default.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore connects to address and verifies the connection.
func NewRedisStore(ctx context.Context, address, password string, db int, opts ...RedisOption) (*RedisStore, error) {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", address, err)
	}

	return NewRedisStoreFromClient(rdb, opts...), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "current_index"
}

func (s *RedisStore) userKey() string {
	return s.prefix + "user_id"
}

func (s *RedisStore) votesKey() string {
	return s.prefix + "voted_breeds"
}

func (s *RedisStore) Load(ctx context.Context) (*State, error) {
	state := NewState()

	index, err := s.client.Get(ctx, s.indexKey()).Int()
	switch {
	case errors.Is(err, backend.Nil):
	case err != nil:
		return nil, fmt.Errorf("failed to get index from redis: %w", err)
	default:
		state.CurrentIndex = index
	}

	userID, err := s.client.Get(ctx, s.userKey()).Result()
	switch {
	case errors.Is(err, backend.Nil):
	case err != nil:
		return nil, fmt.Errorf("failed to get user id from redis: %w", err)
	default:
		state.UserID = userID
	}

	votes, err := s.client.HGetAll(ctx, s.votesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get votes from redis: %w", err)
	}
	for field, raw := range votes {
		breedID, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		state.Votes[breedID] = types.VoteValue(value)
	}

	return state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	if err := validateState(state); err != nil {
		return err
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.indexKey(), s.userKey(), s.votesKey())
		pipe.Set(ctx, s.indexKey(), state.CurrentIndex, 0)
		if state.UserID != "" {
			pipe.Set(ctx, s.userKey(), state.UserID, 0)
		}
		if len(state.Votes) > 0 {
			fields := make(map[string]interface{}, len(state.Votes))
			for breedID, value := range state.Votes {
				fields[strconv.Itoa(breedID)] = int(value)
			}
			pipe.HSet(ctx, s.votesKey(), fields)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveIndex(ctx context.Context, index int) error {
	if err := validateIndex(index); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.indexKey(), index, 0).Err(); err != nil {
		return fmt.Errorf("failed to save index to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveUserID(ctx context.Context, userID string) error {
	if err := s.client.Set(ctx, s.userKey(), userID, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user id to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveVote(ctx context.Context, breedID int, value types.VoteValue) error {
	if err := validateVote(breedID, value); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.votesKey(), strconv.Itoa(breedID), int(value)).Err(); err != nil {
		return fmt.Errorf("failed to save vote to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.indexKey(), s.userKey(), s.votesKey()).Err()
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
