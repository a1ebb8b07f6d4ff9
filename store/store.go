// Package store persists swipe progress: the current position, the local
// user id and the votes cast so far.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dogfinder/dogfinder/types"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// State is everything persisted between runs.
type State struct {
	CurrentIndex int                     `json:"currentIndex"`
	UserID       string                  `json:"userId"`
	Votes        map[int]types.VoteValue `json:"votes"`
}

// NewState returns an empty state with a non-nil vote map.
func NewState() *State {
	return &State{Votes: make(map[int]types.VoteValue)}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{
		CurrentIndex: s.CurrentIndex,
		UserID:       s.UserID,
		Votes:        make(map[int]types.VoteValue, len(s.Votes)),
	}
	for id, v := range s.Votes {
		c.Votes[id] = v
	}
	return c
}

// Store is a key-value style persistence backend. Load returns an empty state,
// not an error, when nothing has been stored yet.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
	SaveIndex(ctx context.Context, index int) error
	SaveUserID(ctx context.Context, userID string) error
	SaveVote(ctx context.Context, breedID int, value types.VoteValue) error
	Clear(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "file":
		return NewFileStore(opts.Path), nil
	case "sqlite":
		s, err := NewSQLiteStore(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "redis":
		s, err := NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, WithPrefix(opts.RedisPrefix))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

func validateVote(breedID int, value types.VoteValue) error {
	if breedID <= 0 {
		return fmt.Errorf("invalid breed id %d", breedID)
	}
	if !value.Valid() {
		return fmt.Errorf("invalid vote value %d", int(value))
	}
	return nil
}

func validateState(state *State) error {
	if err := validateIndex(state.CurrentIndex); err != nil {
		return err
	}
	for breedID, value := range state.Votes {
		if err := validateVote(breedID, value); err != nil {
			return err
		}
	}
	return nil
}

func validateIndex(index int) error {
	if index < 0 {
		return fmt.Errorf("index cannot be negative, got %d", index)
	}
	return nil
}
