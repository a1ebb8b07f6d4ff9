package store

import (
	"context"
	"sync"

	"github.com/dogfinder/dogfinder/types"
)

// MemoryStore keeps state in process. It backs --ephemeral runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: NewState()}
}

func (m *MemoryStore) Load(ctx context.Context) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, state *State) error {
	if err := validateState(state); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	return nil
}

func (m *MemoryStore) SaveIndex(ctx context.Context, index int) error {
	if err := validateIndex(index); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.CurrentIndex = index
	return nil
}

func (m *MemoryStore) SaveUserID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.UserID = userID
	return nil
}

func (m *MemoryStore) SaveVote(ctx context.Context, breedID int, value types.VoteValue) error {
	if err := validateVote(breedID, value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Votes[breedID] = value
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = NewState()
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
