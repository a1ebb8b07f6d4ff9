package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

const defaultStateFile = "state.json"

// FileStore keeps the state as a single JSON document.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore stores state at path. An empty path means state.json in the
// data directory, falling back to the working directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		dir, err := utils.DataDir()
		if err != nil {
			utils.Warn("Using working directory for state: %v", err)
			dir = "."
		}
		path = filepath.Join(dir, defaultStateFile)
	}
	return &FileStore{path: path}
}

// Path returns the state file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(ctx context.Context) (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *FileStore) load() (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	state := NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if state.Votes == nil {
		state.Votes = make(map[int]types.VoteValue)
	}
	return state, nil
}

func (f *FileStore) write(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := utils.WriteFileAtomic(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func (f *FileStore) update(fn func(s *State)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	fn(state)
	return f.write(state)
}

func (f *FileStore) Save(ctx context.Context, state *State) error {
	if err := validateState(state); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(state.Clone())
}

func (f *FileStore) SaveIndex(ctx context.Context, index int) error {
	if err := validateIndex(index); err != nil {
		return err
	}
	return f.update(func(s *State) { s.CurrentIndex = index })
}

func (f *FileStore) SaveUserID(ctx context.Context, userID string) error {
	return f.update(func(s *State) { s.UserID = userID })
}

func (f *FileStore) SaveVote(ctx context.Context, breedID int, value types.VoteValue) error {
	if err := validateVote(breedID, value); err != nil {
		return err
	}
	return f.update(func(s *State) { s.Votes[breedID] = value })
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}
