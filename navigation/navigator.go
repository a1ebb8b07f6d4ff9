// Package navigation walks the breed list one card at a time and turns votes
// into local progress plus a remote submission.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dogfinder/dogfinder/gesture"
	"github.com/dogfinder/dogfinder/store"
	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

var (
	ErrNoCurrentBreed   = errors.New("no breed to vote on")
	ErrNoImage          = errors.New("breed has no image to vote on")
	ErrPositionNotSaved = errors.New("vote recorded but position not saved")
)

// VoteSubmitter sends a vote to the remote vote service.
type VoteSubmitter interface {
	SubmitVote(ctx context.Context, payload types.VotePayload) (*types.VoteResponse, error)
}

// VoteResult describes what happened to a single vote. The vote is always
// stored locally when a result is returned; SubmitErr is set when the remote
// submission failed.
type VoteResult struct {
	BreedID   int                 `json:"breedId"`
	BreedName string              `json:"breedName"`
	ImageID   string              `json:"imageId"`
	Value     types.VoteValue     `json:"value"`
	Vote      string              `json:"vote"`
	Response  *types.VoteResponse `json:"response,omitempty"`
	SubmitErr error               `json:"-"`
	Error     string              `json:"error,omitempty"`
	NextIndex int                 `json:"nextIndex"`
}

// Submitted reports whether the remote vote service accepted the vote.
func (r VoteResult) Submitted() bool {
	return r.SubmitErr == nil
}

// Navigator tracks the position within a breed list. It is safe for
// concurrent use.
type Navigator struct {
	mu        sync.Mutex
	breeds    []types.Breed
	index     int
	userID    string
	votes     map[int]types.VoteValue
	store     store.Store
	submitter VoteSubmitter
}

// New restores progress from st. When no user id has been stored yet a new
// one is generated and saved.
func New(ctx context.Context, breeds []types.Breed, st store.Store, submitter VoteSubmitter) (*Navigator, error) {
	state, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	n := &Navigator{
		breeds:    breeds,
		index:     state.CurrentIndex,
		userID:    state.UserID,
		votes:     state.Votes,
		store:     st,
		submitter: submitter,
	}

	if n.userID == "" {
		n.userID = NewUserID()
		if err := st.SaveUserID(ctx, n.userID); err != nil {
			return nil, fmt.Errorf("failed to save user id: %w", err)
		}
		utils.Verbose("Generated user id %s", n.userID)
	}

	utils.Verbose("Restored position %d of %d with %d votes", n.index, len(breeds), len(n.votes))
	return n, nil
}

// NewUserID returns a fresh sub_id for the vote service.
func NewUserID() string {
	return "user_" + uuid.NewString()
}

// Current returns the breed at the current position. It reports false once
// every breed has been seen.
func (n *Navigator) Current() (types.Breed, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current()
}

func (n *Navigator) current() (types.Breed, bool) {
	if n.index < 0 || n.index >= len(n.breeds) {
		return types.Breed{}, false
	}
	return n.breeds[n.index], true
}

func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

func (n *Navigator) Total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.breeds)
}

func (n *Navigator) UserID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.userID
}

func (n *Navigator) HasNext() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index < len(n.breeds)-1
}

func (n *Navigator) HasPrevious() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index > 0
}

// Next advances one breed. It reports false, and stays put, at the end of the
// list.
func (n *Navigator) Next(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.next(ctx)
}

func (n *Navigator) next(ctx context.Context) (bool, error) {
	if n.index >= len(n.breeds)-1 {
		return false, nil
	}
	return true, n.moveTo(ctx, n.index+1)
}

// Previous goes back one breed. It reports false at the start of the list.
func (n *Navigator) Previous(ctx context.Context) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.index <= 0 {
		return false, nil
	}
	return true, n.moveTo(ctx, n.index-1)
}

func (n *Navigator) moveTo(ctx context.Context, index int) error {
	n.index = index
	if err := n.store.SaveIndex(ctx, index); err != nil {
		return fmt.Errorf("failed to save position: %w", err)
	}
	return nil
}

// Vote records value for the current breed, moves on and then submits it.
// The lock is released before the submission so readers never wait on the
// network. The local record is kept even when the submission fails.
//
// When the new position cannot be saved the vote is still recorded and
// submitted; the result is returned together with an error wrapping
// ErrPositionNotSaved.
func (n *Navigator) Vote(ctx context.Context, value types.VoteValue) (*VoteResult, error) {
	if !value.Valid() {
		return nil, fmt.Errorf("invalid vote value %d", int(value))
	}

	result, userID, posErr, err := n.record(ctx, value)
	if err != nil {
		return nil, err
	}

	resp, err := n.submitter.SubmitVote(ctx, types.VotePayload{
		ImageID: result.ImageID,
		Value:   value,
		SubID:   userID,
	})
	if err != nil {
		utils.Warn("Failed to submit %s for %s: %v", value, result.BreedName, err)
		result.SubmitErr = err
		result.Error = err.Error()
	} else {
		result.Response = resp
		utils.Verbose("Submitted %s for %s (vote id %d)", value, result.BreedName, resp.ID)
	}

	if posErr != nil {
		return result, fmt.Errorf("%w: %w", ErrPositionNotSaved, posErr)
	}
	return result, nil
}

// record stores the vote locally and advances under the lock. posErr is a
// failure to persist the new position, which does not undo the vote.
func (n *Navigator) record(ctx context.Context, value types.VoteValue) (result *VoteResult, userID string, posErr, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	breed, ok := n.current()
	if !ok {
		return nil, "", nil, ErrNoCurrentBreed
	}
	imageID := breed.ImageID()
	if imageID == "" {
		return nil, "", nil, fmt.Errorf("%w: %s", ErrNoImage, breed.Name)
	}

	if err := n.store.SaveVote(ctx, breed.ID, value); err != nil {
		return nil, "", nil, fmt.Errorf("failed to save vote: %w", err)
	}
	n.votes[breed.ID] = value

	_, posErr = n.next(ctx)
	return &VoteResult{
		BreedID:   breed.ID,
		BreedName: breed.Name,
		ImageID:   imageID,
		Value:     value,
		Vote:      value.String(),
		NextIndex: n.index,
	}, n.userID, posErr, nil
}

// VoteFor returns the locally recorded vote for a breed.
func (n *Navigator) VoteFor(breedID int) (types.VoteValue, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.votes[breedID]
	return v, ok
}

// Reset forgets all progress and starts over under a new user id.
func (n *Navigator) Reset(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}

	n.index = 0
	n.votes = make(map[int]types.VoteValue)
	n.userID = NewUserID()
	if err := n.store.SaveUserID(ctx, n.userID); err != nil {
		return fmt.Errorf("failed to save user id: %w", err)
	}
	return nil
}

// Handlers returns recognizer options that report the vote for each swipe:
// left dislikes, right likes and up super-likes. Voting itself is left to
// onVote, which runs synchronously inside End.
func Handlers(onVote func(types.VoteValue)) []gesture.Option {
	vote := func(dir gesture.Direction) func() {
		value, _ := VoteForDirection(dir)
		return func() { onVote(value) }
	}
	return []gesture.Option{
		gesture.OnSwipeLeft(vote(gesture.Left)),
		gesture.OnSwipeRight(vote(gesture.Right)),
		gesture.OnSwipeUp(vote(gesture.Up)),
	}
}

// VoteForDirection maps a swipe direction to its vote value.
func VoteForDirection(dir gesture.Direction) (types.VoteValue, bool) {
	switch dir {
	case gesture.Left:
		return types.Dislike, true
	case gesture.Right:
		return types.Like, true
	case gesture.Up:
		return types.SuperLike, true
	}
	return 0, false
}
