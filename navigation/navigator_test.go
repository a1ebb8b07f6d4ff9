package navigation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogfinder/dogfinder/gesture"
	"github.com/dogfinder/dogfinder/store"
	"github.com/dogfinder/dogfinder/types"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []types.VotePayload
	err      error
}

func (f *fakeSubmitter) SubmitVote(ctx context.Context, payload types.VotePayload) (*types.VoteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return &types.VoteResponse{Message: "SUCCESS", ID: len(f.payloads), ImageID: payload.ImageID, Value: int(payload.Value)}, nil
}

func testBreeds() []types.Breed {
	return []types.Breed{
		{ID: 1, Name: "Affenpinscher", ReferenceImageID: "img1"},
		{ID: 2, Name: "Afghan Hound", Image: &types.Image{ID: "img2"}},
		{ID: 3, Name: "Akita", ReferenceImageID: "img3"},
	}
}

func newTestNavigator(t *testing.T, breeds []types.Breed) (*Navigator, *store.MemoryStore, *fakeSubmitter) {
	t.Helper()
	st := store.NewMemoryStore()
	sub := &fakeSubmitter{}
	n, err := New(context.Background(), breeds, st, sub)
	require.NoError(t, err)
	return n, st, sub
}

func TestNew_GeneratesAndPersistsUserID(t *testing.T) {
	n, st, _ := newTestNavigator(t, testBreeds())

	assert.True(t, strings.HasPrefix(n.UserID(), "user_"))
	state, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, n.UserID(), state.UserID)
}

func TestNew_RestoresState(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(ctx, &store.State{
		CurrentIndex: 2,
		UserID:       "user_existing",
		Votes:        map[int]types.VoteValue{1: types.Like},
	}))

	n, err := New(ctx, testBreeds(), st, &fakeSubmitter{})
	require.NoError(t, err)

	assert.Equal(t, "user_existing", n.UserID())
	assert.Equal(t, 2, n.Index())
	b, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "Akita", b.Name)

	v, ok := n.VoteFor(1)
	assert.True(t, ok)
	assert.Equal(t, types.Like, v)
}

func TestNew_IndexBeyondListIsKept(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.SaveIndex(ctx, 10))

	n, err := New(ctx, testBreeds(), st, &fakeSubmitter{})
	require.NoError(t, err)

	assert.Equal(t, 10, n.Index())
	_, ok := n.Current()
	assert.False(t, ok)

	_, err = n.Vote(ctx, types.Like)
	assert.ErrorIs(t, err, ErrNoCurrentBreed)
}

func TestNextPrevious(t *testing.T) {
	ctx := context.Background()
	n, st, _ := newTestNavigator(t, testBreeds())

	assert.False(t, n.HasPrevious())
	assert.True(t, n.HasNext())

	moved, err := n.Previous(ctx)
	require.NoError(t, err)
	assert.False(t, moved)

	for i := 1; i <= 2; i++ {
		moved, err = n.Next(ctx)
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, i, n.Index())
	}

	assert.False(t, n.HasNext())
	moved, err = n.Next(ctx)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 2, n.Index())

	moved, err = n.Previous(ctx)
	require.NoError(t, err)
	assert.True(t, moved)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentIndex)
}

func TestVote_StoresSubmitsAndAdvances(t *testing.T) {
	ctx := context.Background()
	n, st, sub := newTestNavigator(t, testBreeds())

	result, err := n.Vote(ctx, types.SuperLike)
	require.NoError(t, err)

	assert.True(t, result.Submitted())
	assert.Equal(t, 1, result.BreedID)
	assert.Equal(t, "img1", result.ImageID)
	assert.Equal(t, "super-like", result.Vote)
	assert.Equal(t, 1, result.NextIndex)
	require.NotNil(t, result.Response)
	assert.Equal(t, "SUCCESS", result.Response.Message)

	require.Len(t, sub.payloads, 1)
	assert.Equal(t, types.VotePayload{ImageID: "img1", Value: types.SuperLike, SubID: n.UserID()}, sub.payloads[0])

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.SuperLike, state.Votes[1])
	assert.Equal(t, 1, state.CurrentIndex)

	// image id falls back to the embedded image
	result, err = n.Vote(ctx, types.Dislike)
	require.NoError(t, err)
	assert.Equal(t, "img2", result.ImageID)
}

func TestVote_SubmitFailureKeepsLocalVote(t *testing.T) {
	ctx := context.Background()
	n, st, sub := newTestNavigator(t, testBreeds())
	sub.err = errors.New("boom")

	result, err := n.Vote(ctx, types.Like)
	require.NoError(t, err)
	assert.False(t, result.Submitted())
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, 1, n.Index())

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Like, state.Votes[1])
}

func TestVote_LastBreedStaysPut(t *testing.T) {
	ctx := context.Background()
	n, _, _ := newTestNavigator(t, testBreeds()[:1])

	result, err := n.Vote(ctx, types.Like)
	require.NoError(t, err)
	assert.Equal(t, 0, result.NextIndex)

	// voting again overwrites the earlier vote
	_, err = n.Vote(ctx, types.Dislike)
	require.NoError(t, err)
	v, _ := n.VoteFor(1)
	assert.Equal(t, types.Dislike, v)
}

func TestVote_Errors(t *testing.T) {
	ctx := context.Background()

	n, _, sub := newTestNavigator(t, nil)
	_, err := n.Vote(ctx, types.Like)
	assert.ErrorIs(t, err, ErrNoCurrentBreed)

	n, st, sub := newTestNavigator(t, []types.Breed{{ID: 9, Name: "Imageless"}})
	_, err = n.Vote(ctx, types.Like)
	assert.ErrorIs(t, err, ErrNoImage)
	assert.Empty(t, sub.payloads)
	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Votes)

	_, err = n.Vote(ctx, types.VoteValue(7))
	assert.ErrorContains(t, err, "invalid vote value")
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	n, st, _ := newTestNavigator(t, testBreeds())
	oldID := n.UserID()

	_, err := n.Vote(ctx, types.Like)
	require.NoError(t, err)
	require.NoError(t, n.Reset(ctx))

	assert.Equal(t, 0, n.Index())
	_, voted := n.VoteFor(1)
	assert.False(t, voted)
	assert.NotEqual(t, oldID, n.UserID())

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Votes)
	assert.Equal(t, n.UserID(), state.UserID)
}

func TestHandlers_MapSwipesToVotes(t *testing.T) {
	var votes []types.VoteValue
	r := gesture.New(Handlers(func(v types.VoteValue) {
		votes = append(votes, v)
	})...)

	assert.Equal(t, gesture.Right, gesture.ReplaySwipe(r, 100, 300, 300, 300))
	assert.Equal(t, gesture.Left, gesture.ReplaySwipe(r, 300, 300, 100, 300))
	assert.Equal(t, gesture.Up, gesture.ReplaySwipe(r, 200, 600, 200, 200))
	assert.Equal(t, gesture.None, gesture.ReplaySwipe(r, 200, 200, 200, 600))

	assert.Equal(t, []types.VoteValue{types.Like, types.Dislike, types.SuperLike}, votes)
}

// blockingSubmitter holds every submission until release is closed.
type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingSubmitter) SubmitVote(ctx context.Context, payload types.VotePayload) (*types.VoteResponse, error) {
	close(b.started)
	<-b.release
	return &types.VoteResponse{Message: "SUCCESS", ImageID: payload.ImageID, Value: int(payload.Value)}, nil
}

func TestVote_ReadersDoNotWaitForSubmission(t *testing.T) {
	ctx := context.Background()
	sub := &blockingSubmitter{started: make(chan struct{}), release: make(chan struct{})}
	n, err := New(ctx, testBreeds(), store.NewMemoryStore(), sub)
	require.NoError(t, err)

	done := make(chan *VoteResult, 1)
	go func() {
		result, err := n.Vote(ctx, types.Like)
		assert.NoError(t, err)
		done <- result
	}()
	<-sub.started

	read := make(chan types.Breed, 1)
	go func() {
		b, _ := n.Current()
		read <- b
	}()

	select {
	case b := <-read:
		// the vote already advanced the position
		assert.Equal(t, "Afghan Hound", b.Name)
	case <-time.After(time.Second):
		t.Fatal("Current blocked while the vote submission was in flight")
	}

	v, ok := n.VoteFor(1)
	assert.True(t, ok)
	assert.Equal(t, types.Like, v)

	close(sub.release)
	result := <-done
	assert.True(t, result.Submitted())
	assert.Equal(t, 1, result.NextIndex)
}

// failingIndexStore accepts everything except position updates.
type failingIndexStore struct {
	*store.MemoryStore
}

func (f failingIndexStore) SaveIndex(ctx context.Context, index int) error {
	return errors.New("disk full")
}

func TestVote_PositionSaveFailureKeepsResult(t *testing.T) {
	ctx := context.Background()
	st := failingIndexStore{store.NewMemoryStore()}
	sub := &fakeSubmitter{}
	n, err := New(ctx, testBreeds(), st, sub)
	require.NoError(t, err)

	result, err := n.Vote(ctx, types.Like)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPositionNotSaved)
	assert.ErrorContains(t, err, "disk full")

	require.NotNil(t, result)
	assert.True(t, result.Submitted())
	assert.Equal(t, 1, result.BreedID)
	assert.Len(t, sub.payloads, 1)

	state, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Like, state.Votes[1])
}

func TestVoteForDirection(t *testing.T) {
	v, ok := VoteForDirection(gesture.Up)
	assert.True(t, ok)
	assert.Equal(t, types.SuperLike, v)

	_, ok = VoteForDirection(gesture.None)
	assert.False(t, ok)
}
