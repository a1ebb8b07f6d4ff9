package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/store"
	"github.com/dogfinder/dogfinder/types"
)

var testBreeds = []types.Breed{
	{ID: 1, Name: "Affenpinscher", BreedGroup: "Toy", ReferenceImageID: "img1"},
	{ID: 2, Name: "Afghan Hound", BreedGroup: "Hound", ReferenceImageID: "img2"},
	{ID: 3, Name: "Akita", ReferenceImageID: "img3"},
}

type fakeCatalog struct {
	server *httptest.Server

	mu    sync.Mutex
	votes []types.VotePayload
	fail  bool
}

func (f *fakeCatalog) submitted() []types.VotePayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.VotePayload(nil), f.votes...)
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	f := &fakeCatalog{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /breeds", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(testBreeds)
	})
	mux.HandleFunc("GET /breeds/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, b := range testBreeds {
			if r.PathValue("id") == jsonInt(b.ID) {
				_ = json.NewEncoder(w).Encode(b)
				return
			}
		}
		http.Error(w, "NOT_FOUND", http.StatusNotFound)
	})
	mux.HandleFunc("GET /images/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		_ = json.NewEncoder(w).Encode(types.Image{ID: id, Width: 640, Height: 480, URL: "https://cdn2.thedogapi.com/images/" + id + ".jpg"})
	})
	mux.HandleFunc("POST /votes", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			http.Error(w, "SERVER_ERROR", http.StatusInternalServerError)
			return
		}
		var p types.VotePayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.votes = append(f.votes, p)
		_ = json.NewEncoder(w).Encode(types.VoteResponse{Message: "SUCCESS", ID: len(f.votes), ImageID: p.ImageID, Value: int(p.Value)})
	})
	mux.HandleFunc("GET /votes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.Vote{{ID: 7, ImageID: "img1", SubID: r.URL.Query().Get("sub_id"), Value: 1}})
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func setupApp(t *testing.T) *fakeCatalog {
	t.Helper()
	keyring.MockInit()

	f := newFakeCatalog(t)
	cfg := config.Default()
	cfg.API.BaseURL = f.server.URL
	cfg.API.Key = "test-key"

	a, err := NewApp(context.Background(), cfg, AppOptions{Ephemeral: true})
	require.NoError(t, err)
	SetApp(a)
	t.Cleanup(func() {
		_ = a.Close()
		SetApp(nil)
	})
	return f
}

// decode round-trips a response's data into out.
func decode(t *testing.T, resp *CommandResponse, out interface{}) {
	t.Helper()
	require.Equal(t, "ok", resp.Status, resp.Error)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestResponses(t *testing.T) {
	ok := NewSuccessResponse(map[string]int{"a": 1})
	assert.Equal(t, "ok", ok.Status)
	assert.Empty(t, ok.Error)

	bad := NewErrorResponse(assert.AnError)
	assert.Equal(t, "error", bad.Status)
	assert.Equal(t, assert.AnError.Error(), bad.Error)
	assert.Nil(t, bad.Data)
}

func TestCommandsWithoutApp(t *testing.T) {
	SetApp(nil)
	ctx := context.Background()

	for name, resp := range map[string]*CommandResponse{
		"breeds":  ListBreedsCommand(ctx),
		"current": CurrentCommand(ctx),
		"vote":    VoteCommand(ctx, VoteRequest{Value: "like"}),
		"state":   StateCommand(ctx),
	} {
		assert.Equal(t, "error", resp.Status, name)
		assert.Equal(t, ErrNotInitialized.Error(), resp.Error, name)
	}
}

func TestListBreedsCommand(t *testing.T) {
	setupApp(t)

	var out struct {
		Breeds []BreedSummary `json:"breeds"`
		Total  int            `json:"total"`
	}
	decode(t, ListBreedsCommand(context.Background()), &out)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, "Afghan Hound", out.Breeds[1].Name)
	assert.Equal(t, "https://cdn2.thedogapi.com/images/img2.jpg", out.Breeds[1].ImageURL)
}

func TestGetBreedCommand(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	var breed types.Breed
	decode(t, GetBreedCommand(ctx, BreedRequest{ID: 3}), &breed)
	assert.Equal(t, "Akita", breed.Name)
	require.NotNil(t, breed.Image)
	assert.Equal(t, "img3", breed.Image.ID)
	assert.Equal(t, 640, breed.Image.Width)

	resp := GetBreedCommand(ctx, BreedRequest{ID: 99})
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "404")

	resp = GetBreedCommand(ctx, BreedRequest{})
	assert.Contains(t, resp.Error, "must be positive")
}

func TestNavigationCommands(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	var pos Position
	decode(t, CurrentCommand(ctx), &pos)
	assert.Equal(t, 0, pos.Index)
	assert.Equal(t, 3, pos.Total)
	assert.True(t, pos.HasNext)
	assert.False(t, pos.HasPrevious)
	assert.Equal(t, "Affenpinscher", pos.Breed.Name)
	assert.True(t, strings.HasPrefix(pos.UserID, "user_"))

	decode(t, NextCommand(ctx), &pos)
	assert.Equal(t, 1, pos.Index)
	decode(t, NextCommand(ctx), &pos)
	decode(t, NextCommand(ctx), &pos)
	assert.Equal(t, 2, pos.Index)
	assert.False(t, pos.HasNext)

	decode(t, PreviousCommand(ctx), &pos)
	assert.Equal(t, 1, pos.Index)
}

func TestVoteCommand(t *testing.T) {
	f := setupApp(t)
	ctx := context.Background()

	var result navigation.VoteResult
	decode(t, VoteCommand(ctx, VoteRequest{Value: "superlike"}), &result)
	assert.Equal(t, "super-like", result.Vote)
	assert.Equal(t, 1, result.NextIndex)
	assert.Empty(t, result.Error)

	votes := f.submitted()
	require.Len(t, votes, 1)
	assert.Equal(t, types.SuperLike, votes[0].Value)
	assert.Equal(t, "img1", votes[0].ImageID)

	var pos Position
	decode(t, CurrentCommand(ctx), &pos)
	assert.Equal(t, "Afghan Hound", pos.Breed.Name)

	resp := VoteCommand(ctx, VoteRequest{Value: "meh"})
	assert.Equal(t, "error", resp.Status)
}

func TestVoteCommand_SubmitFailureStillAdvances(t *testing.T) {
	f := setupApp(t)
	f.mu.Lock()
	f.fail = true
	f.mu.Unlock()
	ctx := context.Background()

	var result navigation.VoteResult
	decode(t, VoteCommand(ctx, VoteRequest{Value: "nope"}), &result)
	assert.Contains(t, result.Error, "500")
	assert.Equal(t, 1, result.NextIndex)

	var out struct {
		Votes []LocalVote `json:"votes"`
	}
	decode(t, ListVotesCommand(ctx, VotesRequest{}), &out)
	require.Len(t, out.Votes, 1)
	assert.Equal(t, LocalVote{BreedID: 1, Value: -1, Vote: "dislike"}, out.Votes[0])
}

func TestListVotesCommand_Remote(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	var pos Position
	decode(t, CurrentCommand(ctx), &pos)

	var out struct {
		UserID string       `json:"userId"`
		Votes  []types.Vote `json:"votes"`
	}
	decode(t, ListVotesCommand(ctx, VotesRequest{Remote: true}), &out)
	assert.Equal(t, pos.UserID, out.UserID)
	require.Len(t, out.Votes, 1)
	assert.Equal(t, pos.UserID, out.Votes[0].SubID)
}

func TestSwipeCommand(t *testing.T) {
	f := setupApp(t)
	ctx := context.Background()

	var right GestureResult
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 100, Y1: 400, X2: 300, Y2: 420}), &right)
	assert.Equal(t, "right", right.Direction)
	require.NotNil(t, right.Vote)
	assert.Equal(t, "like", right.Vote.Vote)

	var down GestureResult
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 100, Y1: 100, X2: 100, Y2: 400}), &down)
	assert.Equal(t, "none", down.Direction)
	assert.Nil(t, down.Vote)

	var dryRun GestureResult
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 300, Y1: 100, X2: 100, Y2: 100, DryRun: true}), &dryRun)
	assert.Equal(t, "left", dryRun.Direction)
	assert.Nil(t, dryRun.Vote)

	assert.Len(t, f.submitted(), 1)

	// offsets are relative, so coordinates left of or above the origin count too
	var negative GestureResult
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: -20, Y1: -20, X2: -200, Y2: -30, DryRun: true}), &negative)
	assert.Equal(t, "left", negative.Direction)
	assert.Nil(t, negative.Vote)
}

func TestSwipeCommand_Threshold(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	var result GestureResult
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 100, Y1: 100, X2: 140, Y2: 100, DryRun: true}), &result)
	assert.Equal(t, "none", result.Direction)

	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 100, Y1: 100, X2: 140, Y2: 100, Threshold: 30, DryRun: true}), &result)
	assert.Equal(t, "right", result.Direction)

	GetApp().Config.Gesture.Threshold = 10
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 100, Y1: 100, X2: 100, Y2: 80, DryRun: true}), &result)
	assert.Equal(t, "up", result.Direction)

	resp := SwipeCommand(ctx, SwipeRequest{Threshold: -5})
	assert.Contains(t, resp.Error, "threshold")
}

func TestGestureCommand(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	var result GestureResult
	decode(t, GestureCommand(ctx, GestureRequest{
		Actions: []types.TapAction{
			{Type: types.ActionPointerMove, X: 200, Y: 600},
			{Type: types.ActionPointerDown},
			{Type: types.ActionPointerMove, X: 210, Y: 300},
			{Type: types.ActionPointerUp},
		},
	}), &result)
	assert.Equal(t, "up", result.Direction)
	require.NotNil(t, result.Vote)
	assert.Equal(t, "super-like", result.Vote.Vote)

	resp := GestureCommand(ctx, GestureRequest{})
	assert.Equal(t, "error", resp.Status)
}

func TestStateCommands(t *testing.T) {
	setupApp(t)
	ctx := context.Background()

	decode(t, VoteCommand(ctx, VoteRequest{Value: "like"}), &navigation.VoteResult{})

	var state struct {
		Backend      string `json:"backend"`
		CurrentIndex int    `json:"currentIndex"`
		UserID       string `json:"userId"`
		Votes        int    `json:"votes"`
	}
	decode(t, StateCommand(ctx), &state)
	assert.Equal(t, "memory", state.Backend)
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Equal(t, 1, state.Votes)
	oldUser := state.UserID

	require.Equal(t, "ok", ClearStateCommand(ctx).Status)
	decode(t, StateCommand(ctx), &state)
	assert.Zero(t, state.CurrentIndex)
	assert.Zero(t, state.Votes)

	var pos Position
	decode(t, CurrentCommand(ctx), &pos)
	assert.Equal(t, 0, pos.Index)
	assert.NotEqual(t, oldUser, pos.UserID)
}

func TestAuthCommands(t *testing.T) {
	keyring.MockInit()

	assert.Equal(t, "error", APIKeyCommand(false).Status)
	assert.Equal(t, "error", SetAPIKeyCommand("  ").Status)

	resp := SetAPIKeyCommand("live_abcdefghijkl")
	require.Equal(t, "ok", resp.Status)

	var out struct {
		Key string `json:"key"`
	}
	decode(t, APIKeyCommand(false), &out)
	assert.Equal(t, "live*********ijkl", out.Key)
	decode(t, APIKeyCommand(true), &out)
	assert.Equal(t, "live_abcdefghijkl", out.Key)

	assert.Equal(t, "ok", RemoveAPIKeyCommand().Status)
	assert.Equal(t, "error", RemoveAPIKeyCommand().Status)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "****", MaskKey("abcd"))
	assert.Equal(t, "abcd*ghij", MaskKey("abcdeghij"))
}

func TestDoctorCommand(t *testing.T) {
	setupApp(t)
	t.Setenv("DOGFINDER_HOME", t.TempDir())

	var info DoctorInfo
	decode(t, DoctorCommand(context.Background(), "test"), &info)
	assert.Equal(t, "test", info.DogfinderVersion)
	assert.Equal(t, "memory", info.StoreBackend)
	assert.True(t, info.StoreReachable)
	assert.True(t, info.CatalogReachable)
	assert.Equal(t, 3, info.CatalogBreeds)
	assert.Equal(t, "config", info.APIKeySource)
	assert.Equal(t, 50.0, info.GestureThreshold)
	assert.Equal(t, config.DefaultListen, info.ServerListen)
}

func TestDoctorCommand_ReportsBusyListenAddr(t *testing.T) {
	setupApp(t)
	t.Setenv("DOGFINDER_HOME", t.TempDir())

	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()
	GetApp().Config.Server.Listen = strings.TrimPrefix(busy.URL, "http://")

	var info DoctorInfo
	decode(t, DoctorCommand(context.Background(), "test"), &info)
	assert.False(t, info.ServerListenFree)
}

func TestCommandsRequireAPIKey(t *testing.T) {
	setupApp(t)
	ctx := context.Background()
	a := GetApp()
	a.Config.API.Key = ""

	_, err := a.Navigator(ctx)
	assert.ErrorIs(t, err, config.ErrNoAPIKey)

	_, err = GetBreed(ctx, 1)
	assert.ErrorIs(t, err, config.ErrNoAPIKey)

	for name, resp := range map[string]*CommandResponse{
		"breeds":  ListBreedsCommand(ctx),
		"current": CurrentCommand(ctx),
		"vote":    VoteCommand(ctx, VoteRequest{Value: "like"}),
		"remote":  ListVotesCommand(ctx, VotesRequest{Remote: true}),
	} {
		assert.Equal(t, "error", resp.Status, name)
		assert.Contains(t, resp.Error, config.ErrNoAPIKey.Error(), name)
	}

	var info DoctorInfo
	decode(t, DoctorCommand(ctx, "test"), &info)
	assert.False(t, info.CatalogReachable)
	assert.Equal(t, config.ErrNoAPIKey.Error(), info.CatalogError)
}

// failingIndexStore keeps votes but cannot save the position.
type failingIndexStore struct {
	*store.MemoryStore
}

func (f failingIndexStore) SaveIndex(ctx context.Context, index int) error {
	return errors.New("disk full")
}

func TestVoteCommand_PositionNotSavedStillReportsVote(t *testing.T) {
	f := setupApp(t)
	ctx := context.Background()
	GetApp().Store = failingIndexStore{store.NewMemoryStore()}

	var result navigation.VoteResult
	decode(t, VoteCommand(ctx, VoteRequest{Value: "like"}), &result)
	assert.Equal(t, 1, result.BreedID)
	assert.Equal(t, "like", result.Vote)
	assert.Len(t, f.submitted(), 1)

	var swipe GestureResult
	decode(t, SwipeCommand(ctx, SwipeRequest{X1: 100, Y1: 100, X2: 300, Y2: 100}), &swipe)
	require.NotNil(t, swipe.Vote)
	assert.Equal(t, 2, swipe.Vote.BreedID)
}
