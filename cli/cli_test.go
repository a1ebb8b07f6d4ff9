package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/config"
	"github.com/dogfinder/dogfinder/types"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("DOGFINDER_API_KEY", "")

	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.ini")}, args...))
	return Execute(context.Background())
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr string
	}{
		{"valid", "100,200,300,400", []int{100, 200, 300, 400}, ""},
		{"spaces", " 1, 2 ,3,4 ", []int{1, 2, 3, 4}, ""},
		{"negative", "-10,0,-200,5", []int{-10, 0, -200, 5}, ""},
		{"too few", "1,2,3", nil, "Expected 4 comma-separated values"},
		{"not a number", "1,2,x,4", nil, "coordinates must be integers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCoordinates(tt.input, 4)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderPosition(t *testing.T) {
	done := ansi.Strip(renderPosition(commands.Position{Done: true, Total: 3, Index: 3}))
	assert.Contains(t, done, "No more breeds!")

	card := ansi.Strip(renderPosition(commands.Position{
		Index: 1,
		Total: 3,
		Breed: &types.Breed{ID: 2, Name: "Afghan Hound", BreedGroup: "Hound"},
		Vote:  "like",
	}))
	assert.Contains(t, card, "Afghan Hound")
	assert.Contains(t, card, "2 / 3")
	assert.Contains(t, card, "Your vote: like")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"browse"},
		{"breeds", "list"},
		{"breeds", "get"},
		{"current"},
		{"next"},
		{"prev"},
		{"vote"},
		{"votes"},
		{"io", "swipe"},
		{"io", "gesture"},
		{"state", "show"},
		{"state", "clear"},
		{"auth", "set-key"},
		{"auth", "key"},
		{"auth", "remove-key"},
		{"doctor"},
		{"server", "start"},
		{"server", "kill"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestAuthCommandsSkipApp(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, run(t, "auth", "set-key", "abcd1234efgh5678"))
	assert.Nil(t, commands.GetApp())

	key, err := config.KeyringAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "abcd1234efgh5678", key)

	require.NoError(t, run(t, "auth", "remove-key"))
	assert.Error(t, run(t, "auth", "key"))
}

func TestStateShowEphemeral(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, run(t, "--ephemeral", "state", "show"))
	assert.Nil(t, commands.GetApp(), "app is closed after execution")
}

func TestSwipeRejectsBadCoordinates(t *testing.T) {
	keyring.MockInit()
	err := run(t, "--ephemeral", "io", "swipe", "1,2,3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid coordinate format")
}

func TestVoteRejectsUnknownValue(t *testing.T) {
	keyring.MockInit()
	err := run(t, "--ephemeral", "vote", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid vote value")
}

func TestServerStartRefusesBusyAddress(t *testing.T) {
	keyring.MockInit()
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()
	addr := strings.TrimPrefix(busy.URL, "http://")

	err := run(t, "--ephemeral", "server", "start", "--listen", addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in use")
}
