package commands

import (
	"context"
	"fmt"

	"github.com/dogfinder/dogfinder/gesture"
	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/types"
)

// SwipeRequest represents the parameters for a swipe command
type SwipeRequest struct {
	X1        int     `json:"x1"`
	Y1        int     `json:"y1"`
	X2        int     `json:"x2"`
	Y2        int     `json:"y2"`
	Threshold float64 `json:"threshold,omitempty"`
	// DryRun classifies the swipe without voting.
	DryRun bool `json:"dryRun,omitempty"`
}

// GestureRequest represents the parameters for a gesture command
type GestureRequest struct {
	Actions   []types.TapAction `json:"actions"`
	Threshold float64           `json:"threshold,omitempty"`
	DryRun    bool              `json:"dryRun,omitempty"`
}

// GestureResult is the outcome of a replayed gesture
type GestureResult struct {
	Direction string                 `json:"direction"`
	Vote      *navigation.VoteResult `json:"vote,omitempty"`
}

// SwipeCommand replays a straight drag through the recognizer and votes on
// the current breed when it classifies as a swipe
func SwipeCommand(ctx context.Context, req SwipeRequest) *CommandResponse {
	return replay(ctx, types.SwipeActions(req.X1, req.Y1, req.X2, req.Y2), req.Threshold, req.DryRun)
}

// GestureCommand replays pointer actions through the recognizer and votes on
// the last completed gesture
func GestureCommand(ctx context.Context, req GestureRequest) *CommandResponse {
	if len(req.Actions) == 0 {
		return NewErrorResponse(fmt.Errorf("actions array is required and must not be empty"))
	}

	return replay(ctx, req.Actions, req.Threshold, req.DryRun)
}

func replay(ctx context.Context, actions []types.TapAction, threshold float64, dryRun bool) *CommandResponse {
	threshold, err := ResolveThreshold(threshold)
	if err != nil {
		return NewErrorResponse(err)
	}

	dir := gesture.Replay(gesture.New(gesture.WithThreshold(threshold)), actions)
	return DirectionCommand(ctx, dir, dryRun)
}

// DirectionCommand votes on the current breed for a completed gesture. None
// and dry runs report the direction without voting.
func DirectionCommand(ctx context.Context, dir gesture.Direction, dryRun bool) *CommandResponse {
	result := &GestureResult{Direction: dir.String()}

	value, ok := navigation.VoteForDirection(dir)
	if dryRun || !ok {
		return NewSuccessResponse(result)
	}

	nav, err := requireNavigator(ctx)
	if err != nil {
		return NewErrorResponse(err)
	}

	vote, err := nav.Vote(ctx, value)
	if err := voteError(vote, err); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to vote on %s swipe: %w", dir, err))
	}
	result.Vote = vote
	return NewSuccessResponse(result)
}

// ResolveThreshold falls back to the configured threshold, then the default.
func ResolveThreshold(threshold float64) (float64, error) {
	if threshold < 0 {
		return 0, fmt.Errorf("threshold must be positive, got %v", threshold)
	}
	if threshold > 0 {
		return threshold, nil
	}
	if app != nil && app.Config != nil && app.Config.Gesture.Threshold > 0 {
		return app.Config.Gesture.Threshold, nil
	}
	return gesture.DefaultThreshold, nil
}
