package commands

import (
	"context"
	"fmt"
)

// StateCommand returns the persisted progress
func StateCommand(ctx context.Context) *CommandResponse {
	a, err := requireApp()
	if err != nil {
		return NewErrorResponse(err)
	}

	state, err := a.Store.Load(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to load state: %w", err))
	}
	return NewSuccessResponse(map[string]interface{}{
		"backend":      a.Backend,
		"currentIndex": state.CurrentIndex,
		"userId":       state.UserID,
		"votes":        len(state.Votes),
	})
}

// ClearStateCommand forgets progress, votes and the user id
func ClearStateCommand(ctx context.Context) *CommandResponse {
	a, err := requireApp()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := a.ClearProgress(ctx); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to clear state: %w", err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": "Progress cleared",
	})
}
