package commands

import (
	"context"

	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/types"
)

// Position describes where the user is in the breed list.
type Position struct {
	Index       int          `json:"index"`
	Total       int          `json:"total"`
	HasNext     bool         `json:"hasNext"`
	HasPrevious bool         `json:"hasPrevious"`
	Done        bool         `json:"done"`
	Breed       *types.Breed `json:"breed,omitempty"`
	Vote        string       `json:"vote,omitempty"`
	UserID      string       `json:"userId"`
}

func positionOf(nav *navigation.Navigator) Position {
	p := Position{
		Index:       nav.Index(),
		Total:       nav.Total(),
		HasNext:     nav.HasNext(),
		HasPrevious: nav.HasPrevious(),
		UserID:      nav.UserID(),
	}
	breed, ok := nav.Current()
	if !ok {
		p.Done = true
		return p
	}
	p.Breed = &breed
	if v, ok := nav.VoteFor(breed.ID); ok {
		p.Vote = v.String()
	}
	return p
}

// CurrentCommand returns the breed at the current position
func CurrentCommand(ctx context.Context) *CommandResponse {
	nav, err := requireNavigator(ctx)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(positionOf(nav))
}

// NextCommand moves to the next breed, staying put at the end of the list
func NextCommand(ctx context.Context) *CommandResponse {
	nav, err := requireNavigator(ctx)
	if err != nil {
		return NewErrorResponse(err)
	}
	if _, err := nav.Next(ctx); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(positionOf(nav))
}

// PreviousCommand moves to the previous breed, staying put at the start
func PreviousCommand(ctx context.Context) *CommandResponse {
	nav, err := requireNavigator(ctx)
	if err != nil {
		return NewErrorResponse(err)
	}
	if _, err := nav.Previous(ctx); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(positionOf(nav))
}
