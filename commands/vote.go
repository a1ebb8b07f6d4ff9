package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dogfinder/dogfinder/navigation"
	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

// VoteRequest represents the parameters for a vote command
type VoteRequest struct {
	Value string `json:"value"`
}

// VotesRequest represents the parameters for listing votes
type VotesRequest struct {
	// Remote lists votes recorded by the vote service instead of local ones.
	Remote bool `json:"remote"`
}

type LocalVote struct {
	BreedID int    `json:"breedId"`
	Value   int    `json:"value"`
	Vote    string `json:"vote"`
}

// VoteCommand votes on the current breed and advances
func VoteCommand(ctx context.Context, req VoteRequest) *CommandResponse {
	value, err := types.ParseVoteValue(req.Value)
	if err != nil {
		return NewErrorResponse(err)
	}

	nav, err := requireNavigator(ctx)
	if err != nil {
		return NewErrorResponse(err)
	}

	result, err := nav.Vote(ctx, value)
	if err := voteError(result, err); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to vote: %w", err))
	}
	return NewSuccessResponse(result)
}

// ListVotesCommand lists the votes cast so far
func ListVotesCommand(ctx context.Context, req VotesRequest) *CommandResponse {
	a, err := requireApp()
	if err != nil {
		return NewErrorResponse(err)
	}

	state, err := a.Store.Load(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to load votes: %w", err))
	}

	if req.Remote {
		client, err := a.CatalogClient()
		if err != nil {
			return NewErrorResponse(err)
		}
		if state.UserID == "" {
			return NewSuccessResponse(map[string]interface{}{"votes": []types.Vote{}})
		}
		votes, err := client.ListVotes(ctx, state.UserID)
		if err != nil {
			return NewErrorResponse(fmt.Errorf("error fetching votes: %w", err))
		}
		return NewSuccessResponse(map[string]interface{}{
			"userId": state.UserID,
			"votes":  votes,
		})
	}

	votes := make([]LocalVote, 0, len(state.Votes))
	for id, v := range state.Votes {
		votes = append(votes, LocalVote{BreedID: id, Value: int(v), Vote: v.String()})
	}
	slices.SortFunc(votes, func(a, b LocalVote) int { return a.BreedID - b.BreedID })

	return NewSuccessResponse(map[string]interface{}{
		"userId": state.UserID,
		"votes":  votes,
	})
}

// voteError drops errors that leave the vote recorded. A position that could
// not be saved is logged and the vote is reported as cast.
func voteError(result *navigation.VoteResult, err error) error {
	if result != nil && errors.Is(err, navigation.ErrPositionNotSaved) {
		utils.Warn("%v", err)
		return nil
	}
	return err
}
