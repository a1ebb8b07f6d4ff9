package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dogfinder/dogfinder/types"
)

// SubmitVote records a vote for an image.
func (c *Client) SubmitVote(ctx context.Context, payload types.VotePayload) (*types.VoteResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vote: %w", err)
	}

	var resp types.VoteResponse
	if err := c.post(ctx, "submit vote", "votes", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListVotes returns the votes cast by subID, or every vote for the API key when subID is empty.
func (c *Client) ListVotes(ctx context.Context, subID string) ([]types.Vote, error) {
	endpoint := "votes"
	if subID != "" {
		endpoint += "?sub_id=" + url.QueryEscape(subID)
	}

	var votes []types.Vote
	if err := c.get(ctx, "fetch votes", endpoint, &votes); err != nil {
		return nil, err
	}
	return votes, nil
}
