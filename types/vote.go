package types

import (
	"fmt"
	"strconv"
	"strings"
)

// VoteValue is the score attached to a vote.
type VoteValue int

const (
	Dislike   VoteValue = -1
	Like      VoteValue = 1
	SuperLike VoteValue = 2
)

// Valid reports whether v is one of the values the vote endpoint accepts.
func (v VoteValue) Valid() bool {
	switch v {
	case Dislike, Like, SuperLike:
		return true
	}
	return false
}

func (v VoteValue) String() string {
	switch v {
	case Dislike:
		return "dislike"
	case Like:
		return "like"
	case SuperLike:
		return "super-like"
	}
	return fmt.Sprintf("VoteValue(%d)", int(v))
}

// ParseVoteValue accepts a vote name ("like", "dislike", "superlike",
// "super-like", "nope") or its numeric value.
func ParseVoteValue(s string) (VoteValue, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like", "yes":
		return Like, nil
	case "dislike", "nope", "no":
		return Dislike, nil
	case "superlike", "super-like", "super_like", "super":
		return SuperLike, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid vote value %q, expected one of: like, dislike, superlike", s)
	}

	v := VoteValue(n)
	if !v.Valid() {
		return 0, fmt.Errorf("invalid vote value %d, expected -1, 1 or 2", n)
	}
	return v, nil
}

// VotePayload is the body of a vote submission.
type VotePayload struct {
	ImageID string    `json:"image_id"`
	Value   VoteValue `json:"value"`
	SubID   string    `json:"sub_id,omitempty"`
}

// Validate checks the payload before it is sent.
func (p VotePayload) Validate() error {
	if p.ImageID == "" {
		return fmt.Errorf("image_id is required")
	}
	if !p.Value.Valid() {
		return fmt.Errorf("invalid vote value %d", int(p.Value))
	}
	return nil
}

// VoteResponse is the confirmation returned for a submitted vote.
type VoteResponse struct {
	Message     string `json:"message"`
	ID          int    `json:"id"`
	ImageID     string `json:"image_id"`
	Value       int    `json:"value"`
	CountryCode string `json:"country_code"`
}

// Vote is a previously submitted vote as listed by the catalog.
type Vote struct {
	ID          int    `json:"id"`
	ImageID     string `json:"image_id"`
	SubID       string `json:"sub_id"`
	CreatedAt   string `json:"created_at"`
	Value       int    `json:"value"`
	CountryCode string `json:"country_code"`
}
