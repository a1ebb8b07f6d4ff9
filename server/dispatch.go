package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dogfinder/dogfinder/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and embedded clients
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"breeds_list": handleBreedsList,
		"breed_get":   handleBreedGet,
		"current":     handleCurrent,
		"nav_next":    handleNavNext,
		"nav_prev":    handleNavPrev,
		"vote":        handleVote,
		"votes_list":  handleVotesList,
		"state_get":   handleStateGet,
		"state_clear": handleStateClear,
		"io_swipe":    handleIoSwipe,
		"io_gesture":  handleIoGesture,
		"doctor":      handleDoctor,
	}
}

// Execute dispatches a method call using the registry
// This is the main entry point for embedded clients
func Execute(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, fmt.Errorf("method not found: %s", method)
	}

	return handler(ctx, params)
}

// result unwraps a command response into a handler result.
func result(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	if response.Data == nil {
		return okResponse, nil
	}
	return response.Data, nil
}

// decodeParams unmarshals params into v. Empty params leave v untouched
// unless required is set.
func decodeParams(params json.RawMessage, v interface{}, required string) error {
	if len(params) == 0 {
		if required != "" {
			return invalidParams(fmt.Errorf("'params' is required with fields: %s", required))
		}
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams(err)
	}
	return nil
}

// requireFields checks that every named field is present in params.
func requireFields(params json.RawMessage, fields ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(params, &raw); err != nil {
		return invalidParams(fmt.Errorf("invalid parameters format"))
	}
	for _, field := range fields {
		if _, exists := raw[field]; !exists {
			return invalidParams(fmt.Errorf("'%s' is required", field))
		}
	}
	return nil
}

func handleBreedsList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.ListBreedsCommand(ctx))
}

func handleBreedGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req commands.BreedRequest
	if err := decodeParams(params, &req, "id"); err != nil {
		return nil, err
	}
	if err := requireFields(params, "id"); err != nil {
		return nil, err
	}
	return result(commands.GetBreedCommand(ctx, req))
}

func handleCurrent(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.CurrentCommand(ctx))
}

func handleNavNext(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.NextCommand(ctx))
}

func handleNavPrev(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.PreviousCommand(ctx))
}

func handleVote(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req commands.VoteRequest
	if err := decodeParams(params, &req, "value"); err != nil {
		return nil, err
	}
	if req.Value == "" {
		return nil, invalidParams(fmt.Errorf("'value' is required"))
	}
	return result(commands.VoteCommand(ctx, req))
}

func handleVotesList(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req commands.VotesRequest
	if err := decodeParams(params, &req, ""); err != nil {
		return nil, err
	}
	return result(commands.ListVotesCommand(ctx, req))
}

func handleStateGet(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.StateCommand(ctx))
}

func handleStateClear(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.ClearStateCommand(ctx))
}

func handleIoSwipe(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req commands.SwipeRequest
	if err := decodeParams(params, &req, "x1, y1, x2, y2"); err != nil {
		return nil, err
	}
	if err := requireFields(params, "x1", "y1", "x2", "y2"); err != nil {
		return nil, err
	}
	return result(commands.SwipeCommand(ctx, req))
}

func handleIoGesture(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req commands.GestureRequest
	if err := decodeParams(params, &req, "actions"); err != nil {
		return nil, err
	}
	return result(commands.GestureCommand(ctx, req))
}

func handleDoctor(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return result(commands.DoctorCommand(ctx, Version))
}
