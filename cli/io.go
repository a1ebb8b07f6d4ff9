package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dogfinder/dogfinder/commands"
	"github.com/dogfinder/dogfinder/types"
)

var ioCmd = &cobra.Command{
	Use:   "io",
	Short: "Gesture input operations",
	Long:  `Replay swipes and pointer gestures through the gesture recognizer and vote on the current breed.`,
}

var ioSwipeCmd = &cobra.Command{
	Use:   "swipe [x1,y1,x2,y2]",
	Short: "Swipe the current card from one point to another",
	Long: `Replays a drag from (x1,y1) to (x2,y2). Coordinates should be provided as a single string "x1,y1,x2,y2".
A left swipe votes dislike, right votes like and up votes super like. Shorter drags vote nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		coords, err := parseCoordinates(args[0], 4)
		if err != nil {
			return respond(commands.NewErrorResponse(err))
		}

		req := commands.SwipeRequest{
			X1:        coords[0],
			Y1:        coords[1],
			X2:        coords[2],
			Y2:        coords[3],
			Threshold: threshold,
			DryRun:    dryRun,
		}

		return respond(commands.SwipeCommand(cmd.Context(), req))
	},
}

var ioGestureCmd = &cobra.Command{
	Use:   "gesture [actions-json]",
	Short: "Replay pointer actions through the gesture recognizer",
	Long: `Replays a JSON array of pointer actions and votes on the last completed gesture. Example:
[{"type":"pointerMove","x":200,"y":300},{"type":"pointerDown"},{"type":"pointerMove","x":80,"y":310},{"type":"pointerUp"}]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var actions []types.TapAction
		if err := json.Unmarshal([]byte(args[0]), &actions); err != nil {
			return respond(commands.NewErrorResponse(fmt.Errorf("invalid actions json: %w", err)))
		}

		req := commands.GestureRequest{
			Actions:   actions,
			Threshold: threshold,
			DryRun:    dryRun,
		}

		return respond(commands.GestureCommand(cmd.Context(), req))
	},
}

// parseCoordinates splits "a,b,..." into exactly n integers.
func parseCoordinates(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("invalid coordinate format. Expected %d comma-separated values, got '%s'", n, s)
	}

	coords := make([]int, 0, n)
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate value '%s', coordinates must be integers", part)
		}
		coords = append(coords, v)
	}
	return coords, nil
}

func init() {
	rootCmd.AddCommand(ioCmd)

	ioCmd.AddCommand(ioSwipeCmd)
	ioCmd.AddCommand(ioGestureCmd)

	ioCmd.PersistentFlags().Float64Var(&threshold, "threshold", 0, "swipe threshold (default from config)")
	ioCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "classify the gesture without voting")
}
