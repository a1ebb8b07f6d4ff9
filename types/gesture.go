package types

// Pointer action types understood by gesture replay.
const (
	ActionPointerDown   = "pointerDown"
	ActionPointerMove   = "pointerMove"
	ActionPointerUp     = "pointerUp"
	ActionPointerCancel = "pointerCancel"
	ActionPause         = "pause"
)

// TapAction represents a single action in a gesture sequence (press/move/release).
type TapAction struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Button   int    `json:"button"`
}

// SwipeActions builds the action sequence for a straight drag from (x1,y1)
// to (x2,y2). pointerDown carries no coordinates, it presses wherever the
// preceding pointerMove left the pointer.
func SwipeActions(x1, y1, x2, y2 int) []TapAction {
	return []TapAction{
		{Type: ActionPointerMove, Duration: 0, X: x1, Y: y1},
		{Type: ActionPointerDown, Button: 0},
		{Type: ActionPointerMove, Duration: 1000, X: x2, Y: y2},
		{Type: ActionPointerUp, Button: 0},
	}
}
