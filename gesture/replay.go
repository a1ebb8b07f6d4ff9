package gesture

import "github.com/dogfinder/dogfinder/types"

// Replay feeds a pointer action sequence into r and returns the direction of
// the last gesture it completed. pointerMove positions the pointer and drags
// it when pressed, pointerDown presses at the current position, pointerUp
// releases and pointerCancel is treated as a release. Unknown action types
// and pauses are skipped. A sequence that never releases leaves the session
// active and yields None.
func Replay(r *Recognizer, actions []types.TapAction) Direction {
	var pos Pointer
	result := None

	for _, action := range actions {
		switch action.Type {
		case types.ActionPointerMove:
			pos = Pointer{X: float64(action.X), Y: float64(action.Y)}
			r.Move(pos.X, pos.Y)
		case types.ActionPointerDown:
			r.Start(pos.X, pos.Y)
		case types.ActionPointerUp:
			if r.Active() {
				result = r.End()
			}
		case types.ActionPointerCancel:
			if r.Active() {
				result = r.Cancel()
			}
		}
	}

	return result
}

// ReplaySwipe runs a straight drag from (x1,y1) to (x2,y2) through r.
func ReplaySwipe(r *Recognizer, x1, y1, x2, y2 int) Direction {
	return Replay(r, types.SwipeActions(x1, y1, x2, y2))
}
