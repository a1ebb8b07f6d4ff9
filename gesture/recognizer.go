// Package gesture turns press/move/release pointer input into swipe directions.
//
// A Recognizer holds exactly one drag session. It is a synchronous reducer:
// every call sequence, including out-of-order ones, resolves to a defined
// outcome and nothing here returns an error. A Recognizer is not safe for
// concurrent use; each swipeable surface owns its own instance.
package gesture

import "math"

// DefaultThreshold is the minimum dominant-axis displacement, in input units,
// for a drag to count as a swipe.
const DefaultThreshold = 50.0

// Direction is the classification of a completed gesture.
type Direction int

const (
	None Direction = iota
	Left
	Right
	Up
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	}
	return "none"
}

// Pointer is a pointer or touch position.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Session is the in-progress drag. Offsets are relative to the origin
// captured at Start and are zero whenever the session is inactive.
type Session struct {
	Active  bool    `json:"active"`
	OriginX float64 `json:"originX"`
	OriginY float64 `json:"originY"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Config configures a Recognizer. Nil callbacks discard that direction.
type Config struct {
	OnSwipeLeft  func()
	OnSwipeRight func()
	OnSwipeUp    func()
	Threshold    float64
}

// Option mutates a Config.
type Option func(*Config)

// WithThreshold overrides DefaultThreshold. Non-positive values are ignored.
func WithThreshold(threshold float64) Option {
	return func(c *Config) {
		if threshold > 0 {
			c.Threshold = threshold
		}
	}
}

// OnSwipeLeft sets the callback fired for a left swipe.
func OnSwipeLeft(fn func()) Option {
	return func(c *Config) { c.OnSwipeLeft = fn }
}

// OnSwipeRight sets the callback fired for a right swipe.
func OnSwipeRight(fn func()) Option {
	return func(c *Config) { c.OnSwipeRight = fn }
}

// OnSwipeUp sets the callback fired for an upward swipe.
func OnSwipeUp(fn func()) Option {
	return func(c *Config) { c.OnSwipeUp = fn }
}

// Recognizer classifies one drag at a time.
type Recognizer struct {
	cfg     Config
	session Session
}

// New creates a Recognizer with DefaultThreshold and no callbacks, then
// applies opts.
func New(opts ...Option) *Recognizer {
	cfg := Config{Threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Recognizer from a complete Config. A non-positive
// threshold falls back to DefaultThreshold.
func NewWithConfig(cfg Config) *Recognizer {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &Recognizer{cfg: cfg}
}

// Threshold returns the configured threshold.
func (r *Recognizer) Threshold() float64 {
	return r.cfg.Threshold
}

// Session returns a snapshot of the current drag.
func (r *Recognizer) Session() Session {
	return r.session
}

// Active reports whether a drag is in progress.
func (r *Recognizer) Active() bool {
	return r.session.Active
}

// Start begins a new session at (x, y). Any session already in flight is
// discarded without being classified.
func (r *Recognizer) Start(x, y float64) {
	r.session = Session{
		Active:  true,
		OriginX: x,
		OriginY: y,
	}
}

// Move updates the live offset. It reports false and changes nothing when no
// session is active.
func (r *Recognizer) Move(x, y float64) bool {
	if !r.session.Active {
		return false
	}
	r.session.OffsetX = x - r.session.OriginX
	r.session.OffsetY = y - r.session.OriginY
	return true
}

// End classifies the session, resets it and fires at most one callback.
// Without an active session it does nothing and returns None.
func (r *Recognizer) End() Direction {
	if !r.session.Active {
		return None
	}

	dir := Classify(r.session.OffsetX, r.session.OffsetY, r.cfg.Threshold)

	// reset before the callback so a handler may start a new session
	r.session = Session{}

	if fn := r.callback(dir); fn != nil {
		fn()
	}
	return dir
}

// Cancel handles pointer-leave, which completes the gesture exactly like a
// release.
func (r *Recognizer) Cancel() Direction {
	return r.End()
}

// Preview classifies the live offset without ending the session.
func (r *Recognizer) Preview() Direction {
	if !r.session.Active {
		return None
	}
	return Classify(r.session.OffsetX, r.session.OffsetY, r.cfg.Threshold)
}

func (r *Recognizer) callback(dir Direction) func() {
	switch dir {
	case Left:
		return r.cfg.OnSwipeLeft
	case Right:
		return r.cfg.OnSwipeRight
	case Up:
		return r.cfg.OnSwipeUp
	}
	return nil
}

// Classify decides the direction of a drag that ended at (offsetX, offsetY).
// The horizontal branch wins only when it is strictly dominant; ties go to
// the vertical branch. There is no downward swipe.
func Classify(offsetX, offsetY, threshold float64) Direction {
	if math.Abs(offsetX) > math.Abs(offsetY) {
		switch {
		case offsetX > threshold:
			return Right
		case offsetX < -threshold:
			return Left
		}
		return None
	}

	if offsetY < -threshold {
		return Up
	}
	return None
}
