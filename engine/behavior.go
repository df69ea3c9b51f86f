package engine

// Behavior selects what happens when an animation finishes playing its span.
type Behavior int

const (
	// PlayForward plays the span once and stops at the end.
	PlayForward Behavior = iota
	// PlayBackward plays the span once in reverse and stops.
	PlayBackward
	// PlayForwardAndReset plays forward, then snaps back to the start of
	// the span in the same tick.
	PlayForwardAndReset
	// PlayBackwardAndReset plays backward, then snaps back to the end of
	// the span in the same tick.
	PlayBackwardAndReset
	// PlayForwardAndReverse plays forward, then hands control back to the
	// choreography layer for a re-staggered reverse phase.
	PlayForwardAndReverse
	// PlayBackwardAndReverse plays backward, then hands control back for a
	// re-staggered forward phase.
	PlayBackwardAndReverse
)

// String names the behavior for logs.
func (b Behavior) String() string {
	switch b {
	case PlayForward:
		return "playForward"
	case PlayBackward:
		return "playBackward"
	case PlayForwardAndReset:
		return "playForwardAndReset"
	case PlayBackwardAndReset:
		return "playBackwardAndReset"
	case PlayForwardAndReverse:
		return "playForwardAndReverse"
	case PlayBackwardAndReverse:
		return "playBackwardAndReverse"
	}
	return "unknown"
}

// Reverses reports whether the behavior ends in a choreographed second
// phase instead of terminating on its own.
func (b Behavior) Reverses() bool {
	return b == PlayForwardAndReverse || b == PlayBackwardAndReverse
}

// Resets reports whether the behavior snaps back to its rest position on
// completion.
func (b Behavior) Resets() bool {
	return b == PlayForwardAndReset || b == PlayBackwardAndReset
}

// Priority orders animations within a tick when the frame budget runs out.
type Priority int

const (
	// PriorityInteraction is for user-triggered animations; they are
	// stepped before anything else each tick.
	PriorityInteraction Priority = iota
	// PriorityBackground animations yield to interaction ones and are
	// deferred (never dropped) when the tick budget is spent.
	PriorityBackground
)
