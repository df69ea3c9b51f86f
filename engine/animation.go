package engine

import (
	"github.com/matt-g-everett/motive/easing"
	"github.com/matt-g-everett/motive/interp"
)

// Timing is a slot's default duration, delay and easing. Properties inherit
// these unless they carry their own.
type Timing struct {
	DurationMs int64
	DelayMs    int64
	Easing     string
	Spring     *easing.SpringConfig
}

// Property describes one animated property within a slot. From is optional:
// when empty the engine reads the element's current resolved value the first
// time the property becomes active. DurationMs/DelayMs/Easing of zero value
// inherit the slot timing.
type Property struct {
	Name       string
	From       string
	To         string
	Unit       string
	DurationMs int64
	DelayMs    int64
	Easing     string
	Spring     *easing.SpringConfig
}

// Slot is the atomic schedulable unit: a bundle of properties that share a
// start time but may diverge individually in duration, delay and easing.
type Slot struct {
	ID         string
	Properties []Property
	Timing     Timing
}

// Observer receives progress and completion notifications for one running
// animation.
type Observer interface {
	Progress(animID string, progress float64)
	Done(animID string)
}

// ObserverFuncs adapts plain functions to the Observer interface. Nil
// members are skipped.
type ObserverFuncs struct {
	OnProgress func(animID string, progress float64)
	OnDone     func(animID string)
}

// Progress implements Observer.
func (o ObserverFuncs) Progress(animID string, progress float64) {
	if o.OnProgress != nil {
		o.OnProgress(animID, progress)
	}
}

// Done implements Observer.
func (o ObserverFuncs) Done(animID string) {
	if o.OnDone != nil {
		o.OnDone(animID)
	}
}

// propState is the per-property runtime state of a running animation.
type propState struct {
	prop       Property
	durationMs int64
	delayMs    int64
	easeFn     easing.Func
	to         interp.Value
	from       interp.Value
	fromSet    bool
	done       bool
}

// runningAnimation is one in-flight animation. It holds only the element's
// stable id, never the element itself: the target is re-resolved through
// the registry every tick.
type runningAnimation struct {
	id        string
	elementID string
	slot      Slot
	props     []*propState

	startP float64
	endP   float64

	behavior  Behavior
	priority  Priority
	observer  Observer
	onPhase   func()
	unclamped bool

	extraDelayMs int64
	slotEaseFn   easing.Func
	totalMs      int64

	startMs  int64
	started  bool
	active   bool
}

// timeProgress returns the whole-animation time progress in [0, 1], using
// the longest property timeline so a slot mixing 500ms and 1000ms
// properties reports complete only after 1000ms.
func (a *runningAnimation) timeProgress(runtimeMs int64) float64 {
	if !a.started || a.totalMs <= 0 {
		return 0
	}
	elapsed := runtimeMs - a.startMs - a.extraDelayMs
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= a.totalMs {
		return 1
	}
	return float64(elapsed) / float64(a.totalMs)
}
