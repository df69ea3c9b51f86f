// Package stagger choreographs groups of elements: it computes per-element
// start offsets from an ordering rule, delegates each element's animation
// to the engine, aggregates per-element progress into a master progress,
// and coordinates two-phase animate-then-reverse behaviors behind a
// completion barrier.
package stagger

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/matt-g-everett/motive/engine"
	"github.com/matt-g-everett/motive/util"
)

// Order names an element ordering rule.
type Order string

const (
	// FirstToLast starts elements in index order.
	FirstToLast Order = "firstToLast"
	// LastToFirst starts elements in reverse index order.
	LastToFirst Order = "lastToFirst"
	// CenterOut starts the center of the index range first and moves
	// outward; elements equidistant from the center start together.
	CenterOut Order = "centerOut"
	// EdgesIn starts both edges first and moves inward.
	EdgesIn Order = "edgesIn"
)

// Direction is the logical playback direction of a group execution.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Opposite flips the direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

// Config controls staggering for one group. Forward and Backward orders are
// independent and are re-derived on every execution: a group may fan out
// from the center going forward and collapse from the edges coming back.
type Config struct {
	DelayMs  int64
	Forward  Order
	Backward Order
}

func (c Config) orderFor(dir Direction) Order {
	o := c.Forward
	if dir == Backward {
		o = c.Backward
	}
	if o == "" {
		o = FirstToLast
	}
	return o
}

// ElementState tracks one element of a choreographed group.
type ElementState struct {
	Progress float64
	Target   float64
	Active   bool
	OffsetMs int64
}

// GroupState aggregates a group. Master is derived from the element states
// (they are ground truth) and is monotonic non-decreasing while the group
// is active.
type GroupState struct {
	Master   float64
	TotalMs  int64
	Elements map[int]*ElementState
	Active   bool
}

// Offsets computes per-element start offsets: elements are bucketed by the
// ordering rule and each bucket waits bucketIndex x delayMs.
func Offsets(n int, delayMs int64, order Order) []int64 {
	out := make([]int64, n)
	for i, bucket := range buckets(n, order) {
		out[i] = int64(bucket) * delayMs
	}
	return out
}

// buckets assigns each element index a simultaneous-start group index.
func buckets(n int, order Order) []int {
	b := make([]int, n)
	switch order {
	case LastToFirst:
		for i := range b {
			b[i] = n - 1 - i
		}
	case CenterOut:
		center := float64(n-1) / 2
		for i := range b {
			b[i] = int(math.Round(math.Abs(float64(i) - center)))
		}
		normalize(b)
	case EdgesIn:
		for i := range b {
			if tail := n - 1 - i; tail < i {
				b[i] = tail
			} else {
				b[i] = i
			}
		}
	default:
		for i := range b {
			b[i] = i
		}
	}
	return b
}

func normalize(b []int) {
	if len(b) == 0 {
		return
	}
	min := b[0]
	for _, v := range b {
		if v < min {
			min = v
		}
	}
	for i := range b {
		b[i] -= min
	}
}

type group struct {
	id         string
	elementIDs []string
	cfg        Config
	dir        Direction
	state      *GroupState

	subs    map[int]func(master float64)
	nextSub int
	cancels []engine.CancelFunc
	done    chan struct{}
	running bool
	coord   *PhaseCoordinator
}

// Orchestrator computes orderings and offsets for element groups and
// delegates the per-element animations to the engine.
type Orchestrator struct {
	eng *engine.Engine

	mu     sync.Mutex
	groups map[string]*group
}

// New creates an orchestrator over the given engine.
func New(eng *engine.Engine) *Orchestrator {
	o := new(Orchestrator)
	o.eng = eng
	o.groups = make(map[string]*group)
	return o
}

// Initialize registers a group of elements with its stagger configuration
// and default direction, and returns the fresh group state.
func (o *Orchestrator) Initialize(groupID string, elementIDs []string, cfg Config, dir Direction) *GroupState {
	g := &group{
		id:         groupID,
		elementIDs: elementIDs,
		cfg:        cfg,
		dir:        dir,
		subs:       make(map[int]func(float64)),
		state: &GroupState{
			Elements: make(map[int]*ElementState, len(elementIDs)),
		},
	}
	for i := range elementIDs {
		g.state.Elements[i] = &ElementState{}
	}

	o.mu.Lock()
	o.groups[groupID] = g
	o.mu.Unlock()
	return g.state
}

// OnProgressUpdate subscribes to the group's master progress and returns an
// unsubscribe function.
func (o *Orchestrator) OnProgressUpdate(groupID string, fn func(master float64)) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	g, ok := o.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("stagger: unknown group %q", groupID)
	}
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	return func() {
		o.mu.Lock()
		delete(g.subs, id)
		o.mu.Unlock()
	}, nil
}

// Execute runs the group through slot with the given behavior and blocks
// until the whole choreography — both phases, for reverse behaviors — has
// finished, or ctx is cancelled.
func (o *Orchestrator) Execute(ctx context.Context, groupID string, slot engine.Slot, behavior engine.Behavior) error {
	o.mu.Lock()
	g, ok := o.groups[groupID]
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("stagger: unknown group %q", groupID)
	}
	if g.running {
		o.mu.Unlock()
		return fmt.Errorf("stagger: group %q is already executing", groupID)
	}
	if len(g.elementIDs) == 0 {
		o.mu.Unlock()
		return nil
	}
	g.running = true
	g.done = make(chan struct{})
	g.state.Active = true
	g.state.Master = 0
	done := g.done
	o.mu.Unlock()

	dir := directionOf(behavior, g.dir)
	startP, endP := span(dir)

	phases := int64(1)
	if behavior.Reverses() {
		phases = 2
		coord := NewPhaseCoordinator(len(g.elementIDs), nil, nil)
		coord.onPhase2Start = func() {
			// Phase two: opposite direction, ordering re-derived, starting
			// from the progress phase one reached.
			o.launchPhase(g, slot, dir.Opposite(), endP, startP, engine.PlayForward, coord, 2)
		}
		coord.onDone = func() { o.finish(g) }
		o.mu.Lock()
		g.coord = coord
		o.mu.Unlock()
		o.launchPhase(g, slot, dir, startP, endP, behavior, coord, 1)
	} else {
		o.launchPhase(g, slot, dir, startP, endP, behavior, nil, 1)
	}

	o.mu.Lock()
	offsets := Offsets(len(g.elementIDs), g.cfg.DelayMs, g.cfg.orderFor(dir))
	maxOffset := int64(0)
	for _, off := range offsets {
		if off > maxOffset {
			maxOffset = off
		}
	}
	g.state.TotalMs = phases * (maxOffset + slotSpanMs(slot))
	o.mu.Unlock()

	select {
	case <-ctx.Done():
		o.Cleanup(groupID)
		return ctx.Err()
	case <-done:
		return nil
	}
}

// launchPhase schedules one animation per element with its stagger offset.
// Ordering is derived here, per phase, so forward and backward executions
// of the same group can use different orders.
func (o *Orchestrator) launchPhase(g *group, slot engine.Slot, dir Direction, startP, endP float64, behavior engine.Behavior, coord *PhaseCoordinator, phase int) {
	offsets := Offsets(len(g.elementIDs), g.cfg.DelayMs, g.cfg.orderFor(dir))

	o.mu.Lock()
	remaining := len(g.elementIDs)
	for i := range g.elementIDs {
		st := g.state.Elements[i]
		st.Active = true
		st.Progress = 0
		st.Target = 1
		st.OffsetMs = offsets[i]
	}
	o.mu.Unlock()

	width := math.Abs(endP - startP)
	for i, elementID := range g.elementIDs {
		index := i
		opts := []engine.Option{
			engine.WithStartDelay(offsets[i]),
			engine.WithBehavior(behavior),
			engine.WithObserver(engine.ObserverFuncs{
				OnProgress: func(_ string, p float64) {
					frac := 1.0
					if width > 0 {
						frac = util.Clamp01(math.Abs(p-startP) / width)
					}
					o.updateElement(g, index, frac)
				},
				OnDone: func(string) {
					o.elementDone(g, index, coord, phase, &remaining)
				},
			}),
		}
		if coord != nil && phase == 1 {
			opts = append(opts, engine.WithPhaseComplete(func() {
				coord.CompletePhase1(index)
			}))
		}
		cancel := o.eng.Animate(slot, elementID, startP, endP, opts...)
		o.mu.Lock()
		g.cancels = append(g.cancels, cancel)
		o.mu.Unlock()
	}
}

// updateElement records one element's progress and re-derives the master
// aggregate: the mean of element progresses, forced monotonic while the
// group is active. The mean hits 1.0 exactly when every element does.
func (o *Orchestrator) updateElement(g *group, index int, frac float64) {
	o.mu.Lock()
	st, ok := g.state.Elements[index]
	if !ok {
		o.mu.Unlock()
		return
	}
	st.Progress = frac

	sum := 0.0
	for _, s := range g.state.Elements {
		sum += s.Progress
	}
	mean := sum / float64(len(g.state.Elements))
	if mean > g.state.Master {
		g.state.Master = mean
	}
	master := g.state.Master
	subs := make([]func(float64), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(master)
	}
}

// elementDone handles one element finishing its current phase.
func (o *Orchestrator) elementDone(g *group, index int, coord *PhaseCoordinator, phase int, remaining *int) {
	o.mu.Lock()
	if st, ok := g.state.Elements[index]; ok {
		st.Progress = 1
		st.Active = false
	}
	*remaining--
	last := *remaining == 0
	o.mu.Unlock()

	if coord != nil {
		if phase == 2 {
			coord.CompletePhase2(index)
		}
		// Phase-one completions flow through the engine's phase-complete
		// hook, not through Done.
		return
	}
	if last {
		o.finish(g)
	}
}

// finish marks the group inactive and releases Execute.
func (o *Orchestrator) finish(g *group) {
	o.mu.Lock()
	if !g.running {
		o.mu.Unlock()
		return
	}
	g.running = false
	g.state.Active = false
	done := g.done
	o.mu.Unlock()
	if done != nil {
		close(done)
	}
}

// Cleanup cancels any in-flight animations of the group and forgets it.
func (o *Orchestrator) Cleanup(groupID string) {
	o.mu.Lock()
	g, ok := o.groups[groupID]
	if !ok {
		o.mu.Unlock()
		return
	}
	cancels := g.cancels
	g.cancels = nil
	delete(o.groups, groupID)
	o.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	o.finish(g)
}

// State returns the group's state, or nil for an unknown group.
func (o *Orchestrator) State(groupID string) *GroupState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if g, ok := o.groups[groupID]; ok {
		return g.state
	}
	return nil
}

func directionOf(b engine.Behavior, fallback Direction) Direction {
	switch b {
	case engine.PlayBackward, engine.PlayBackwardAndReset, engine.PlayBackwardAndReverse:
		return Backward
	case engine.PlayForward, engine.PlayForwardAndReset, engine.PlayForwardAndReverse:
		return Forward
	}
	return fallback
}

// span maps a direction onto the progress span it plays.
func span(dir Direction) (startP, endP float64) {
	if dir == Backward {
		return 1, 0
	}
	return 0, 1
}

// slotSpanMs is the slot's full timeline: the longest property delay +
// duration, with slot defaults applied.
func slotSpanMs(slot engine.Slot) int64 {
	total := int64(0)
	for _, p := range slot.Properties {
		d := p.DurationMs
		if d == 0 {
			d = slot.Timing.DurationMs
		}
		delay := p.DelayMs
		if delay == 0 {
			delay = slot.Timing.DelayMs
		}
		if end := delay + d; end > total {
			total = end
		}
	}
	return total
}
