// Package engine owns the set of in-flight animations and advances every
// property of every running animation once per display-refresh tick through
// the easing -> interpolation -> application pipeline.
package engine

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"github.com/matt-g-everett/motive/easing"
	"github.com/matt-g-everett/motive/interp"
	"github.com/matt-g-everett/motive/style"
	"github.com/matt-g-everett/motive/util"
)

const (
	// progressEpsilon is the span width below which an animation is a no-op.
	progressEpsilon = 1e-6

	// DefaultFrameInterval approximates a 60Hz display refresh.
	DefaultFrameInterval = 16667 * time.Microsecond

	// DefaultBudgetMs is the soft per-tick processing ceiling.
	DefaultBudgetMs = 8.0
)

// CancelFunc synchronously deactivates a running animation and removes it
// from the next tick's queue. Effects already applied are not rolled back.
type CancelFunc func()

// Stats is a snapshot of engine activity, served by the HTTP API.
type Stats struct {
	Active     int     `json:"active"`
	Ticks      int64   `json:"ticks"`
	Completed  int64   `json:"completed"`
	Overruns   int64   `json:"overruns"`
	LastTickMs float64 `json:"lastTickMs"`
}

// Engine drives all running animations from one shared tick. Ticking is
// single-threaded and cooperative; the mutex only guards the animation
// table against Animate/cancel calls from other goroutines.
type Engine struct {
	// BudgetMs is the soft time budget per tick in milliseconds.
	// Interaction-priority animations step first; once the budget is spent
	// the remainder defer to the next tick. Overruns are logged, never
	// fatal.
	BudgetMs float64

	// FrameInterval is the tick period used by Run.
	FrameInterval time.Duration

	reg *style.Registry
	app *style.Applicator

	mu    sync.Mutex
	ids   idGenerator
	anims map[string]*runningAnimation
	order []string

	stats          Stats
	lastOverrunLog time.Time
}

// New creates an engine over the given element registry.
func New(reg *style.Registry) *Engine {
	e := new(Engine)
	e.BudgetMs = DefaultBudgetMs
	e.FrameInterval = DefaultFrameInterval
	e.reg = reg
	e.app = style.NewApplicator(reg)
	e.ids = idGenerator{prefix: "a"}
	e.anims = make(map[string]*runningAnimation)
	return e
}

// Option configures one Animate call.
type Option func(*runningAnimation)

// WithObserver subscribes an observer to progress and completion events.
func WithObserver(o Observer) Option {
	return func(a *runningAnimation) { a.observer = o }
}

// WithBehavior sets the completion policy.
func WithBehavior(b Behavior) Option {
	return func(a *runningAnimation) { a.behavior = b }
}

// WithPriority sets the scheduling priority.
func WithPriority(p Priority) Option {
	return func(a *runningAnimation) { a.priority = p }
}

// WithUnclampedProgress reports eased (possibly overshooting) progress to
// the observer instead of clamped time progress.
func WithUnclampedProgress() Option {
	return func(a *runningAnimation) { a.unclamped = true }
}

// WithStartDelay delays the whole animation by ms on top of any per-slot or
// per-property delays. The stagger orchestrator uses this for per-element
// offsets.
func WithStartDelay(ms int64) Option {
	return func(a *runningAnimation) { a.extraDelayMs = ms }
}

// WithPhaseComplete registers the choreography hand-off invoked when a
// reverse-type behavior finishes its first phase.
func WithPhaseComplete(fn func()) Option {
	return func(a *runningAnimation) { a.onPhase = fn }
}

// Animate registers an animation driving elementID through slot over the
// directional span [startP, endP] and returns its cancel function. A span
// narrower than epsilon, or a slot with no usable properties, is a no-op
// and returns an inert cancel.
func (a *Engine) Animate(slot Slot, elementID string, startP, endP float64, opts ...Option) CancelFunc {
	if math.Abs(endP-startP) < progressEpsilon {
		return func() {}
	}

	anim := &runningAnimation{
		elementID: elementID,
		slot:      slot,
		startP:    startP,
		endP:      endP,
		active:    true,
	}
	for _, opt := range opts {
		opt(anim)
	}
	anim.slotEaseFn = easing.For(slot.Timing.Easing, slot.Timing.Spring)

	for _, p := range slot.Properties {
		ps, err := newPropState(p, slot.Timing)
		if err != nil {
			log.Printf("engine: skipping property %q on slot %q: %v", p.Name, slot.ID, err)
			continue
		}
		anim.props = append(anim.props, ps)
		if end := ps.delayMs + ps.durationMs; end > anim.totalMs {
			anim.totalMs = end
		}
	}
	if len(anim.props) == 0 {
		return func() {}
	}

	a.mu.Lock()
	anim.id = a.ids.next()
	a.anims[anim.id] = anim
	a.order = append(a.order, anim.id)
	a.mu.Unlock()

	return func() { a.cancel(anim.id) }
}

func newPropState(p Property, defaults Timing) (*propState, error) {
	ps := &propState{prop: p}
	ps.durationMs = p.DurationMs
	if ps.durationMs == 0 {
		ps.durationMs = defaults.DurationMs
	}
	if ps.durationMs <= 0 {
		return nil, errNonPositiveDuration
	}
	ps.delayMs = p.DelayMs
	if ps.delayMs == 0 {
		ps.delayMs = defaults.DelayMs
	}
	kind, spring := p.Easing, p.Spring
	if kind == "" {
		kind, spring = defaults.Easing, defaults.Spring
	}
	ps.easeFn = easing.For(kind, spring)

	to, err := interp.Parse(p.To)
	if err != nil {
		return nil, err
	}
	ps.to = to

	if p.From != "" {
		from, err := interp.Parse(p.From)
		if err != nil {
			return nil, err
		}
		ps.from = from
		ps.fromSet = true
	}
	return ps, nil
}

var errNonPositiveDuration = errors.New("effective duration is not positive")

// cancel removes the animation synchronously.
func (a *Engine) cancel(id string) {
	a.mu.Lock()
	if anim, ok := a.anims[id]; ok {
		anim.active = false
		delete(a.anims, id)
	}
	a.mu.Unlock()
}

// Run ticks the engine at FrameInterval until ctx is cancelled. runtimeMs
// counts from the moment Run starts.
func (a *Engine) Run(ctx context.Context) error {
	frameTimer := time.NewTicker(a.FrameInterval)
	defer frameTimer.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-frameTimer.C:
			a.Tick(time.Since(start).Milliseconds())
		}
	}
}

// Tick advances every running animation to runtimeMs. Interaction-priority
// animations step first; once the soft budget is exhausted the remaining
// ones are deferred to the next tick (their progress is time-based, so they
// catch up rather than fall behind).
func (a *Engine) Tick(runtimeMs int64) {
	tickStart := time.Now()

	a.mu.Lock()
	queue := make([]*runningAnimation, 0, len(a.order))
	for _, pri := range []Priority{PriorityInteraction, PriorityBackground} {
		for _, id := range a.order {
			if anim, ok := a.anims[id]; ok && anim.priority == pri {
				queue = append(queue, anim)
			}
		}
	}
	a.mu.Unlock()

	var finished []*runningAnimation
	overBudget := false
	for _, anim := range queue {
		if !overBudget && budgetSpent(tickStart, a.BudgetMs) {
			overBudget = true
		}
		if overBudget {
			continue
		}
		if a.step(anim, runtimeMs) {
			finished = append(finished, anim)
		}
	}

	a.mu.Lock()
	for _, anim := range finished {
		if _, ok := a.anims[anim.id]; ok {
			anim.active = false
			delete(a.anims, anim.id)
			a.stats.Completed++
		}
	}
	a.compactOrder()
	a.stats.Ticks++
	a.stats.LastTickMs = float64(time.Since(tickStart).Microseconds()) / 1000
	overran := a.stats.LastTickMs > a.BudgetMs || overBudget
	if overran {
		a.stats.Overruns++
	}
	logIt := overran && time.Since(a.lastOverrunLog) > time.Second
	if logIt {
		a.lastOverrunLog = time.Now()
	}
	lastMs := a.stats.LastTickMs
	a.mu.Unlock()

	if logIt {
		log.Printf("engine: tick exceeded %.1fms budget (%.2fms), deferring to next tick", a.BudgetMs, lastMs)
	}

	// Completion callbacks run outside the lock; an observer is free to
	// schedule follow-up animations.
	for _, anim := range finished {
		if anim.behavior.Reverses() && anim.onPhase != nil {
			anim.onPhase()
		}
		if anim.observer != nil {
			anim.observer.Done(anim.id)
		}
	}
}

func budgetSpent(tickStart time.Time, budgetMs float64) bool {
	return float64(time.Since(tickStart).Microseconds())/1000 > budgetMs
}

// step advances one animation one tick. It reports whether the animation
// completed. Any internal failure is isolated to this animation.
func (a *Engine) step(anim *runningAnimation, runtimeMs int64) bool {
	a.mu.Lock()
	active := anim.active
	a.mu.Unlock()
	if !active {
		return false
	}

	el, ok := a.reg.Resolve(anim.elementID)
	if !ok {
		// Not an error: the element may be gone for good, or the host may
		// be mid re-render. A missing target terminates only this
		// animation.
		log.Printf("engine: element %q is not resolvable, terminating animation %s", anim.elementID, anim.id)
		return true
	}
	ctx := a.reg.ContextFor(el)

	if !anim.started {
		anim.startMs = runtimeMs
		anim.started = true
	}

	allDone := true
	for _, ps := range anim.props {
		if ps.done {
			continue
		}
		elapsed := runtimeMs - anim.startMs - anim.extraDelayMs - ps.delayMs
		if elapsed < 0 {
			// Still inside the delay window: incomplete, nothing to apply.
			allDone = false
			continue
		}

		if !ps.fromSet {
			ps.from = a.resolveFrom(el, ps)
			ps.fromSet = true
		}

		tp := util.Clamp01(float64(elapsed) / float64(ps.durationMs))
		eased := ps.easeFn(tp)
		easedDirectional := util.MapSpan(eased, anim.startP, anim.endP)

		v := interp.Interpolate(ps.from, ps.to, easedDirectional, ps.prop.Name, &ctx)
		a.app.Apply(el, ps.prop.Name, v.String(), ps.prop.Unit)

		if tp >= 1 {
			ps.done = true
		} else {
			allDone = false
		}
	}

	if anim.observer != nil {
		anim.observer.Progress(anim.id, a.reportedProgress(anim, runtimeMs))
	}

	if !allDone {
		return false
	}

	if anim.behavior.Resets() {
		// Snap every property to the rest position opposite the direction
		// just played, in this same tick.
		for _, ps := range anim.props {
			v := interp.Interpolate(ps.from, ps.to, anim.startP, ps.prop.Name, &ctx)
			a.app.Apply(el, ps.prop.Name, v.String(), ps.prop.Unit)
		}
		if anim.observer != nil {
			anim.observer.Progress(anim.id, anim.startP)
		}
	}
	return true
}

// resolveFrom reads the element's current value for a property whose From
// was left unset. Transform channels live inside the composite transform
// style, not under their own name. A property never set on the element
// starts from a zero-valued copy of its target.
func (a *Engine) resolveFrom(el *style.Element, ps *propState) interp.Value {
	current := el.Style(ps.prop.Name)
	if interp.IsTransformProp(ps.prop.Name) {
		current, _ = style.Channel(el.Style("transform"), ps.prop.Name)
	}
	if current != "" {
		if v, err := interp.Parse(current); err == nil {
			return v
		}
		log.Printf("engine: cannot parse current value %q of %q, starting from zero", current, ps.prop.Name)
	}
	zero := ps.to
	zero.Num = 0
	if zero.Kind == interp.KindColor {
		zero.Alpha = 0
	}
	return zero
}

// reportedProgress maps the whole-animation time progress onto the
// directional span. With unclamped reporting the slot easing is applied
// first, so overshoot is visible to subscribers.
func (a *Engine) reportedProgress(anim *runningAnimation, runtimeMs int64) float64 {
	tp := anim.timeProgress(runtimeMs)
	if anim.unclamped {
		return util.MapSpan(anim.slotEaseFn(tp), anim.startP, anim.endP)
	}
	return util.MapSpan(tp, anim.startP, anim.endP)
}

// compactOrder drops ids of removed animations. Caller holds the mutex.
func (a *Engine) compactOrder() {
	if len(a.order) == len(a.anims) {
		return
	}
	kept := a.order[:0]
	for _, id := range a.order {
		if _, ok := a.anims[id]; ok {
			kept = append(kept, id)
		}
	}
	a.order = kept
}

// Stats returns a snapshot of engine activity.
func (a *Engine) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.stats
	s.Active = len(a.anims)
	return s
}

// Registry exposes the element registry the engine animates against.
func (a *Engine) Registry() *style.Registry {
	return a.reg
}
