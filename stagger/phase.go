package stagger

import "sync"

// PhaseCoordinator is the barrier between the two phases of an
// animate-then-reverse behavior. Phase two may only start once every
// element has finished phase one; anything less lets a long stagger delay
// interleave phase-two starts with still-running phase-one elements.
type PhaseCoordinator struct {
	mu            sync.Mutex
	total         int
	phase1Done    map[int]struct{}
	phase2Done    map[int]struct{}
	phase2Started bool
	done          bool

	onPhase2Start func()
	onDone        func()
}

// NewPhaseCoordinator creates a coordinator for a group of total elements.
// onPhase2Start fires exactly once, when the last element finishes phase
// one; onDone fires once when the last element finishes phase two.
func NewPhaseCoordinator(total int, onPhase2Start, onDone func()) *PhaseCoordinator {
	c := new(PhaseCoordinator)
	c.total = total
	c.phase1Done = make(map[int]struct{})
	c.phase2Done = make(map[int]struct{})
	c.onPhase2Start = onPhase2Start
	c.onDone = onDone
	return c
}

// CompletePhase1 records that element index finished phase one. Completions
// may arrive in any order; the barrier opens only when the completed set
// covers every element, and only once even if completions race within a
// tick.
func (c *PhaseCoordinator) CompletePhase1(index int) {
	c.mu.Lock()
	c.phase1Done[index] = struct{}{}
	start := len(c.phase1Done) == c.total && !c.phase2Started
	if start {
		c.phase2Started = true
	}
	c.mu.Unlock()

	if start && c.onPhase2Start != nil {
		c.onPhase2Start()
	}
}

// CompletePhase2 records that element index finished phase two. onDone fires
// once, on the completion that covers the last element; duplicates after
// that are ignored.
func (c *PhaseCoordinator) CompletePhase2(index int) {
	c.mu.Lock()
	c.phase2Done[index] = struct{}{}
	fire := c.phase2Started && len(c.phase2Done) == c.total && !c.done
	if fire {
		c.done = true
	}
	c.mu.Unlock()

	if fire && c.onDone != nil {
		c.onDone()
	}
}

// Phase2Started reports whether the barrier has opened.
func (c *PhaseCoordinator) Phase2Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase2Started
}

// Phase1Count reports how many elements have finished phase one.
func (c *PhaseCoordinator) Phase1Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.phase1Done)
}
