package engine

import (
	"strconv"
	"testing"

	"github.com/matt-g-everett/motive/style"
)

func newTestEngine() (*Engine, *style.Element) {
	reg := style.NewRegistry(1000, 800)
	el := style.NewElement("box", 200, 100)
	reg.Attach(el)
	return New(reg), el
}

func translateSlot(durationMs int64, kind string) Slot {
	return Slot{
		ID: "slide",
		Timing: Timing{
			DurationMs: durationMs,
			Easing:     kind,
		},
		Properties: []Property{
			{Name: "translateX", From: "0px", To: "300px"},
		},
	}
}

// --- Linear end-to-end ---

// translateX 0px -> 300px over 1000ms with linear easing: sampling at
// elapsed=500ms must yield 150px.
func TestLinearTranslateMidpoint(t *testing.T) {
	eng, el := newTestEngine()
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)

	eng.Tick(0)
	if got := el.Style("transform"); got != "translateX(0px)" {
		t.Fatalf("at 0ms transform = %q", got)
	}
	eng.Tick(500)
	if got := el.Style("transform"); got != "translateX(150px)" {
		t.Errorf("at 500ms transform = %q, want translateX(150px)", got)
	}
	eng.Tick(1000)
	if got := el.Style("transform"); got != "translateX(300px)" {
		t.Errorf("at 1000ms transform = %q, want translateX(300px)", got)
	}
	if got := eng.Stats().Active; got != 0 {
		t.Errorf("active after completion = %d, want 0", got)
	}
}

// --- Whole-animation completion ---

// A slot with a 500ms opacity and a 1000ms translateX is complete only
// after 1000ms, not 500ms.
func TestCompletionWaitsForLongestProperty(t *testing.T) {
	eng, el := newTestEngine()
	slot := Slot{
		ID:     "mixed",
		Timing: Timing{DurationMs: 1000, Easing: "linear"},
		Properties: []Property{
			{Name: "opacity", From: "0", To: "1", DurationMs: 500},
			{Name: "translateX", From: "0px", To: "300px"},
		},
	}

	var doneAt int64 = -1
	eng.Animate(slot, "box", 0, 1, WithObserver(ObserverFuncs{
		OnDone: func(string) { doneAt = 0 },
	}))

	eng.Tick(0)
	eng.Tick(600)
	if got := el.Style("opacity"); got != "1" {
		t.Errorf("opacity at 600ms = %q, want 1", got)
	}
	if eng.Stats().Active != 1 {
		t.Fatal("animation reported complete at 600ms")
	}
	if doneAt != -1 {
		t.Fatal("Done fired before the longest property finished")
	}

	eng.Tick(1000)
	if eng.Stats().Active != 0 {
		t.Error("animation still active at 1000ms")
	}
	if doneAt == -1 {
		t.Error("Done never fired")
	}
}

// --- Delay window ---

func TestDelayWindowSkipsValueComputation(t *testing.T) {
	eng, el := newTestEngine()
	slot := Slot{
		ID:     "late",
		Timing: Timing{DurationMs: 400, DelayMs: 200, Easing: "linear"},
		Properties: []Property{
			{Name: "translateX", From: "0px", To: "100px"},
		},
	}
	eng.Animate(slot, "box", 0, 1)

	eng.Tick(0)
	eng.Tick(100)
	if got := el.Style("transform"); got != "" {
		t.Fatalf("value applied inside delay window: %q", got)
	}
	eng.Tick(400) // 200ms past the delay = halfway
	if got := el.Style("transform"); got != "translateX(50px)" {
		t.Errorf("transform = %q, want translateX(50px)", got)
	}
}

// --- Spring overshoot reaches the output ---

func TestSpringOvershootReachesStyle(t *testing.T) {
	eng, el := newTestEngine()
	slot := Slot{
		ID:     "bounce",
		Timing: Timing{DurationMs: 1000, Easing: "outSpring"},
		Properties: []Property{
			{Name: "width", From: "0", To: "100", Unit: "px"},
		},
	}
	eng.Animate(slot, "box", 0, 1)

	eng.Tick(0)
	eng.Tick(150)
	got := el.Style("width")
	n, err := strconv.ParseFloat(trimSuffix(got, "px"), 64)
	if err != nil {
		t.Fatalf("width = %q: %v", got, err)
	}
	if n <= 100 {
		t.Errorf("width at overshoot = %v, want > 100 (never clamp eased output)", n)
	}
}

func trimSuffix(s, suffix string) string {
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		return s[:len(s)-len(suffix)]
	}
	return s
}

// --- Directional spans ---

func TestPartialSpan(t *testing.T) {
	eng, el := newTestEngine()
	// Play only to 40% of the slot's range.
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 0.4)

	eng.Tick(0)
	eng.Tick(500)
	if got := el.Style("transform"); got != "translateX(60px)" {
		t.Errorf("transform = %q, want translateX(60px)", got)
	}
	eng.Tick(1000)
	if got := el.Style("transform"); got != "translateX(120px)" {
		t.Errorf("transform = %q, want translateX(120px)", got)
	}
}

func TestBackwardSpan(t *testing.T) {
	eng, el := newTestEngine()
	eng.Animate(translateSlot(1000, "linear"), "box", 1, 0)

	eng.Tick(0)
	if got := el.Style("transform"); got != "translateX(300px)" {
		t.Fatalf("at 0ms transform = %q", got)
	}
	eng.Tick(1000)
	if got := el.Style("transform"); got != "translateX(0px)" {
		t.Errorf("at 1000ms transform = %q, want translateX(0px)", got)
	}
}

// --- No-op spans ---

func TestEpsilonSpanIsNoOp(t *testing.T) {
	eng, el := newTestEngine()
	cancel := eng.Animate(translateSlot(1000, "linear"), "box", 0.5, 0.5)
	cancel() // inert

	eng.Tick(0)
	eng.Tick(500)
	if eng.Stats().Active != 0 {
		t.Error("epsilon span registered an animation")
	}
	if got := el.Style("transform"); got != "" {
		t.Errorf("epsilon span applied %q", got)
	}
}

func TestZeroDurationIsNoOp(t *testing.T) {
	eng, _ := newTestEngine()
	slot := Slot{
		ID:         "broken",
		Properties: []Property{{Name: "opacity", From: "0", To: "1"}},
	}
	eng.Animate(slot, "box", 0, 1)
	if eng.Stats().Active != 0 {
		t.Error("zero-duration slot registered an animation")
	}
}

// --- Cancellation ---

func TestCancelIsSynchronous(t *testing.T) {
	eng, el := newTestEngine()
	cancel := eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)

	eng.Tick(0)
	cancel()
	if eng.Stats().Active != 0 {
		t.Fatal("cancel did not remove the animation")
	}
	eng.Tick(500)
	if got := el.Style("transform"); got != "translateX(0px)" {
		t.Errorf("cancelled animation still applied values: %q", got)
	}
}

// --- Element resolution ---

func TestDetachedElementTerminatesAnimation(t *testing.T) {
	eng, _ := newTestEngine()
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)

	eng.Tick(0)
	eng.Registry().Detach("box")
	eng.Tick(500)
	if eng.Stats().Active != 0 {
		t.Error("animation survived a permanently detached element")
	}
}

func TestReattachedElementKeepsAnimation(t *testing.T) {
	eng, _ := newTestEngine()
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)

	eng.Tick(0)
	// Host re-render: same id, new element, between ticks.
	eng.Registry().Detach("box")
	replacement := style.NewElement("box", 200, 100)
	eng.Registry().Attach(replacement)

	eng.Tick(500)
	if eng.Stats().Active != 1 {
		t.Fatal("animation did not survive detach+reattach")
	}
	if got := replacement.Style("transform"); got != "translateX(150px)" {
		t.Errorf("replacement transform = %q, want translateX(150px)", got)
	}
}

// A detached sibling must not affect other animations.
func TestDetachIsolation(t *testing.T) {
	eng, el := newTestEngine()
	other := style.NewElement("other", 100, 100)
	eng.Registry().Attach(other)

	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)
	eng.Animate(translateSlot(1000, "linear"), "other", 0, 1)

	eng.Tick(0)
	eng.Registry().Detach("other")
	eng.Tick(500)
	if eng.Stats().Active != 1 {
		t.Fatalf("active = %d, want 1", eng.Stats().Active)
	}
	if got := el.Style("transform"); got != "translateX(150px)" {
		t.Errorf("survivor transform = %q", got)
	}
}

// --- From-value resolution ---

func TestFromReadsCurrentValue(t *testing.T) {
	eng, el := newTestEngine()
	el.SetStyle("opacity", "0.25")
	slot := Slot{
		ID:     "fade",
		Timing: Timing{DurationMs: 1000, Easing: "linear"},
		Properties: []Property{
			{Name: "opacity", To: "1"},
		},
	}
	eng.Animate(slot, "box", 0, 1)

	eng.Tick(0)
	eng.Tick(500)
	if got := el.Style("opacity"); got != "0.625" {
		t.Errorf("opacity = %q, want 0.625", got)
	}
}

// A transform channel's current value lives inside the composite transform
// style, not under the property's own name. A follow-up animation with From
// unset must continue from where the previous one left the channel, not
// restart from zero.
func TestFromReadsCurrentTransformChannel(t *testing.T) {
	eng, el := newTestEngine()
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)
	eng.Tick(0)
	eng.Tick(1000)
	if got := el.Style("transform"); got != "translateX(300px)" {
		t.Fatalf("after first animation transform = %q", got)
	}

	settle := Slot{
		ID:     "settle",
		Timing: Timing{DurationMs: 1000, Easing: "linear"},
		Properties: []Property{
			{Name: "translateX", To: "100px"},
		},
	}
	eng.Animate(settle, "box", 0, 1)

	eng.Tick(1100)
	if got := el.Style("transform"); got != "translateX(300px)" {
		t.Errorf("transform at second start = %q, want translateX(300px)", got)
	}
	eng.Tick(1600) // halfway from 300px to 100px
	if got := el.Style("transform"); got != "translateX(200px)" {
		t.Errorf("transform at halfway = %q, want translateX(200px)", got)
	}
}

// --- Reset behavior ---

func TestForwardAndResetSnapsBack(t *testing.T) {
	eng, el := newTestEngine()
	var last float64 = -1
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1,
		WithBehavior(PlayForwardAndReset),
		WithObserver(ObserverFuncs{
			OnProgress: func(_ string, p float64) { last = p },
		}),
	)

	eng.Tick(0)
	eng.Tick(500)
	if got := el.Style("transform"); got != "translateX(150px)" {
		t.Fatalf("mid transform = %q", got)
	}
	eng.Tick(1000)
	if got := el.Style("transform"); got != "translateX(0px)" {
		t.Errorf("after reset transform = %q, want translateX(0px)", got)
	}
	if last != 0 {
		t.Errorf("final reported progress = %v, want 0 (the rest position)", last)
	}
	if eng.Stats().Active != 0 {
		t.Error("reset animation not destroyed")
	}
}

// --- Reverse hand-off ---

func TestReverseBehaviorInvokesPhaseHook(t *testing.T) {
	eng, _ := newTestEngine()
	phases := 0
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1,
		WithBehavior(PlayForwardAndReverse),
		WithPhaseComplete(func() { phases++ }),
	)

	eng.Tick(0)
	eng.Tick(500)
	if phases != 0 {
		t.Fatal("phase hook fired before completion")
	}
	eng.Tick(1000)
	if phases != 1 {
		t.Errorf("phase hook fired %d times, want 1", phases)
	}
	if eng.Stats().Active != 0 {
		t.Error("phase-one animation not destroyed after hand-off")
	}
}

// --- Progress reporting ---

func TestProgressReporting(t *testing.T) {
	eng, _ := newTestEngine()
	var got []float64
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1,
		WithObserver(ObserverFuncs{
			OnProgress: func(_ string, p float64) { got = append(got, p) },
		}),
	)

	for _, ms := range []int64{0, 250, 500, 750, 1000} {
		eng.Tick(ms)
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(got) != len(want) {
		t.Fatalf("got %d progress reports, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("report %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnclampedProgressOvershoots(t *testing.T) {
	eng, _ := newTestEngine()
	max := 0.0
	eng.Animate(translateSlot(1000, "outSpring"), "box", 0, 1,
		WithUnclampedProgress(),
		WithObserver(ObserverFuncs{
			OnProgress: func(_ string, p float64) {
				if p > max {
					max = p
				}
			},
		}),
	)

	eng.Tick(0)
	for ms := int64(50); ms <= 1000; ms += 50 {
		eng.Tick(ms)
	}
	if max <= 1 {
		t.Errorf("unclamped max progress = %v, want > 1", max)
	}
}

// --- Budget deferral ---

// With the budget forced to zero, every animation defers — none may be
// dropped, and all complete once the budget allows.
func TestBudgetDefersWithoutDropping(t *testing.T) {
	eng, el := newTestEngine()
	eng.BudgetMs = -1
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1)

	eng.Tick(0)
	eng.Tick(100)
	if got := el.Style("transform"); got != "" {
		t.Fatalf("deferred animation applied %q", got)
	}
	if eng.Stats().Active != 1 {
		t.Fatal("deferred animation was dropped")
	}
	if eng.Stats().Overruns == 0 {
		t.Error("overruns not counted")
	}

	eng.BudgetMs = 1e9
	eng.Tick(200) // first real step; the animation starts here
	eng.Tick(700)
	if got := el.Style("transform"); got != "translateX(150px)" {
		t.Errorf("transform = %q, want translateX(150px)", got)
	}
	eng.Tick(1200)
	if eng.Stats().Active != 0 {
		t.Error("animation never completed after deferral")
	}
}

// --- Identifiers ---

func TestAnimationIDsAreEngineScoped(t *testing.T) {
	eng, _ := newTestEngine()
	var ids []string
	obs := ObserverFuncs{OnProgress: func(id string, _ float64) {
		for _, seen := range ids {
			if seen == id {
				return
			}
		}
		ids = append(ids, id)
	}}
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 1, WithObserver(obs))
	eng.Animate(translateSlot(1000, "linear"), "box", 0, 0.5, WithObserver(obs))

	eng.Tick(0)
	if len(ids) != 2 {
		t.Fatalf("distinct ids = %d, want 2", len(ids))
	}
	if ids[0] == ids[1] {
		t.Errorf("id collision: %q", ids[0])
	}
}
