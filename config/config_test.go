package config

import (
	"strings"
	"testing"

	"github.com/matt-g-everett/motive/engine"
	"github.com/matt-g-everett/motive/stagger"
)

const doc = `
httpAddr: ":3000"
viewport:
  width: 1280
  height: 800
elements:
  - id: stage
    width: 1280
    height: 800
  - id: card1
    width: 240
    height: 160
    parent: stage
slots:
  - id: slideIn
    timing:
      duration: 800
      easing: outExpo
    properties:
      - name: translateX
        from: 100vw
        to: "0px"
      - name: opacity
        from: "0"
        to: "1"
        duration: 500
  - id: pop
    timing:
      duration: 600
      easing: outSpring
      spring:
        amplitude: 1.2
        period: 0.4
    properties:
      - name: scaleX
        to: "1"
groups:
  - id: cards-in
    elements: [card1]
    slot: slideIn
    behavior: forwardAndReverse
    stagger:
      delay: 120
      forward: centerOut
      backward: edgesIn
`

func load(t *testing.T) *Document {
	t.Helper()
	d, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return d
}

// --- Slots ---

func TestSlotConversion(t *testing.T) {
	d := load(t)
	sc, ok := d.SlotByID("slideIn")
	if !ok {
		t.Fatal("slideIn not found")
	}
	slot := sc.Slot()
	if slot.Timing.DurationMs != 800 || slot.Timing.Easing != "outExpo" {
		t.Errorf("timing = %+v", slot.Timing)
	}
	if len(slot.Properties) != 2 {
		t.Fatalf("properties = %d, want 2", len(slot.Properties))
	}
	if slot.Properties[0].From != "100vw" || slot.Properties[0].To != "0px" {
		t.Errorf("property 0 = %+v", slot.Properties[0])
	}
	if slot.Properties[1].DurationMs != 500 {
		t.Errorf("opacity duration = %d, want 500", slot.Properties[1].DurationMs)
	}
}

func TestSpringConversion(t *testing.T) {
	d := load(t)
	sc, _ := d.SlotByID("pop")
	slot := sc.Slot()
	if slot.Timing.Spring == nil {
		t.Fatal("spring config dropped")
	}
	if slot.Timing.Spring.Amplitude != 1.2 || slot.Timing.Spring.Period != 0.4 {
		t.Errorf("spring = %+v", slot.Timing.Spring)
	}
}

// --- Registry ---

func TestBuildRegistry(t *testing.T) {
	d := load(t)
	reg := d.BuildRegistry()
	if reg.ViewportW != 1280 || reg.ViewportH != 800 {
		t.Errorf("viewport = %vx%v", reg.ViewportW, reg.ViewportH)
	}
	card, ok := reg.Resolve("card1")
	if !ok {
		t.Fatal("card1 not attached")
	}
	if card.Parent == nil || card.Parent.ID != "stage" {
		t.Error("card1 parent not wired")
	}
}

// --- Groups ---

func TestGroupConversion(t *testing.T) {
	d := load(t)
	if len(d.Groups) != 1 {
		t.Fatalf("groups = %d", len(d.Groups))
	}
	g := d.Groups[0]
	cfg := g.StaggerConfig()
	if cfg.DelayMs != 120 || cfg.Forward != stagger.CenterOut || cfg.Backward != stagger.EdgesIn {
		t.Errorf("stagger = %+v", cfg)
	}
	b, err := ParseBehavior(g.Behavior)
	if err != nil {
		t.Fatal(err)
	}
	if b != engine.PlayForwardAndReverse {
		t.Errorf("behavior = %v", b)
	}
}

func TestParseBehavior(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Behavior
		ok   bool
	}{
		{"", engine.PlayForward, true},
		{"forward", engine.PlayForward, true},
		{"backward", engine.PlayBackward, true},
		{"forwardAndReset", engine.PlayForwardAndReset, true},
		{"backwardAndReset", engine.PlayBackwardAndReset, true},
		{"forwardAndReverse", engine.PlayForwardAndReverse, true},
		{"backwardAndReverse", engine.PlayBackwardAndReverse, true},
		{"sideways", engine.PlayForward, false},
	}
	for _, tt := range tests {
		got, err := ParseBehavior(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseBehavior(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBehavior(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
