// Package config loads the declarative animation document: viewport and
// element geometry, animation slots, and stagger groups.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/motive/easing"
	"github.com/matt-g-everett/motive/engine"
	"github.com/matt-g-everett/motive/stagger"
	"github.com/matt-g-everett/motive/stream"
	"github.com/matt-g-everett/motive/style"
)

// Document is the root of the YAML configuration.
type Document struct {
	HTTPAddr string        `yaml:"httpAddr"`
	Stream   stream.Config `yaml:"stream"`

	Viewport struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"viewport"`

	Elements []ElementConfig `yaml:"elements"`
	Slots    []SlotConfig    `yaml:"slots"`
	Groups   []GroupConfig   `yaml:"groups"`
}

// ElementConfig declares one element and its box.
type ElementConfig struct {
	ID     string  `yaml:"id"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Parent string  `yaml:"parent"`
}

// SpringConfig mirrors easing.SpringConfig in YAML.
type SpringConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Period    float64 `yaml:"period"`
}

func (s *SpringConfig) toEasing() *easing.SpringConfig {
	if s == nil {
		return nil
	}
	return &easing.SpringConfig{Amplitude: s.Amplitude, Period: s.Period}
}

// TimingConfig is a slot's default timing.
type TimingConfig struct {
	Duration int64         `yaml:"duration"`
	Delay    int64         `yaml:"delay"`
	Easing   string        `yaml:"easing"`
	Spring   *SpringConfig `yaml:"spring"`
}

// PropertyConfig declares one animated property within a slot.
type PropertyConfig struct {
	Name     string        `yaml:"name"`
	From     string        `yaml:"from"`
	To       string        `yaml:"to"`
	Unit     string        `yaml:"unit"`
	Duration int64         `yaml:"duration"`
	Delay    int64         `yaml:"delay"`
	Easing   string        `yaml:"easing"`
	Spring   *SpringConfig `yaml:"spring"`
}

// SlotConfig declares one animation slot.
type SlotConfig struct {
	ID         string           `yaml:"id"`
	Timing     TimingConfig     `yaml:"timing"`
	Properties []PropertyConfig `yaml:"properties"`
}

// StaggerConfig declares per-group staggering.
type StaggerConfig struct {
	Delay    int64  `yaml:"delay"`
	Forward  string `yaml:"forward"`
	Backward string `yaml:"backward"`
}

// GroupConfig declares one choreographed group.
type GroupConfig struct {
	ID       string        `yaml:"id"`
	Elements []string      `yaml:"elements"`
	Slot     string        `yaml:"slot"`
	Behavior string        `yaml:"behavior"`
	Stagger  StaggerConfig `yaml:"stagger"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses a document from r.
func Read(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &d, nil
}

// BuildRegistry creates the element registry the document declares.
func (d *Document) BuildRegistry() *style.Registry {
	reg := style.NewRegistry(d.Viewport.Width, d.Viewport.Height)
	byID := make(map[string]*style.Element, len(d.Elements))
	for _, ec := range d.Elements {
		e := style.NewElement(ec.ID, ec.Width, ec.Height)
		byID[ec.ID] = e
	}
	for _, ec := range d.Elements {
		if ec.Parent != "" {
			byID[ec.ID].Parent = byID[ec.Parent]
		}
		reg.Attach(byID[ec.ID])
	}
	return reg
}

// Slot converts a slot declaration into its engine form.
func (s SlotConfig) Slot() engine.Slot {
	slot := engine.Slot{
		ID: s.ID,
		Timing: engine.Timing{
			DurationMs: s.Timing.Duration,
			DelayMs:    s.Timing.Delay,
			Easing:     s.Timing.Easing,
			Spring:     s.Timing.Spring.toEasing(),
		},
	}
	for _, p := range s.Properties {
		slot.Properties = append(slot.Properties, engine.Property{
			Name:       p.Name,
			From:       p.From,
			To:         p.To,
			Unit:       p.Unit,
			DurationMs: p.Duration,
			DelayMs:    p.Delay,
			Easing:     p.Easing,
			Spring:     p.Spring.toEasing(),
		})
	}
	return slot
}

// SlotByID finds a slot declaration by id.
func (d *Document) SlotByID(id string) (SlotConfig, bool) {
	for _, s := range d.Slots {
		if s.ID == id {
			return s, true
		}
	}
	return SlotConfig{}, false
}

// StaggerConfig converts a group's stagger declaration.
func (g GroupConfig) StaggerConfig() stagger.Config {
	return stagger.Config{
		DelayMs:  g.Stagger.Delay,
		Forward:  stagger.Order(g.Stagger.Forward),
		Backward: stagger.Order(g.Stagger.Backward),
	}
}

// ParseBehavior maps a behavior name to its engine value.
func ParseBehavior(s string) (engine.Behavior, error) {
	switch s {
	case "", "forward":
		return engine.PlayForward, nil
	case "backward":
		return engine.PlayBackward, nil
	case "forwardAndReset":
		return engine.PlayForwardAndReset, nil
	case "backwardAndReset":
		return engine.PlayBackwardAndReset, nil
	case "forwardAndReverse":
		return engine.PlayForwardAndReverse, nil
	case "backwardAndReverse":
		return engine.PlayBackwardAndReverse, nil
	}
	return engine.PlayForward, fmt.Errorf("config: unknown behavior %q", s)
}
