package stream

import (
	"encoding/json"

	"github.com/matt-g-everett/motive/style"
)

// Frame is one published snapshot of the animated style state: every
// attached element's current style map at a given runtime instant.
type Frame struct {
	RuntimeMs int64                        `json:"runtimeMs"`
	Elements  map[string]map[string]string `json:"elements"`
}

// NewFrame captures a frame from the registry.
func NewFrame(runtimeMs int64, reg *style.Registry) *Frame {
	f := new(Frame)
	f.RuntimeMs = runtimeMs
	f.Elements = make(map[string]map[string]string, reg.Len())
	reg.Each(func(e *style.Element) {
		f.Elements[e.ID] = e.Styles()
	})
	return f
}

// Marshal converts a Frame into its wire payload.
func (f *Frame) Marshal() ([]byte, error) {
	return json.Marshal(f)
}
