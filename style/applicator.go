package style

import (
	"github.com/matt-g-everett/motive/interp"
)

// Applicator routes interpolated values to the right output channel on an
// element: transform channels combine into the single composite transform
// style, everything else writes the property directly.
type Applicator struct {
	reg *Registry
}

// NewApplicator creates an applicator over the given registry.
func NewApplicator(reg *Registry) *Applicator {
	a := new(Applicator)
	a.reg = reg
	return a
}

// Apply writes one interpolated value onto the element. unit is a default
// suffix for bare numeric values; a value that already carries its own
// suffix is written as-is so the suffix is never doubled. Exactly one style
// mutation happens per call.
func (a *Applicator) Apply(e *Element, prop, value, unit string) {
	v := withUnit(value, unit)
	if interp.IsTransformProp(prop) {
		e.SetStyle("transform", Combine(e.Style("transform"), prop, v))
		return
	}
	e.SetStyle(prop, v)
}

// withUnit appends the default unit only when the value is a bare number.
// Anything already carrying a suffix, or any non-numeric value (colors,
// functions), is written as-is so a suffix is never doubled.
func withUnit(value, unit string) string {
	if unit == "" || !isBareNumber(value) {
		return value
	}
	return value + unit
}

func isBareNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return true
}
