package interp

import (
	"fmt"
	"strings"
)

// Context carries the element and viewport geometry needed to resolve
// relative units to an absolute basis. Lengths resolve to pixels; angle
// units normalize to degrees.
type Context struct {
	ElementW, ElementH   float64
	ParentW, ParentH     float64
	ViewportW, ViewportH float64
	FontSize             float64
	RootFontSize         float64
}

// transformProps name the transform channels. Percent values on these
// resolve against the element's own box; on anything else, against the
// parent box.
var transformProps = map[string]bool{
	"translateX": true,
	"translateY": true,
	"translateZ": true,
	"scale":      true,
	"scaleX":     true,
	"scaleY":     true,
	"rotate":     true,
	"skewX":      true,
	"skewY":      true,
}

// IsTransformProp reports whether prop is a transform channel.
func IsTransformProp(prop string) bool {
	return transformProps[prop]
}

// horizontalProp reports whether prop measures along the horizontal axis.
func horizontalProp(prop string) bool {
	switch prop {
	case "translateX", "width", "left", "right", "margin-left", "margin-right",
		"padding-left", "padding-right", "min-width", "max-width":
		return true
	}
	return false
}

// percentBasis picks the length a percentage of prop resolves against.
func (c *Context) percentBasis(prop string) float64 {
	horizontal := horizontalProp(prop)
	if IsTransformProp(prop) {
		if horizontal {
			return c.ElementW
		}
		return c.ElementH
	}
	if horizontal {
		if c.ParentW > 0 {
			return c.ParentW
		}
		return c.ViewportW
	}
	if c.ParentH > 0 {
		return c.ParentH
	}
	return c.ViewportH
}

// ToPixels resolves num expressed in unit to the absolute basis for prop.
func (c *Context) ToPixels(num float64, unit, prop string) (float64, error) {
	basis, err := c.unitBasis(unit, prop)
	if err != nil {
		return 0, err
	}
	return num * basis, nil
}

// FromPixels re-expresses an absolute value in unit. It is the exact inverse
// of ToPixels for the same context, property and unit.
func (c *Context) FromPixels(px float64, unit, prop string) (float64, error) {
	basis, err := c.unitBasis(unit, prop)
	if err != nil {
		return 0, err
	}
	if basis == 0 {
		return 0, fmt.Errorf("interp: zero basis converting to %q for %q", unit, prop)
	}
	return px / basis, nil
}

// unitBasis returns the pixel size of one unit for prop.
func (c *Context) unitBasis(unit, prop string) (float64, error) {
	switch unit {
	case "", "px", "deg":
		return 1, nil
	case "rad":
		return 180 / 3.141592653589793, nil
	case "%":
		return c.percentBasis(prop) / 100, nil
	case "em":
		return c.FontSize, nil
	case "rem":
		return c.RootFontSize, nil
	case "vw":
		return c.ViewportW / 100, nil
	case "vh":
		return c.ViewportH / 100, nil
	case "vmin":
		if c.ViewportW < c.ViewportH {
			return c.ViewportW / 100, nil
		}
		return c.ViewportH / 100, nil
	case "vmax":
		if c.ViewportW > c.ViewportH {
			return c.ViewportW / 100, nil
		}
		return c.ViewportH / 100, nil
	}
	return 0, fmt.Errorf("interp: unsupported unit %q", unit)
}

// Resolve brings any unit-tagged or numeric value onto the absolute basis
// for prop. calc() expressions resolve term by term.
func (c *Context) Resolve(v Value, prop string) (float64, error) {
	switch v.Kind {
	case KindNumeric:
		return v.Num, nil
	case KindUnit:
		if v.Unit == "calc" {
			return c.resolveCalc(v.Expr, prop)
		}
		return c.ToPixels(v.Num, v.Unit, prop)
	}
	return 0, fmt.Errorf("interp: value of kind %d has no length", v.Kind)
}

// resolveCalc evaluates a calc() expression of unit terms joined by + and -.
// Terms resolve independently to pixels, e.g. calc(100% - 50px).
func (c *Context) resolveCalc(expr, prop string) (float64, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(expr), "calc("), ")")
	total := 0.0
	sign := 1.0
	for _, field := range strings.Fields(inner) {
		switch field {
		case "+":
			sign = 1
			continue
		case "-":
			sign = -1
			continue
		}
		num, unit, err := splitNumUnit(field)
		if err != nil {
			return 0, fmt.Errorf("interp: bad calc term %q in %q: %w", field, expr, err)
		}
		px, err := c.ToPixels(num, unit, prop)
		if err != nil {
			return 0, err
		}
		total += sign * px
		sign = 1
	}
	return total, nil
}
