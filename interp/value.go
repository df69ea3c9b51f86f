// Package interp computes in-between property values: it models property
// values as a tagged union, resolves mixed measurement units against element
// geometry, and blends two values by an eased (possibly overshooting)
// progress scalar.
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind discriminates the value union. Dispatch in Interpolate switches over
// Kind, never over raw strings.
type Kind int

const (
	// KindNumeric is a bare number with no unit.
	KindNumeric Kind = iota
	// KindUnit is a number tagged with a measurement unit, or a calc()
	// expression that resolves to one.
	KindUnit
	// KindColor is an RGB color with an independent alpha channel.
	KindColor
	// KindGradient is a multi-stop gradient.
	KindGradient
	// KindClip is a rectangular clip boundary.
	KindClip
)

// GradientStop is one color stop with its position in percent.
type GradientStop struct {
	Color colorful.Color
	Alpha float64
	Pos   float64
}

// Gradient is a parsed gradient: a type flag, a positional descriptor (the
// angle, for linear gradients) and ordered color stops.
type Gradient struct {
	Radial bool
	Angle  float64
	Stops  []GradientStop
}

// ClipEdge is one numeric component of a clip boundary.
type ClipEdge struct {
	Num  float64
	Unit string
}

// Clip is a rectangular inset clip boundary: top, right, bottom, left.
type Clip struct {
	Edges [4]ClipEdge
}

// Value is the tagged union of every animatable value shape.
type Value struct {
	Kind  Kind
	Num   float64
	Unit  string
	Expr  string // raw calc() expression when Unit == "calc"
	Color colorful.Color
	Alpha float64
	Grad  *Gradient
	Clip  *Clip
}

// Num makes a bare numeric Value.
func Num(n float64) Value {
	return Value{Kind: KindNumeric, Num: n}
}

// Scalar makes a unit-tagged Value.
func Scalar(n float64, unit string) Value {
	if unit == "" {
		return Num(n)
	}
	return Value{Kind: KindUnit, Num: n, Unit: unit}
}

// Parse parses a textual property value into the union. Recognized forms:
// bare numbers, unit-tagged numbers ("300px", "-50%", "1.5rem"), calc()
// expressions, hex and rgb()/rgba() colors, linear-/radial-gradient(), and
// inset() clip boundaries.
func Parse(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}, fmt.Errorf("interp: empty value")
	}

	switch {
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return Value{}, fmt.Errorf("interp: bad hex color %q: %w", s, err)
		}
		return Value{Kind: KindColor, Color: c, Alpha: 1}, nil
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseRGB(s)
	case strings.HasPrefix(s, "linear-gradient(") || strings.HasPrefix(s, "radial-gradient("):
		return parseGradient(s)
	case strings.HasPrefix(s, "inset("):
		return parseClip(s)
	case strings.HasPrefix(s, "calc(") && strings.HasSuffix(s, ")"):
		return Value{Kind: KindUnit, Unit: "calc", Expr: s}, nil
	}

	num, unit, err := splitNumUnit(s)
	if err != nil {
		return Value{}, err
	}
	return Scalar(num, unit), nil
}

// splitNumUnit splits "300px" into (300, "px"). A missing unit yields "".
func splitNumUnit(s string) (float64, string, error) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') ||
			((c == 'e' || c == 'E') && i > 0 && i+1 < len(s) && isExpTail(s[i+1])) {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return 0, "", fmt.Errorf("interp: not a numeric value: %q", s)
	}
	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", fmt.Errorf("interp: bad number in %q: %w", s, err)
	}
	return num, strings.TrimSpace(s[i:]), nil
}

func isExpTail(c byte) bool {
	return c == '+' || c == '-' || (c >= '0' && c <= '9')
}

func parseRGB(s string) (Value, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Value{}, fmt.Errorf("interp: malformed color %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Value{}, fmt.Errorf("interp: malformed color %q", s)
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Value{}, fmt.Errorf("interp: bad channel in %q: %w", s, err)
		}
		ch[i] = n / 255.0
	}
	alpha := 1.0
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Value{}, fmt.Errorf("interp: bad alpha in %q: %w", s, err)
		}
		alpha = a
	}
	return Value{
		Kind:  KindColor,
		Color: colorful.Color{R: ch[0], G: ch[1], B: ch[2]},
		Alpha: alpha,
	}, nil
}

// splitTopLevel splits on commas that are not nested inside parentheses, so
// gradient stops like "rgba(0, 0, 0, 0.5) 40%" stay whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func parseGradient(s string) (Value, error) {
	radial := strings.HasPrefix(s, "radial-gradient(")
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Value{}, fmt.Errorf("interp: malformed gradient %q", s)
	}
	parts := splitTopLevel(s[open+1 : len(s)-1])

	g := &Gradient{Radial: radial, Angle: 180}
	if radial {
		g.Angle = 0
	}
	if len(parts) > 0 && !radial && strings.HasSuffix(parts[0], "deg") {
		angle, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
		if err != nil {
			return Value{}, fmt.Errorf("interp: bad gradient angle %q: %w", parts[0], err)
		}
		g.Angle = angle
		parts = parts[1:]
	}
	if len(parts) < 2 {
		return Value{}, fmt.Errorf("interp: gradient needs at least two stops: %q", s)
	}

	for i, part := range parts {
		stop, err := parseStop(part, i, len(parts))
		if err != nil {
			return Value{}, err
		}
		g.Stops = append(g.Stops, stop)
	}
	return Value{Kind: KindGradient, Grad: g}, nil
}

// parseStop parses "color [pos%]". A missing position distributes the stop
// evenly across [0, 100] by its index.
func parseStop(s string, index, total int) (GradientStop, error) {
	colorPart := s
	pos := 100 * float64(index) / float64(total-1)
	if sp := strings.LastIndexByte(s, ' '); sp > 0 && strings.HasSuffix(s, "%") {
		if n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s[sp+1:]), "%"), 64); err == nil {
			pos = n
			colorPart = strings.TrimSpace(s[:sp])
		}
	}
	cv, err := Parse(colorPart)
	if err != nil {
		return GradientStop{}, fmt.Errorf("interp: bad gradient stop %q: %w", s, err)
	}
	if cv.Kind != KindColor {
		return GradientStop{}, fmt.Errorf("interp: gradient stop %q is not a color", s)
	}
	return GradientStop{Color: cv.Color, Alpha: cv.Alpha, Pos: pos}, nil
}

func parseClip(s string) (Value, error) {
	if !strings.HasSuffix(s, ")") {
		return Value{}, fmt.Errorf("interp: malformed clip %q", s)
	}
	fields := strings.Fields(s[len("inset(") : len(s)-1])

	var edges []ClipEdge
	for _, f := range fields {
		num, unit, err := splitNumUnit(f)
		if err != nil {
			return Value{}, fmt.Errorf("interp: bad clip component %q: %w", f, err)
		}
		if unit == "" {
			unit = "px"
		}
		edges = append(edges, ClipEdge{Num: num, Unit: unit})
	}

	c := &Clip{}
	switch len(edges) {
	case 1:
		c.Edges = [4]ClipEdge{edges[0], edges[0], edges[0], edges[0]}
	case 2:
		c.Edges = [4]ClipEdge{edges[0], edges[1], edges[0], edges[1]}
	case 4:
		copy(c.Edges[:], edges)
	default:
		return Value{}, fmt.Errorf("interp: clip wants 1, 2 or 4 components, got %d", len(edges))
	}
	return Value{Kind: KindClip, Clip: c}, nil
}

// String serializes a Value back to its textual form. Overshot color
// channels are clamped at this boundary only; numeric overshoot is kept.
func (v Value) String() string {
	switch v.Kind {
	case KindNumeric:
		return formatNum(v.Num)
	case KindUnit:
		if v.Unit == "calc" {
			return v.Expr
		}
		return formatNum(v.Num) + v.Unit
	case KindColor:
		c := v.Color.Clamped()
		if v.Alpha < 1 {
			r, g, b := c.RGB255()
			return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatNum(clamp01(v.Alpha)))
		}
		return c.Hex()
	case KindGradient:
		return v.Grad.String()
	case KindClip:
		return v.Clip.String()
	}
	return ""
}

func (g *Gradient) String() string {
	var b strings.Builder
	if g.Radial {
		b.WriteString("radial-gradient(")
	} else {
		fmt.Fprintf(&b, "linear-gradient(%sdeg", formatNum(g.Angle))
	}
	for i, s := range g.Stops {
		if i > 0 || !g.Radial {
			b.WriteString(", ")
		}
		b.WriteString(Value{Kind: KindColor, Color: s.Color, Alpha: s.Alpha}.String())
		fmt.Fprintf(&b, " %s%%", formatNum(s.Pos))
	}
	b.WriteString(")")
	return b.String()
}

func (c *Clip) String() string {
	parts := make([]string, 4)
	for i, e := range c.Edges {
		parts[i] = formatNum(e.Num) + e.Unit
	}
	return "inset(" + strings.Join(parts, " ") + ")"
}

func formatNum(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
