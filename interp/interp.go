package interp

import (
	"log"

	"github.com/lucasb-eyer/go-colorful"
)

// Interpolate blends from and to by the eased progress p and returns the
// in-between value. p has already been eased and may lie outside [0, 1];
// the blend is applied as-is so overshoot survives all the way to the
// output (re-clamping here would silently kill every spring effect).
//
// Structured values (gradients, clips) that cannot be blended — mismatched
// shape, unparseable input — never fail: they fall back to a hard switch at
// the 50% threshold and log a warning.
func Interpolate(from, to Value, p float64, prop string, ctx *Context) Value {
	switch {
	case from.Kind == KindNumeric && to.Kind == KindNumeric:
		return Num(lerp(from.Num, to.Num, p))

	case isLength(from) && isLength(to):
		return blendLength(from, to, p, prop, ctx)

	case from.Kind == KindColor && to.Kind == KindColor:
		return blendColor(from, to, p)

	case from.Kind == KindGradient && to.Kind == KindGradient:
		return blendGradient(from, to, p, prop)

	case from.Kind == KindClip && to.Kind == KindClip:
		return blendClip(from, to, p, prop, ctx)
	}

	log.Printf("interp: cannot blend %q values of kind %d and %d, switching at 50%%", prop, from.Kind, to.Kind)
	return hardSwitch(from, to, p)
}

// hardSwitch is the documented fallback for structurally incompatible
// values: hold the start value until halfway, then jump to the end value.
func hardSwitch(from, to Value, p float64) Value {
	if p < 0.5 {
		return from
	}
	return to
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func isLength(v Value) bool {
	return v.Kind == KindNumeric || v.Kind == KindUnit
}

// blendLength blends two scalar lengths. Same-unit pairs blend directly and
// keep their unit. Differing units (or calc expressions) resolve both sides
// to the absolute basis first and the result is tagged px — this is what
// lets "100vw" animate smoothly into "-50%".
func blendLength(from, to Value, p float64, prop string, ctx *Context) Value {
	if from.Kind == KindUnit && to.Kind == KindUnit && from.Unit == to.Unit && from.Unit != "calc" {
		return Scalar(lerp(from.Num, to.Num, p), from.Unit)
	}
	// A bare number next to a unit-tagged one adopts that unit.
	if from.Kind == KindNumeric && to.Kind == KindUnit && to.Unit != "calc" {
		return Scalar(lerp(from.Num, to.Num, p), to.Unit)
	}
	if from.Kind == KindUnit && to.Kind == KindNumeric && from.Unit != "calc" {
		return Scalar(lerp(from.Num, to.Num, p), from.Unit)
	}

	if ctx == nil {
		log.Printf("interp: no element context to convert %q (%s -> %s), switching at 50%%", prop, from.Unit, to.Unit)
		return hardSwitch(from, to, p)
	}
	a, errA := ctx.Resolve(from, prop)
	b, errB := ctx.Resolve(to, prop)
	if errA != nil || errB != nil {
		if errA != nil {
			log.Printf("interp: %v, switching at 50%%", errA)
		} else {
			log.Printf("interp: %v, switching at 50%%", errB)
		}
		return hardSwitch(from, to, p)
	}
	unit := "px"
	if from.Unit == "deg" || from.Unit == "rad" || to.Unit == "deg" || to.Unit == "rad" {
		unit = "deg"
	}
	return Scalar(lerp(a, b, p), unit)
}

// blendColor blends per channel in RGB; alpha blends independently.
func blendColor(from, to Value, p float64) Value {
	return Value{
		Kind: KindColor,
		Color: colorful.Color{
			R: lerp(from.Color.R, to.Color.R, p),
			G: lerp(from.Color.G, to.Color.G, p),
			B: lerp(from.Color.B, to.Color.B, p),
		},
		Alpha: lerp(from.Alpha, to.Alpha, p),
	}
}

// blendGradient blends two gradients stop-wise when they share type and stop
// count; structural mismatch falls back to the hard switch.
func blendGradient(from, to Value, p float64, prop string) Value {
	a, b := from.Grad, to.Grad
	if a == nil || b == nil || a.Radial != b.Radial || len(a.Stops) != len(b.Stops) {
		log.Printf("interp: gradient shapes for %q do not match, switching at 50%%", prop)
		return hardSwitch(from, to, p)
	}
	out := &Gradient{
		Radial: a.Radial,
		Angle:  lerp(a.Angle, b.Angle, p),
		Stops:  make([]GradientStop, len(a.Stops)),
	}
	for i := range a.Stops {
		sa, sb := a.Stops[i], b.Stops[i]
		out.Stops[i] = GradientStop{
			Color: colorful.Color{
				R: lerp(sa.Color.R, sb.Color.R, p),
				G: lerp(sa.Color.G, sb.Color.G, p),
				B: lerp(sa.Color.B, sb.Color.B, p),
			},
			Alpha: lerp(sa.Alpha, sb.Alpha, p),
			Pos:   lerp(sa.Pos, sb.Pos, p),
		}
	}
	return Value{Kind: KindGradient, Grad: out}
}

// blendClip blends each edge of two clip boundaries. Edges with differing
// units resolve through the context; if that fails the whole value falls
// back to the hard switch.
func blendClip(from, to Value, p float64, prop string, ctx *Context) Value {
	a, b := from.Clip, to.Clip
	if a == nil || b == nil {
		log.Printf("interp: clip shapes for %q do not match, switching at 50%%", prop)
		return hardSwitch(from, to, p)
	}
	out := &Clip{}
	for i := range a.Edges {
		ea, eb := a.Edges[i], b.Edges[i]
		if ea.Unit == eb.Unit {
			out.Edges[i] = ClipEdge{Num: lerp(ea.Num, eb.Num, p), Unit: ea.Unit}
			continue
		}
		if ctx == nil {
			log.Printf("interp: no element context for clip edge units %s/%s on %q, switching at 50%%", ea.Unit, eb.Unit, prop)
			return hardSwitch(from, to, p)
		}
		pa, errA := ctx.ToPixels(ea.Num, ea.Unit, prop)
		pb, errB := ctx.ToPixels(eb.Num, eb.Unit, prop)
		if errA != nil || errB != nil {
			log.Printf("interp: cannot resolve clip edge units %s/%s on %q, switching at 50%%", ea.Unit, eb.Unit, prop)
			return hardSwitch(from, to, p)
		}
		out.Edges[i] = ClipEdge{Num: lerp(pa, pb, p), Unit: "px"}
	}
	return Value{Kind: KindClip, Clip: out}
}
