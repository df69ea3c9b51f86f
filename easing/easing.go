// Package easing maps normalized time to normalized progress. Input time is
// clamped to [0, 1] by callers before easing; the eased output is never
// clamped, so spring kinds are free to overshoot past 1 or dip below 0.
package easing

import (
	"log"
	"math"

	"github.com/fogleman/ease"
)

// Func maps a normalized time scalar to an eased progress scalar.
type Func func(t float64) float64

// SpringConfig controls the spring easing family. Amplitude sets the bounce
// height (values below 1 are treated as 1), Period the oscillation speed.
type SpringConfig struct {
	Amplitude float64
	Period    float64
}

const (
	defaultAmplitude   = 1.0
	defaultPeriod      = 0.3
	defaultInOutPeriod = 0.45
)

// named resolves every non-spring kind to its function. The non-spring kinds
// delegate to fogleman/ease; all of them hold ease(0)=0 and ease(1)=1.
var named = map[string]Func{
	"linear":      ease.Linear,
	"inQuad":      ease.InQuad,
	"outQuad":     ease.OutQuad,
	"inOutQuad":   ease.InOutQuad,
	"inCubic":     ease.InCubic,
	"outCubic":    ease.OutCubic,
	"inOutCubic":  ease.InOutCubic,
	"inQuart":     ease.InQuart,
	"outQuart":    ease.OutQuart,
	"inOutQuart":  ease.InOutQuart,
	"inQuint":     ease.InQuint,
	"outQuint":    ease.OutQuint,
	"inOutQuint":  ease.InOutQuint,
	"inSine":      ease.InSine,
	"outSine":     ease.OutSine,
	"inOutSine":   ease.InOutSine,
	"inExpo":      ease.InExpo,
	"outExpo":     ease.OutExpo,
	"inOutExpo":   ease.InOutExpo,
	"inCirc":      ease.InCirc,
	"outCirc":     ease.OutCirc,
	"inOutCirc":   ease.InOutCirc,
	"inBack":      ease.InBack,
	"outBack":     ease.OutBack,
	"inOutBack":   ease.InOutBack,
	"inBounce":    ease.InBounce,
	"outBounce":   ease.OutBounce,
	"inOutBounce": ease.InOutBounce,
}

// For resolves an easing kind to its function. Spring kinds are built from
// cfg; a nil cfg uses the default amplitude and period. An unknown kind is a
// configuration error, not a failure: it logs once per call and falls back
// to linear.
func For(kind string, cfg *SpringConfig) Func {
	switch kind {
	case "inSpring":
		a, p := springParams(cfg, defaultPeriod)
		return func(t float64) float64 { return springIn(t, a, p) }
	case "outSpring":
		a, p := springParams(cfg, defaultPeriod)
		return func(t float64) float64 { return springOut(t, a, p) }
	case "inOutSpring":
		a, p := springParams(cfg, defaultInOutPeriod)
		return func(t float64) float64 { return springInOut(t, a, p) }
	}

	if f, ok := named[kind]; ok {
		return f
	}
	if kind != "" {
		log.Printf("easing: unknown kind %q, falling back to linear", kind)
	}
	return ease.Linear
}

// Ease applies the named easing to t. The result is not clamped.
func Ease(t float64, kind string, cfg *SpringConfig) float64 {
	return For(kind, cfg)(t)
}

func springParams(cfg *SpringConfig, fallbackPeriod float64) (a, p float64) {
	a = defaultAmplitude
	p = fallbackPeriod
	if cfg != nil {
		if cfg.Amplitude > 0 {
			a = cfg.Amplitude
		}
		if cfg.Period > 0 {
			p = cfg.Period
		}
	}
	if a < 1 {
		a = 1
	}
	return a, p
}

// springOut is the exponentially decaying sine with parameterized amplitude
// and period. fogleman/ease ships elastic variants but pins amplitude at 1,
// so the spring family lives here.
func springOut(t, a, p float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	s := p / (2 * math.Pi) * math.Asin(1/a)
	return a*math.Pow(2, -10*t)*math.Sin((t-s)*(2*math.Pi)/p) + 1
}

func springIn(t, a, p float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	s := p / (2 * math.Pi) * math.Asin(1/a)
	t--
	return -(a * math.Pow(2, 10*t) * math.Sin((t-s)*(2*math.Pi)/p))
}

func springInOut(t, a, p float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	s := p / (2 * math.Pi) * math.Asin(1/a)
	t = t*2 - 1
	if t < 0 {
		return -0.5 * (a * math.Pow(2, 10*t) * math.Sin((t-s)*(2*math.Pi)/p))
	}
	return a*math.Pow(2, -10*t)*math.Sin((t-s)*(2*math.Pi)/p)*0.5 + 1
}

// Kinds lists every supported easing kind, springs included.
func Kinds() []string {
	kinds := make([]string, 0, len(named)+3)
	for k := range named {
		kinds = append(kinds, k)
	}
	return append(kinds, "inSpring", "outSpring", "inOutSpring")
}
