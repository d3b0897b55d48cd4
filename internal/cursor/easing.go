package cursor

import "math"

// Easing reshapes the normalized playhead fraction before it is mapped onto
// the path.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseIn         Easing = "easeIn"
	EaseOut        Easing = "easeOut"
	EaseInOut      Easing = "easeInOut"
	EaseCubicIn    Easing = "cubicIn"
	EaseCubicOut   Easing = "cubicOut"
	EaseCubicInOut Easing = "cubicInOut"
	EaseBackIn     Easing = "backIn"
	EaseBackOut    Easing = "backOut"
	EaseBackInOut  Easing = "backInOut"
	EaseElasticOut Easing = "elasticOut"
	EaseBounceOut  Easing = "bounceOut"
)

// Valid reports whether e names a known easing. The empty string is linear.
func (e Easing) Valid() bool {
	switch e {
	case "", EaseLinear, EaseIn, EaseOut, EaseInOut,
		EaseCubicIn, EaseCubicOut, EaseCubicInOut,
		EaseBackIn, EaseBackOut, EaseBackInOut,
		EaseElasticOut, EaseBounceOut:
		return true
	}
	return false
}

// Apply maps t in [0,1] through the easing curve.
func (e Easing) Apply(t float64) float64 {
	switch e {
	case EaseIn:
		return t * t

	case EaseOut:
		return t * (2 - t)

	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t

	case EaseCubicIn:
		return t * t * t

	case EaseCubicOut:
		u := 1 - t
		return 1 - u*u*u

	case EaseCubicInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2

	case EaseBackIn:
		const c1 = 1.70158
		return (c1+1)*t*t*t - c1*t*t

	case EaseBackOut:
		const c1 = 1.70158
		u := t - 1
		return 1 + (c1+1)*u*u*u + c1*u*u

	case EaseBackInOut:
		const c2 = 1.70158 * 1.525
		if t < 0.5 {
			return (math.Pow(2*t, 2) * ((c2+1)*2*t - c2)) / 2
		}
		return (math.Pow(2*t-2, 2)*((c2+1)*(t*2-2)+c2) + 2) / 2

	case EaseElasticOut:
		if t == 0 || t == 1 {
			return t
		}
		const c4 = (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1

	case EaseBounceOut:
		return bounceOut(t)
	}
	return t
}

func bounceOut(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}
