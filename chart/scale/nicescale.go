// Package scale computes human friendly axis ranges and tick marks.
package scale

import (
	"math"
	"strconv"
)

const (
	DefaultMaxTicks = 5
	// MaxTicksLimit caps the requested tick count.
	MaxTicksLimit = 50
)

// NiceScale is the result of Heckbert's "nice numbers for graph labels".
type NiceScale struct {
	Min         float64
	Max         float64
	MaxTicks    int
	NiceMin     float64
	NiceMax     float64
	TickSpacing float64
}

// New returns a scale covering [min, max] with about maxTicks ticks.
// maxTicks is clamped to [2, MaxTicksLimit].
func New(min, max float64, maxTicks int) NiceScale {
	if maxTicks < 2 {
		maxTicks = 2
	}
	if maxTicks > MaxTicksLimit {
		maxTicks = MaxTicksLimit
	}
	if isBad(min) || isBad(max) || isBad(max-min) {
		min, max = 0, 1
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		if min == 0 {
			min, max = -1, 1
		} else {
			d := math.Abs(min) / 2
			min, max = min-d, max+d
		}
	}

	s := NiceScale{
		Min:      min,
		Max:      max,
		MaxTicks: maxTicks,
	}
	s.calculate()
	return s
}

func (s *NiceScale) calculate() {
	spread := niceNum(s.Max-s.Min, false)
	s.TickSpacing = niceNum(spread/float64(s.MaxTicks-1), true)
	s.NiceMin = snap(math.Floor(s.Min/s.TickSpacing)*s.TickSpacing, s.TickSpacing)
	s.NiceMax = snap(math.Ceil(s.Max/s.TickSpacing)*s.TickSpacing, s.TickSpacing)
}

// IncludeZero returns a scale whose range also covers zero.
func (s NiceScale) IncludeZero() NiceScale {
	if s.Min <= 0 && s.Max >= 0 {
		return s
	}
	return New(math.Min(s.Min, 0), math.Max(s.Max, 0), s.MaxTicks)
}

// Ticks returns every tick from NiceMin to NiceMax inclusive.
func (s NiceScale) Ticks() []float64 {
	span := (s.NiceMax - s.NiceMin) / s.TickSpacing
	if isBad(span) || span < 0 {
		return nil
	}
	n := int(math.Round(span)) + 1
	ticks := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		ticks = append(ticks, snap(s.NiceMin+float64(i)*s.TickSpacing, s.TickSpacing))
	}
	return ticks
}

// Precision returns the number of decimals needed to print a tick.
func (s NiceScale) Precision() int {
	return precision(s.TickSpacing)
}

// Label formats v with the scale's precision.
func (s NiceScale) Label(v float64) string {
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', s.Precision(), 64)
}

// Scale maps v into [0, pixels] relative to the nice range.
func (s NiceScale) Scale(v, pixels float64) float64 {
	span := s.NiceMax - s.NiceMin
	if span == 0 {
		return 0
	}
	return (v - s.NiceMin) / span * pixels
}

// niceNum returns a "nice" number approximately equal to x. The number is
// rounded if round is true, converted to its ceiling otherwise.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)

	var nf float64
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 3:
			nf = 2
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f <= 1:
			nf = 1
		case f <= 2:
			nf = 2
		case f <= 5:
			nf = 5
		default:
			nf = 10
		}
	}
	return nf * math.Pow(10, exp)
}

func precision(spacing float64) int {
	if spacing <= 0 || isBad(spacing) {
		return 0
	}
	return int(math.Max(-math.Floor(math.Log10(spacing)), 0))
}

// snap rounds v to the decimal precision of spacing, removing float drift
// such as 0.30000000000000004.
func snap(v, spacing float64) float64 {
	p := math.Pow(10, float64(precision(spacing)))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

func isBad(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
