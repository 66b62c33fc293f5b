package layout

import (
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"

	apperrors "dietchart/internal/errors"
	"dietchart/internal/models"
)

// Tick increments snap to 1, 2, 5 and 10 times a power of ten
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a numeric domain onto a pixel range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale rejects non-finite and zero-width domains; mapping them would divide by zero.
func NewLinearScale(domain, rng [2]float64) (LinearScale, error) {
	for _, v := range []float64{domain[0], domain[1], rng[0], rng[1]} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return LinearScale{}, apperrors.InvalidInput("scale bounds must be finite")
		}
	}
	if domain[0] == domain[1] {
		return LinearScale{}, apperrors.EmptyDomain("scale")
	}
	return LinearScale{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}, nil
}

func (s LinearScale) Domain() [2]float64 { return [2]float64{s.d0, s.d1} }
func (s LinearScale) Range() [2]float64  { return [2]float64{s.r0, s.r1} }

// Map projects a domain value to the range. Values outside the domain extrapolate.
func (s LinearScale) Map(v float64) float64 {
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Invert projects a range value back to the domain.
func (s LinearScale) Invert(px float64) float64 {
	if s.r0 == s.r1 {
		return s.d0
	}
	return s.d0 + (px-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

// tickSpec returns the integer tick span [i1, i2] and the increment for about count ticks.
// A negative increment means the step is 1/-inc, which keeps fractional steps exact.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	return i1, i2, inc
}

func tickIncrement(start, stop float64, count int) float64 {
	_, _, inc := tickSpec(start, stop, count)
	return inc
}

// Nice extends the domain outward to round numbers so that about count ticks
// fall on it. Calling Nice on a nice scale returns it unchanged.
func (s LinearScale) Nice(count int) LinearScale {
	if count <= 0 {
		count = 10
	}
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	var prestep float64
loop:
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, count)
		if iter > 0 && step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break loop
		}
		prestep = step
	}

	if reversed {
		start, stop = stop, start
	}
	// Drop negative zeros left by the fractional branch
	s.d0, s.d1 = start+0, stop+0
	return s
}

// Ticks returns about count evenly spaced round values inside the domain.
func (s LinearScale) Ticks(count int) []chart.Tick {
	if count <= 0 {
		return nil
	}
	start, stop := s.d0, s.d1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}

	i1, i2, inc := tickSpec(start, stop, count)
	if i2 < i1 || math.IsNaN(inc) || math.IsInf(inc, 0) {
		return nil
	}

	step := inc
	if inc < 0 {
		step = -1 / inc
	}
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}

	n := int(i2-i1) + 1
	ticks := make([]chart.Tick, 0, n)
	for i := 0; i < n; i++ {
		var v float64
		if inc < 0 {
			v = (i1 + float64(i)) / -inc
		} else {
			v = (i1 + float64(i)) * inc
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v, decimals)})
	}
	if reversed {
		for l, r := 0, len(ticks)-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}
	return ticks
}

func formatTick(v float64, decimals int) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Model exports the scale, with ticks when tickCount > 0.
func (s LinearScale) Model(tickCount int) models.Scale {
	m := models.Scale{Domain: s.Domain(), Range: s.Range()}
	for _, t := range s.Ticks(tickCount) {
		m.Ticks = append(m.Ticks, models.Tick{Value: t.Value, Label: t.Label})
	}
	return m
}
