package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "dietchart/internal/errors"
)

// ColorScale interpolates linearly in RGB between two colors over a numeric domain.
type ColorScale struct {
	d0, d1   float64
	from, to drawing.Color
}

// ParseHexColor accepts "#rrggbb" or "rrggbb".
func ParseHexColor(hex string) (drawing.Color, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return drawing.Color{}, apperrors.InvalidInput(fmt.Sprintf("color %q is not #rrggbb", hex))
	}
	for _, c := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return drawing.Color{}, apperrors.InvalidInput(fmt.Sprintf("color %q is not #rrggbb", hex))
		}
	}
	return drawing.ColorFromHex(strings.ToLower(h)), nil
}

// HexColor formats c as "#rrggbb", ignoring alpha.
func HexColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// NewColorScale maps domain onto the gradient from -> to. A zero-width domain maps everything to from.
func NewColorScale(domain [2]float64, from, to string) (ColorScale, error) {
	f, err := ParseHexColor(from)
	if err != nil {
		return ColorScale{}, err
	}
	t, err := ParseHexColor(to)
	if err != nil {
		return ColorScale{}, err
	}
	return ColorScale{d0: domain[0], d1: domain[1], from: f, to: t}, nil
}

// At returns the color for v, clamped to the ends of the gradient.
func (s ColorScale) At(v float64) drawing.Color {
	t := 0.0
	if s.d1 != s.d0 {
		t = (v - s.d0) / (s.d1 - s.d0)
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
	}
	return drawing.Color{
		R: mix(s.from.R, s.to.R),
		G: mix(s.from.G, s.to.G),
		B: mix(s.from.B, s.to.B),
		A: 255,
	}
}

// Hex is At formatted as "#rrggbb".
func (s ColorScale) Hex(v float64) string {
	return HexColor(s.At(v))
}
