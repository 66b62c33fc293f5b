package layout

import (
	"fmt"
	"sort"

	apperrors "dietchart/internal/errors"
)

type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// Geometry holds the layout constants of one chart variant. All y offsets are
// measured inside the margin-translated drawing area.
type Geometry struct {
	Name          string     `yaml:"name"`
	Width         float64    `yaml:"width"`
	Height        float64    `yaml:"height"`
	Margin        Margin     `yaml:"margin"`
	ChartHeight   float64    `yaml:"chart_height"`
	PanelStep     float64    `yaml:"panel_step"`
	TitleMargin   float64    `yaml:"title_margin"`
	PlotX         float64    `yaml:"plot_x"`
	AgeRange      [2]float64 `yaml:"age_range"`
	TopAxisPad    float64    `yaml:"top_axis_pad"`
	BottomAxisPad float64    `yaml:"bottom_axis_pad"`
	GridTopPad    float64    `yaml:"grid_top_pad"`
	PanelTitleY   float64    `yaml:"panel_title_y"`
	MarkerY       float64    `yaml:"marker_y"`
	MarkerRadius  float64    `yaml:"marker_radius"`
	MarkerNudge   float64    `yaml:"marker_nudge"`
	PeakColors    [2]string  `yaml:"peak_colors"`
	LegendColor   string     `yaml:"legend_color"`
	TickCount     int        `yaml:"tick_count"`
}

// InnerWidth is the drawing width between the left and right margins.
func (g Geometry) InnerWidth() float64 {
	return g.Width - g.Margin.Left - g.Margin.Right
}

// ValueRange is the vertical pixel range of a panel, bottom first.
func (g Geometry) ValueRange() [2]float64 {
	return [2]float64{g.ChartHeight - 1.5*g.Margin.Bottom, g.Margin.Top}
}

// Validate checks the constants a layout cannot be derived without.
func (g Geometry) Validate() error {
	switch {
	case g.Width <= 0 || g.Height <= 0:
		return apperrors.ConfigInvalid("geometry width and height must be positive")
	case g.InnerWidth() <= 0:
		return apperrors.ConfigInvalid("geometry margins leave no drawing width")
	case g.ChartHeight <= 0 || g.PanelStep <= 0:
		return apperrors.ConfigInvalid("geometry chart_height and panel_step must be positive")
	case g.AgeRange[0] == g.AgeRange[1]:
		return apperrors.ConfigInvalid("geometry age_range must span some pixels")
	case g.TickCount <= 0:
		return apperrors.ConfigInvalid("geometry tick_count must be positive")
	}
	vr := g.ValueRange()
	if vr[0] == vr[1] {
		return apperrors.ConfigInvalid("geometry chart_height leaves no vertical room for values")
	}
	for _, c := range []string{g.PeakColors[0], g.PeakColors[1], g.LegendColor} {
		if _, err := ParseHexColor(c); err != nil {
			return apperrors.WithCode(apperrors.CodeConfigInvalid, err)
		}
	}
	return nil
}

// Standard is the layout of the published chart.
func Standard() Geometry {
	g := Geometry{
		Name:          "standard",
		Width:         800,
		Height:        1130,
		Margin:        Margin{Top: 20, Right: 20, Bottom: 30, Left: 40},
		ChartHeight:   85,
		PanelStep:     25,
		TitleMargin:   135,
		PlotX:         200,
		TopAxisPad:    10,
		BottomAxisPad: 25,
		GridTopPad:    15,
		PanelTitleY:   30,
		MarkerY:       20,
		MarkerRadius:  6,
		MarkerNudge:   3,
		PeakColors:    [2]string{"#6a87a1", "#04213b"},
		LegendColor:   "#4a5e70",
		TickCount:     10,
	}
	g.AgeRange = [2]float64{100, g.InnerWidth() - 400}
	return g
}

// Tall spreads the panels further apart for datasets with many columns.
func Tall() Geometry {
	g := Standard()
	g.Name = "tall"
	g.Height = 1600
	g.ChartHeight = 95
	g.PanelStep = 38
	g.PanelTitleY = 40
	g.TopAxisPad = 20
	g.BottomAxisPad = 38
	return g
}

var presets = map[string]func() Geometry{
	"standard": Standard,
	"tall":     Tall,
}

// Preset returns the named geometry.
func Preset(name string) (Geometry, error) {
	if name == "" {
		return Standard(), nil
	}
	p, ok := presets[name]
	if !ok {
		return Geometry{}, apperrors.ConfigInvalid(fmt.Sprintf("unknown geometry preset %q (have %v)", name, PresetNames()))
	}
	return p(), nil
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
