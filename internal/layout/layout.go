package layout

import (
	"log"
	"math"

	"github.com/montanaflynn/stats"

	"dietchart/internal/engine"
	apperrors "dietchart/internal/errors"
	"dietchart/internal/models"
)

// Labels are the texts drawn around the panels.
type Labels struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	SourceNote  string `yaml:"source_note"`
	AxisLabel   string `yaml:"axis_label"`
	LegendLabel string `yaml:"legend_label"`
}

// DefaultLabels are the texts of the published chart.
func DefaultLabels() Labels {
	return Labels{
		Title:       "How Does Age Shape Our Diet?",
		Subtitle:    "Greek population dietary intake stratified by age",
		SourceNote:  "Data Source: GDD 2018 Estimates and Datafiles, accessed December 2024",
		AxisLabel:   "Age",
		LegendLabel: "Max value",
	}
}

// maxOf returns the maximum of the valid values picked from records.
func maxOf(records []models.Record, pick func(models.Record) models.Value) (float64, bool) {
	data := make(stats.Float64Data, 0, len(records))
	for _, r := range records {
		if v := pick(r); v.Valid {
			data = append(data, v.V)
		}
	}
	m, err := stats.Max(data)
	if err != nil {
		return 0, false
	}
	return m, true
}

func maxAge(records []models.Record) (float64, bool) {
	return maxOf(records, func(r models.Record) models.Value { return r.Age })
}

// BuildAgeScale maps [0, max age] onto pixelRange, with the upper bound niced
// to a round number. No valid positive age gives an EMPTY_DOMAIN error.
func BuildAgeScale(records []models.Record, pixelRange [2]float64, tickCount int) (LinearScale, error) {
	top, ok := maxAge(records)
	if !ok || top <= 0 {
		return LinearScale{}, apperrors.EmptyDomain("age scale")
	}
	s, err := NewLinearScale([2]float64{0, top}, pixelRange)
	if err != nil {
		return LinearScale{}, apperrors.Wrap(err, "age scale")
	}
	return s.Nice(tickCount), nil
}

// BuildValueScale maps [0, max of column] onto pixelRange. Each column gets its own scale.
func BuildValueScale(records []models.Record, column string, pixelRange [2]float64) (LinearScale, error) {
	top, ok := maxOf(records, func(r models.Record) models.Value { return r.Values[column] })
	if !ok || top <= 0 {
		return LinearScale{}, apperrors.EmptyDomain(column + " value scale")
	}
	s, err := NewLinearScale([2]float64{0, top}, pixelRange)
	if err != nil {
		return LinearScale{}, apperrors.Wrapf(err, "%s value scale", column)
	}
	return s, nil
}

// BuildColorScale maps [0, max age] onto the two peak colors.
func BuildColorScale(records []models.Record, colors [2]string) (ColorScale, error) {
	top, _ := maxAge(records)
	return NewColorScale([2]float64{0, top}, colors[0], colors[1])
}

// Build derives the complete chart layout from a pipeline result.
// Panels follow the peak-age ordering, one per selected column.
func Build(res *engine.Result, g Geometry, labels Labels) (*models.ChartLayout, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	n := len(res.Ordering)
	out := &models.ChartLayout{
		Preset:      g.Name,
		Width:       g.Width,
		Height:      g.Height,
		OriginX:     g.Margin.Left,
		OriginY:     g.Margin.Top,
		PlotX:       g.PlotX,
		LabelX:      0,
		BaselineEnd: g.AgeRange[1] + 5,
		Title:       labels.Title,
		TitleY:      g.Margin.Top + 33,
		Subtitle:    labels.Subtitle,
		SubtitleY:   g.Margin.Top + 70,
		SourceNote:  labels.SourceNote,
		AxisLabel:   labels.AxisLabel,
		TopAxisY:    g.TitleMargin + g.TopAxisPad,
		BottomAxisY: g.TitleMargin + float64(n)*g.PanelStep + g.BottomAxisPad,
		GridTop:     g.TitleMargin + g.GridTopPad,
		Panels:      make([]models.Panel, 0, n),
	}
	out.AxisLabelX = g.InnerWidth()/2 + 50
	out.AxisLabelY = out.BottomAxisY + 45
	out.GridBottom = out.BottomAxisY
	out.Height = math.Max(g.Height, out.AxisLabelY+110)
	out.SourceNoteY = out.Height - 50
	out.Legend = models.Legend{
		X:      6,
		Y:      out.Height - 105,
		Label:  labels.LegendLabel,
		Color:  g.LegendColor,
		Radius: g.MarkerRadius,
	}

	if n == 0 {
		log.Printf("[layout] no columns selected, nothing to lay out")
		return out, nil
	}

	// 1. Shared scales
	ageScale, err := BuildAgeScale(res.Records, g.AgeRange, g.TickCount)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build layout")
	}
	colorScale, err := BuildColorScale(res.Records, g.PeakColors)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, err)
	}

	out.AgeScale = ageScale.Model(g.TickCount)
	for _, t := range out.AgeScale.Ticks {
		out.GridX = append(out.GridX, g.PlotX+ageScale.Map(t.Value))
	}

	// 2. One panel per column, stacked in peak-age order
	for i, sum := range res.Ordering {
		panel := models.Panel{
			Index:       i,
			Column:      sum.Column,
			DisplayName: models.DisplayName(sum.Column),
			OffsetY:     g.TitleMargin + float64(i)*g.PanelStep,
			TitleY:      g.PanelTitleY,
		}

		valueScale, err := BuildValueScale(res.Records, sum.Column, g.ValueRange())
		if err != nil {
			// Nothing positive to normalise against: draw on a unit scale
			panel.Empty = true
			valueScale, _ = NewLinearScale([2]float64{0, 1}, g.ValueRange())
		}
		panel.ValueScale = valueScale.Model(0)
		panel.Baseline = valueScale.Map(0)

		for _, r := range res.Records {
			v := r.Values[sum.Column]
			if !r.Age.Valid || !v.Valid {
				continue
			}
			panel.Path = append(panel.Path, models.Point{X: ageScale.Map(r.Age.V), Y: valueScale.Map(v.V)})
		}

		if sum.Placed() {
			panel.Marker = &models.Marker{
				X:       ageScale.Map(sum.PeakAge) + g.MarkerNudge,
				Y:       g.MarkerY,
				Radius:  g.MarkerRadius,
				Color:   colorScale.Hex(sum.PeakAge),
				Age:     sum.PeakAge,
				Value:   sum.PeakValue,
				Tooltip: panel.DisplayName + "\nAge: " + formatAge(sum.PeakAge),
			}
		}
		out.Panels = append(out.Panels, panel)
	}

	return out, nil
}

func formatAge(age float64) string {
	return formatTick(age, decimalsOf(age))
}

// decimalsOf returns the digits needed to print v without trailing zeros (at most 3).
func decimalsOf(v float64) int {
	for d := 0; d < 3; d++ {
		p := math.Pow(10, float64(d))
		if math.Abs(v*p-math.Round(v*p)) < 1e-9 {
			return d
		}
	}
	return 3
}
