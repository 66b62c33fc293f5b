package models

import (
	"encoding/json"
	"strings"
)

// Value is a parsed number that may be absent. Invalid values are skipped by
// every comparison and aggregation instead of propagating NaN.
type Value struct {
	V     float64
	Valid bool
}

// Num returns a valid Value.
func Num(v float64) Value {
	return Value{V: v, Valid: true}
}

// Missing returns an invalid Value.
func Missing() Value {
	return Value{}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Num(f)
	return nil
}

// Record is one prepared row: the age and the selected nutrient columns.
type Record struct {
	Age    Value            `json:"age"`
	Values map[string]Value `json:"values"`
}

// ColumnSummary holds the peak of one nutrient column. PeakAgeValid is false
// when the record holding the peak has no age.
type ColumnSummary struct {
	Column       string  `json:"column"`
	DisplayName  string  `json:"display_name"`
	PeakValue    float64 `json:"max_value"`
	PeakAge      float64 `json:"max_age"`
	HasPeak      bool    `json:"has_peak"`
	PeakAgeValid bool    `json:"max_age_valid"`
}

// Placed reports whether the peak can be put on the age axis.
func (s ColumnSummary) Placed() bool {
	return s.HasPeak && s.PeakAgeValid
}

// DisplayName turns a dataset column name into a label ("Whole.grains" -> "Whole grains").
func DisplayName(column string) string {
	return strings.ReplaceAll(column, ".", " ")
}

// --- LAYOUT OUTPUT ---

type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type Scale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
	Ticks  []Tick     `json:"ticks,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Marker is the peak decoration of a panel. Tooltip carries the hover text.
type Marker struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"r"`
	Color   string  `json:"color"`
	Age     float64 `json:"max_age"`
	Value   float64 `json:"max_value"`
	Tooltip string  `json:"tooltip"`
}

// Panel is one small chart. Coordinates are relative to (PlotX, OffsetY).
type Panel struct {
	Index       int     `json:"index"`
	Column      string  `json:"column"`
	DisplayName string  `json:"display_name"`
	OffsetY     float64 `json:"offset_y"`
	TitleY      float64 `json:"title_y"`
	Baseline    float64 `json:"baseline_y"`
	Empty       bool    `json:"empty"`
	ValueScale  Scale   `json:"value_scale"`
	Path        []Point `json:"path"`
	Marker      *Marker `json:"marker,omitempty"`
}

type Legend struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Radius float64 `json:"r"`
}

// ChartLayout is everything the renderer needs; it does no arithmetic of its own.
type ChartLayout struct {
	Preset      string    `json:"preset"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	OriginX     float64   `json:"origin_x"`
	OriginY     float64   `json:"origin_y"`
	PlotX       float64   `json:"plot_x"`
	LabelX      float64   `json:"label_x"`
	BaselineEnd float64   `json:"baseline_end_x"`
	Title       string    `json:"title"`
	TitleY      float64   `json:"title_y"`
	Subtitle    string    `json:"subtitle"`
	SubtitleY   float64   `json:"subtitle_y"`
	SourceNote  string    `json:"source_note"`
	SourceNoteY float64   `json:"source_note_y"`
	AgeScale    Scale     `json:"age_scale"`
	TopAxisY    float64   `json:"top_axis_y"`
	BottomAxisY float64   `json:"bottom_axis_y"`
	AxisLabel   string    `json:"axis_label"`
	AxisLabelX  float64   `json:"axis_label_x"`
	AxisLabelY  float64   `json:"axis_label_y"`
	GridX       []float64 `json:"grid_x"`
	GridTop     float64   `json:"grid_top"`
	GridBottom  float64   `json:"grid_bottom"`
	Legend      Legend    `json:"legend"`
	Panels      []Panel   `json:"panels"`
}

// Dashboard is the published result of one load.
type Dashboard struct {
	Source   string          `json:"source"`
	Columns  []string        `json:"columns"`
	Ordering []ColumnSummary `json:"ordering"`
	Records  []Record        `json:"records"`
	Layout   *ChartLayout    `json:"layout"`
}
