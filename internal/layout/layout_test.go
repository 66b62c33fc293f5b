package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dietchart/internal/engine"
	apperrors "dietchart/internal/errors"
	"dietchart/internal/models"
)

func dietRows() []map[string]string {
	return []map[string]string{
		{"age": "0.5", "Fruit": "10", "Milk": "300", "Nuts": "x", "Vitamin.C": "1"},
		{"age": "20", "Fruit": "50", "Milk": "120", "Nuts": "4", "Vitamin.C": "2"},
		{"age": "40", "Fruit": "50", "Milk": "100", "Nuts": "9", "Vitamin.C": "3"},
		{"age": "78.5", "Fruit": "30", "Milk": "90", "Nuts": "6", "Vitamin.C": "4"},
		{"age": "97.5", "Fruit": "99", "Milk": "999", "Nuts": "99", "Vitamin.C": "5"},
	}
}

func dietResult() *engine.Result {
	return engine.Run([]string{"age", "Fruit", "Milk", "Nuts", "Vitamin.C"}, dietRows(), engine.Options{Marker: "Vita", TrimCount: 1})
}

func TestBuildAgeScale(t *testing.T) {
	res := dietResult()

	s, err := BuildAgeScale(res.Records, [2]float64{100, 340}, 10)
	require.NoError(t, err)

	assert.Equal(t, [2]float64{0, 80}, s.Domain(), "78.5 nices up to 80")
	assert.Equal(t, 340.0, s.Map(80))
}

func TestBuildAgeScaleEmpty(t *testing.T) {
	_, err := BuildAgeScale(nil, [2]float64{100, 340}, 10)
	assert.Equal(t, apperrors.CodeEmptyDomain, apperrors.GetCode(err))

	noAges := []models.Record{{Age: models.Missing()}}
	_, err = BuildAgeScale(noAges, [2]float64{100, 340}, 10)
	assert.Equal(t, apperrors.CodeEmptyDomain, apperrors.GetCode(err))
}

func TestBuildValueScalePerColumn(t *testing.T) {
	res := dietResult()

	fruit, err := BuildValueScale(res.Records, "Fruit", [2]float64{40, 20})
	require.NoError(t, err)
	milk, err := BuildValueScale(res.Records, "Milk", [2]float64{40, 20})
	require.NoError(t, err)

	assert.Equal(t, [2]float64{0, 50}, fruit.Domain())
	assert.Equal(t, [2]float64{0, 300}, milk.Domain())
	assert.Equal(t, 20.0, fruit.Map(50))
	assert.Equal(t, 20.0, milk.Map(300))

	_, err = BuildValueScale(res.Records, "Eggs", [2]float64{40, 20})
	assert.Equal(t, apperrors.CodeEmptyDomain, apperrors.GetCode(err))
}

func TestColorScale(t *testing.T) {
	cs, err := NewColorScale([2]float64{0, 80}, "#6a87a1", "#04213b")
	require.NoError(t, err)

	assert.Equal(t, "#6a87a1", cs.Hex(0))
	assert.Equal(t, "#04213b", cs.Hex(80))
	assert.Equal(t, "#04213b", cs.Hex(500), "clamped above the domain")
	assert.Equal(t, "#37546e", cs.Hex(40))

	_, err = NewColorScale([2]float64{0, 1}, "blue", "#000000")
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestBuild(t *testing.T) {
	res := dietResult()

	out, err := Build(res, Standard(), DefaultLabels())
	require.NoError(t, err)

	// Fruit peaks at 20, Nuts at 40, Milk at 0.5
	require.Len(t, out.Panels, 3)
	assert.Equal(t, "Milk", out.Panels[0].Column)
	assert.Equal(t, "Fruit", out.Panels[1].Column)
	assert.Equal(t, "Nuts", out.Panels[2].Column)

	assert.Equal(t, 135.0, out.Panels[0].OffsetY)
	assert.Equal(t, 160.0, out.Panels[1].OffsetY)
	assert.Equal(t, 40.0, out.Panels[1].Baseline)

	fruit := out.Panels[1]
	require.NotNil(t, fruit.Marker)
	assert.Equal(t, 20.0, fruit.Marker.Age)
	assert.Equal(t, 50.0, fruit.Marker.Value)
	assert.Equal(t, 100+20*3+3.0, fruit.Marker.X)
	assert.Equal(t, "Fruit\nAge: 20", fruit.Marker.Tooltip)
	require.Len(t, fruit.Path, 4)
	assert.InDelta(t, 335.5, fruit.Path[3].X, 1e-9)
	assert.InDelta(t, 28.0, fruit.Path[3].Y, 1e-9)

	// Nuts has an unparseable first value, so one point fewer
	assert.Len(t, out.Panels[2].Path, 3)

	assert.Equal(t, [2]float64{0, 80}, out.AgeScale.Domain)
	assert.Len(t, out.AgeScale.Ticks, 9)
	assert.Equal(t, []float64{300, 330, 360, 390, 420, 450, 480, 510, 540}, out.GridX)
	assert.Equal(t, 145.0, out.TopAxisY)
	assert.Equal(t, 135+3*25+25.0, out.BottomAxisY)
	assert.Equal(t, "How Does Age Shape Our Diet?", out.Title)
	assert.Equal(t, 1130.0, out.Height)
}

func TestBuildNoColumns(t *testing.T) {
	res := engine.Run([]string{"age", "Vitamin.C"}, dietRows(), engine.Options{Marker: "Vita"})

	out, err := Build(res, Standard(), DefaultLabels())
	require.NoError(t, err)
	assert.Empty(t, out.Panels)
}

func TestBuildNoAges(t *testing.T) {
	rows := []map[string]string{{"age": "?", "Fruit": "1"}}
	res := engine.Run([]string{"age", "Fruit"}, rows, engine.Options{})

	_, err := Build(res, Standard(), DefaultLabels())
	assert.Equal(t, apperrors.CodeEmptyDomain, apperrors.GetCode(err))
}

func TestBuildEmptyColumn(t *testing.T) {
	rows := []map[string]string{
		{"age": "10", "Fruit": "1", "Salt": "0"},
		{"age": "20", "Fruit": "2", "Salt": "0"},
	}
	res := engine.Run([]string{"age", "Fruit", "Salt"}, rows, engine.Options{})

	out, err := Build(res, Standard(), DefaultLabels())
	require.NoError(t, err)
	require.Len(t, out.Panels, 2)

	salt := out.Panels[0]
	assert.Equal(t, "Salt", salt.Column)
	assert.True(t, salt.Empty)
	for _, p := range salt.Path {
		assert.Equal(t, salt.Baseline, p.Y)
	}
}

func TestBuildUnagedPeak(t *testing.T) {
	rows := []map[string]string{
		{"age": "10", "Fruit": "5", "Milk": "4"},
		{"age": "n/a", "Fruit": "100", "Milk": "1"},
		{"age": "30", "Fruit": "7", "Milk": "8"},
	}
	res := engine.Run([]string{"age", "Fruit", "Milk"}, rows, engine.Options{})

	fruitScale, err := BuildValueScale(res.Records, "Fruit", [2]float64{40, 20})
	require.NoError(t, err)
	assert.Equal(t, [2]float64{0, 100}, fruitScale.Domain(), "unaged rows count toward the value domain")

	out, err := Build(res, Standard(), DefaultLabels())
	require.NoError(t, err)
	require.Len(t, out.Panels, 2)

	// Fruit's peak has no age to place it at, so it sorts last and gets no marker
	assert.Equal(t, "Milk", out.Panels[0].Column)
	require.NotNil(t, out.Panels[0].Marker)
	fruit := out.Panels[1]
	assert.Equal(t, "Fruit", fruit.Column)
	assert.Nil(t, fruit.Marker)
	require.Len(t, fruit.Path, 2)
	assert.InDelta(t, 38.6, fruit.Path[1].Y, 1e-9)
}

func TestBuildIdempotent(t *testing.T) {
	a, err := Build(dietResult(), Standard(), DefaultLabels())
	require.NoError(t, err)
	b, err := Build(dietResult(), Standard(), DefaultLabels())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPreset(t *testing.T) {
	g, err := Preset("")
	require.NoError(t, err)
	assert.Equal(t, "standard", g.Name)
	assert.Equal(t, [2]float64{100, 340}, g.AgeRange)
	assert.Equal(t, [2]float64{40, 20}, g.ValueRange())

	tall, err := Preset("tall")
	require.NoError(t, err)
	assert.NoError(t, tall.Validate())

	_, err = Preset("poster")
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
	assert.Equal(t, []string{"standard", "tall"}, PresetNames())
}

func TestGeometryValidate(t *testing.T) {
	g := Standard()
	g.PeakColors[1] = "nope"
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(g.Validate()))

	g = Standard()
	g.AgeRange = [2]float64{5, 5}
	assert.Error(t, g.Validate())
}
