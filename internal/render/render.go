package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	apperrors "dietchart/internal/errors"
	"dietchart/internal/layout"
	"dietchart/internal/models"
)

// Format selects the output encoding.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// FormatFor picks the format from a file name, defaulting to SVG.
func FormatFor(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		return PNG
	}
	return SVG
}

var (
	gridColor  = drawing.Color{R: 0x9a, G: 0x9a, B: 0x9a, A: 255}
	lineColor  = drawing.Color{R: 0x04, G: 0x21, B: 0x3b, A: 128}
	textColor  = drawing.Color{R: 0x22, G: 0x22, B: 0x22, A: 255}
	mutedColor = drawing.Color{R: 0x6b, G: 0x6b, B: 0x6b, A: 255}
)

// canvas is the drawing handle passed to every element; it owns the renderer
// and the margin translation so no drawing state lives outside it.
type canvas struct {
	r      chart.Renderer
	ox, oy float64
}

func px(v float64) int {
	return int(math.Round(v))
}

func (c *canvas) line(x1, y1, x2, y2 float64, col drawing.Color, width float64) {
	c.r.SetStrokeColor(col)
	c.r.SetStrokeWidth(width)
	c.r.MoveTo(px(c.ox+x1), px(c.oy+y1))
	c.r.LineTo(px(c.ox+x2), px(c.oy+y2))
	c.r.Stroke()
}

func (c *canvas) text(body string, x, y, size float64, col drawing.Color) {
	c.r.SetFontSize(size)
	c.r.SetFontColor(col)
	c.r.Text(body, px(c.ox+x), px(c.oy+y))
}

func (c *canvas) centeredText(body string, x, y, size float64, col drawing.Color) {
	c.r.SetFontSize(size)
	w := c.r.MeasureText(body).Width()
	c.text(body, x-float64(w)/2, y, size, col)
}

func (c *canvas) dot(x, y, radius float64, col drawing.Color) {
	c.r.SetStrokeWidth(0)
	c.r.SetStrokeColor(drawing.ColorTransparent)
	c.r.SetFillColor(col)
	c.r.Circle(radius, px(c.ox+x), px(c.oy+y))
}

// Render draws the laid-out small multiples. It performs no numeric derivation beyond
// translating the layout's coordinates.
func Render(w io.Writer, l *models.ChartLayout, format Format) error {
	provider := chart.SVG
	if format == PNG {
		provider = chart.PNG
	}
	r, err := provider(px(l.Width), px(l.Height))
	if err != nil {
		return apperrors.Wrap(err, "failed to create renderer")
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return apperrors.Wrap(err, "failed to load font")
	}
	r.SetFont(font)

	c := &canvas{r: r, ox: l.OriginX, oy: l.OriginY}

	drawHeader(c, l)
	drawGrid(c, l)
	drawAxis(c, l, l.TopAxisY, -6)
	drawAxis(c, l, l.BottomAxisY, 16)
	c.centeredText(l.AxisLabel, l.AxisLabelX, l.AxisLabelY, 12, textColor)

	for _, p := range l.Panels {
		drawPanel(c, l, p)
	}

	drawFooter(c, l)

	if err := r.Save(w); err != nil {
		return apperrors.Wrap(err, "failed to write chart")
	}
	return nil
}

func drawHeader(c *canvas, l *models.ChartLayout) {
	c.text(l.Title, 0, l.TitleY, 24, textColor)
	c.text(l.Subtitle, 0, l.SubtitleY, 14, mutedColor)
}

func drawGrid(c *canvas, l *models.ChartLayout) {
	for _, x := range l.GridX {
		c.line(x, l.GridTop, x, l.GridBottom, gridColor, 0.4)
	}
}

// drawAxis draws the shared age axis at y; labelDY places the tick labels above (<0) or below.
func drawAxis(c *canvas, l *models.ChartLayout, y, labelDY float64) {
	s := l.AgeScale
	x0, x1 := l.PlotX+s.Range[0], l.PlotX+s.Range[1]
	c.line(x0, y, x1, y, textColor, 1)

	scale, err := layout.NewLinearScale(s.Domain, s.Range)
	if err != nil {
		return
	}
	tickDir := 6.0
	if labelDY < 0 {
		tickDir = -6
	}
	for _, t := range s.Ticks {
		x := l.PlotX + scale.Map(t.Value)
		c.line(x, y, x, y+tickDir, textColor, 1)
		c.centeredText(t.Label, x, y+labelDY, 10, textColor)
	}
}

func drawPanel(c *canvas, l *models.ChartLayout, p models.Panel) {
	top := p.OffsetY

	c.text(p.DisplayName, l.LabelX, top+p.TitleY, 11, textColor)
	c.line(l.LabelX, top+p.Baseline, l.PlotX+l.BaselineEnd, top+p.Baseline, gridColor, 0.4)

	if len(p.Path) > 1 {
		c.r.SetStrokeColor(lineColor)
		c.r.SetStrokeWidth(1.25)
		for i, pt := range p.Path {
			x, y := px(c.ox+l.PlotX+pt.X), px(c.oy+top+pt.Y)
			if i == 0 {
				c.r.MoveTo(x, y)
			} else {
				c.r.LineTo(x, y)
			}
		}
		c.r.Stroke()
	}

	if m := p.Marker; m != nil {
		col, err := layout.ParseHexColor(m.Color)
		if err != nil {
			col = lineColor
		}
		c.dot(l.PlotX+m.X, top+m.Y, m.Radius, col)
	}
}

func drawFooter(c *canvas, l *models.ChartLayout) {
	lg := l.Legend
	col, err := layout.ParseHexColor(lg.Color)
	if err != nil {
		col = lineColor
	}
	c.dot(lg.X, lg.Y, lg.Radius, col)
	c.text(lg.Label, lg.X+15, lg.Y+5, 11, textColor)

	c.text(l.SourceNote, 0, l.SourceNoteY, 10, mutedColor)
}

// Describe returns a one-line summary of a layout for logs.
func Describe(l *models.ChartLayout) string {
	return fmt.Sprintf("%d panels, %gx%g (%s)", len(l.Panels), l.Width, l.Height, l.Preset)
}
