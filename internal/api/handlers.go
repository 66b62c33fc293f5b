package api

import (
	"bytes"
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"

	apperrors "dietchart/internal/errors"
	"dietchart/internal/models"
	"dietchart/internal/render"
)

type Handler struct {
	mu   sync.RWMutex
	data *models.Dashboard
	err  error
}

func NewHandler(data *models.Dashboard) *Handler {
	return &Handler{data: data}
}

// SetData publishes a finished load.
func (h *Handler) SetData(data *models.Dashboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = data
	h.err = nil
}

// SetError records a failed load; data endpoints answer 500 from then on.
func (h *Handler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/chart.svg", h.GetChart)

	api := e.Group("/api")
	api.GET("/columns", h.GetColumns)
	api.GET("/summaries", h.GetSummaries)
	api.GET("/records", h.GetRecords)
	api.GET("/layout", h.GetLayout)
}

// snapshot returns the published data, or writes the 503/500 answer and returns nil.
func (h *Handler) snapshot(c echo.Context) (*models.Dashboard, error) {
	h.mu.RLock()
	data, loadErr := h.data, h.err
	h.mu.RUnlock()

	if loadErr != nil {
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{
			"error": loadErr.Error(),
			"code":  apperrors.GetCode(loadErr),
		})
	}
	if data == nil {
		return nil, c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "dataset is still loading",
			"code":  apperrors.CodeNotReady,
		})
	}
	return data, nil
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func page[T any](c echo.Context, items []T) error {
	total := len(items)
	limit, offset := getPaginationParams(c, total)

	if offset > total {
		offset = total
	}
	// Clamp before adding so a huge limit cannot overflow
	if limit > total-offset {
		limit = total - offset
	}
	end := offset + limit

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   items[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) Health(c echo.Context) error {
	h.mu.RLock()
	data, loadErr := h.data, h.err
	h.mu.RUnlock()

	switch {
	case loadErr != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"status": "failed", "error": loadErr.Error()})
	case data == nil:
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"source":  data.Source,
		"columns": len(data.Columns),
		"records": len(data.Records),
	})
}

// selected nutrient columns, in dataset order
func (h *Handler) GetColumns(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Columns)
}

// column peaks, earliest peak age first
func (h *Handler) GetSummaries(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	return page(c, data.Ordering)
}

func (h *Handler) GetRecords(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	return page(c, data.Records)
}

func (h *Handler) GetLayout(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Layout)
}

// GetChart renders the layout; ?format=png switches to a raster image.
func (h *Handler) GetChart(c echo.Context) error {
	data, err := h.snapshot(c)
	if data == nil {
		return err
	}

	format, contentType := render.SVG, "image/svg+xml"
	if c.QueryParam("format") == string(render.PNG) {
		format, contentType = render.PNG, "image/png"
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, data.Layout, format); err != nil {
		c.Logger().Errorf("chart render failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
