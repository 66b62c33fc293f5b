package app

import (
	"context"
	"log"
	"time"

	"dietchart/internal/config"
	"dietchart/internal/engine"
	apperrors "dietchart/internal/errors"
	"dietchart/internal/layout"
	"dietchart/internal/models"
	"dietchart/internal/source"
)

// BuildDashboard loads the configured dataset and derives everything the API and renderer serve.
func BuildDashboard(ctx context.Context, cfg *config.Config) (*models.Dashboard, error) {
	t0 := time.Now()

	geometry, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}

	// 1. Load (single attempt)
	table, err := source.NewLoader(cfg.Source.FetchTimeout).Load(ctx, cfg.Source.Location)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load dataset")
	}

	// 2. Prepare + summarize
	res := engine.Run(table.Headers, table.Rows, engine.Options{
		Exclusions: cfg.Dataset.Exclusions,
		Marker:     cfg.Dataset.Marker,
		TrimCount:  cfg.Dataset.TrimCount,
	})

	// 3. Layout
	chart, err := layout.Build(res, geometry, cfg.Chart.Labels)
	if err != nil {
		return nil, err
	}

	log.Printf("[app] Dashboard ready: %d panels from %d records in %v", len(chart.Panels), len(res.Records), time.Since(t0))

	return &models.Dashboard{
		Source:   cfg.Source.Location,
		Columns:  res.Columns,
		Ordering: res.Ordering,
		Records:  res.Records,
		Layout:   chart,
	}, nil
}
