package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/recon-data-etl/internal/domain"
	"github.com/couchcryptid/recon-data-etl/internal/observability"
)

// Tee fans a batch out to a primary and a secondary loader. The primary must
// succeed for the batch to count as loaded; secondary failures are logged and
// counted but never fail the batch, so an unavailable archive cannot stall
// the stream.
type Tee struct {
	primary   BatchLoader
	secondary BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewTee wraps a primary loader with a best-effort secondary.
func NewTee(primary, secondary BatchLoader, logger *slog.Logger, metrics *observability.Metrics) *Tee {
	return &Tee{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
		metrics:   metrics,
	}
}

// LoadBatch implements BatchLoader.
func (t *Tee) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if err := t.primary.LoadBatch(ctx, events); err != nil {
		return err
	}

	if err := t.secondary.LoadBatch(ctx, events); err != nil {
		t.logger.Warn("archive load failed", "error", err, "batch_size", len(events))
		t.metrics.ArchiveErrors.Inc()
	}

	return nil
}
