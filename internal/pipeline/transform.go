package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/recon-data-etl/internal/domain"
	"github.com/couchcryptid/recon-data-etl/internal/observability"
)

// HDOBTransformer decodes raw HDOB products using the domain transform
// functions. It implements Transformer.
type HDOBTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates an HDOBTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *HDOBTransformer {
	return &HDOBTransformer{logger: logger, metrics: metrics}
}

// Transform parses, enriches, and serializes one raw HDOB product.
func (t *HDOBTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.OutputEvent, error) {
	msg, err := domain.ParseRawMessage(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	msg = domain.EnrichMessage(msg)
	t.metrics.ObservationsPerMessage.Observe(float64(len(msg.Observations)))

	t.logger.Debug("decoded hdob message",
		"id", msg.ID,
		"mission_id", msg.MissionID,
		"basin", msg.Basin,
		"observations", len(msg.Observations),
	)

	return domain.SerializeMessage(msg)
}
