package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
)

// RiskTransformer implements Transformer by decoding a raw record and running
// it through the domain assessment.
type RiskTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a RiskTransformer.
func NewTransformer(logger *slog.Logger) *RiskTransformer {
	return &RiskTransformer{logger: logger}
}

// Transform decodes and assesses one message. Failures are *domain.DomainError
// values and say nothing about the health of the stream.
func (t *RiskTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.Assessment, error) {
	rec, err := domain.ParseRawRecord(raw.Value)
	if err != nil {
		return domain.Assessment{}, err
	}

	assessment, err := domain.AssessAt(rec)
	if err != nil {
		return domain.Assessment{}, err
	}

	t.logger.Debug("asteroid assessed",
		"id", assessment.Result.ID,
		"name", assessment.Result.Name,
		"energy_megatons", assessment.Result.EnergyMegatons,
		"risk_score", assessment.Result.RiskScore,
	)
	return assessment, nil
}
