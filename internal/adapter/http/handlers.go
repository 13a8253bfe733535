package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
)

const (
	sourceHTTP  = "http"
	sourceNeoWs = "neows"
)

// handleAssess assesses the RawRecord in the request body.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.recordOutcome(sourceHTTP, domain.CategoryInvalidInput)
		writeError(w, domain.ErrInvalidField("body"))
		return
	}

	rec, err := domain.ParseRawRecord(body)
	if err != nil {
		s.recordOutcome(sourceHTTP, domain.Classify(err))
		writeError(w, err)
		return
	}

	result, err := s.assess(r.Context(), sourceHTTP, rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleNeoRisk looks an object up in NeoWs, flattens it, and assesses it.
func (s *Server) handleNeoRisk(w http.ResponseWriter, r *http.Request) {
	if s.lookup == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Details: "neows lookup is disabled"})
		return
	}

	id := chi.URLParam(r, "id")
	obj, err := s.lookup.LookupNeo(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNeoNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Details: "no near-earth object with id " + id})
		return
	case err != nil:
		s.logger.Warn("neows lookup failed", "id", id, "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream_error"})
		return
	}

	rec, err := obj.ToRawRecord()
	if err != nil {
		s.recordOutcome(sourceNeoWs, domain.Classify(err))
		writeError(w, err)
		return
	}

	result, err := s.assess(r.Context(), sourceNeoWs, rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// assess runs one record through the domain inside a span and records the
// outcome.
func (s *Server) assess(ctx context.Context, source string, rec domain.RawRecord) (domain.RiskResult, error) {
	_, span := s.tracer.Start(ctx, "assess asteroid")
	defer span.End()
	span.SetAttributes(
		attribute.String("neo.id", rec.ID),
		attribute.String("neo.source", source),
	)

	result, err := domain.Assess(rec)
	if err != nil {
		category := domain.Classify(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("neo.error_category", string(category)))
		s.recordOutcome(source, category)
		s.logger.Info("assessment rejected",
			"id", rec.ID,
			"source", source,
			"category", category,
			"error", err,
			"request_id", middleware.GetReqID(ctx),
		)
		return domain.RiskResult{}, err
	}

	span.SetAttributes(
		attribute.Float64("neo.energy_megatons", result.EnergyMegatons),
		attribute.Float64("neo.risk_score", result.RiskScore),
	)
	s.recordOutcome(source, "success")
	s.metrics.RiskScore.Observe(result.RiskScore)
	return result, nil
}

func (s *Server) recordOutcome(source string, outcome domain.Category) {
	s.metrics.Assessments.WithLabelValues(source, string(outcome)).Inc()
}
