package domain

import (
	"context"
	"time"
)

// RawRecord is the untrusted asteroid description received from a client or
// the source topic. Nothing about it has been checked yet.
type RawRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DiameterKm  float64  `json:"diameter_km"`
	VelocityKps float64  `json:"velocity_kps"`
	Hazardous   bool     `json:"hazardous"`
	DistanceKm  *float64 `json:"distance_km"` // nil when no close approach is known
}

// ValidatedAsteroid is a RawRecord that passed Validate. Its fields are
// unexported so the only way to obtain one is through validation.
type ValidatedAsteroid struct {
	id          string
	name        string
	diameterKm  float64
	velocityKps float64
	hazardous   bool
	distanceKm  float64
}

func (a ValidatedAsteroid) ID() string           { return a.id }
func (a ValidatedAsteroid) Name() string         { return a.name }
func (a ValidatedAsteroid) DiameterKm() float64  { return a.diameterKm }
func (a ValidatedAsteroid) VelocityKps() float64 { return a.velocityKps }
func (a ValidatedAsteroid) Hazardous() bool      { return a.hazardous }
func (a ValidatedAsteroid) DistanceKm() float64  { return a.distanceKm }

// RiskResult is the assessment produced for one asteroid.
type RiskResult struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	EnergyJoules   float64 `json:"energy_joules"`
	EnergyMegatons float64 `json:"energy_megatons"`
	RiskScore      float64 `json:"risk_score"`
	Hazardous      bool    `json:"hazardous"`
	DistanceKm     float64 `json:"distance_km"`
	VelocityKps    float64 `json:"velocity_kps"`
	DiameterKm     float64 `json:"diameter_km"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Assessment pairs a result with the time it was produced. The timestamp
// travels as message metadata only, so RiskResult stays deterministic.
type Assessment struct {
	Result     RiskResult
	AssessedAt time.Time
}
