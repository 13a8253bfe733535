package domain

import (
	"math"
	"strings"
)

// Validate converts an untrusted record into a ValidatedAsteroid. Rules are
// checked in order and the first failure is returned:
//   - id must be non-empty after trimming whitespace
//   - diameter_km must be finite and > 0
//   - velocity_kps must be finite and >= 0
//   - distance_km must be present, finite and >= 0
func Validate(raw RawRecord) (ValidatedAsteroid, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return ValidatedAsteroid{}, ErrInvalidID()
	}
	if !isFinite(raw.DiameterKm) || raw.DiameterKm <= 0 {
		return ValidatedAsteroid{}, ErrInvalidDiameter(raw.DiameterKm)
	}
	if !isFinite(raw.VelocityKps) || raw.VelocityKps < 0 {
		return ValidatedAsteroid{}, ErrInvalidVelocity(raw.VelocityKps)
	}
	if raw.DistanceKm == nil || !isFinite(*raw.DistanceKm) || *raw.DistanceKm < 0 {
		return ValidatedAsteroid{}, ErrMissingCloseApproachData()
	}

	return ValidatedAsteroid{
		id:          raw.ID,
		name:        raw.Name,
		diameterKm:  raw.DiameterKm,
		velocityKps: raw.VelocityKps,
		hazardous:   raw.Hazardous,
		distanceKm:  *raw.DistanceKm,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
