// Package domain models near-Earth object (NEO) impact-risk assessment.
//
// # Pipeline
//
// A RawRecord arrives from a client or the source topic and is turned into a
// ValidatedAsteroid by [Validate]. [Evaluate] then runs the physics chain and
// [Assemble] builds the RiskResult:
//
//	diameter_km  →  volume (m³, perfect sphere)
//	volume       →  mass (kg, DefaultDensityClass)
//	mass, v      →  kinetic energy (J, ½·m·v²)
//	energy       →  megatons of TNT (÷ 4.184e15)
//	energy       →  risk score (0–100)
//
// Inputs are kilometers and kilometers per second; everything downstream is
// SI. Energy is rigid-body kinetic energy with no atmospheric entry,
// fragmentation or impact angle correction.
//
// # Composition
//
// Every asteroid is assumed silicaceous (2700 kg/m³). Carbonaceous (1300) and
// metallic (5300) classes exist in the density table but nothing selects them
// from input.
//
// # Risk score
//
//	score = clamp(max(log10(E), 0) / 20 × 100, 0, 100)
//
// The divisor 20 means a 10^20 J event saturates the scale. For reference,
// 1 Mt of TNT is about 10^15.6 J (score ≈ 78) and the Chicxulub impactor is
// well past saturation. The score is a normalized magnitude, not a probability.
//
// # Errors
//
// [Validate] is the only source of [DomainError] for well-formed records.
// Each kind belongs to exactly one [Category]:
//
//	invalid_input:        InvalidID, InvalidDiameter, InvalidVelocity, InvalidField
//	invalid_domain_data:  MissingCloseApproachData, NonPhysicalValue
//
// # NeoWs
//
// NASA NeoWs documents are flattened by [NeoWsObject.ToRawRecord]: the
// diameter is the mean of the estimated min/max kilometers, and velocity and
// miss distance come from the first close approach. An object with no close
// approach has no distance and is rejected with MissingCloseApproachData.
package domain
