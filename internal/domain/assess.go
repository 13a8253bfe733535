package domain

// Assemble combines a validated asteroid with its derived values.
func Assemble(a ValidatedAsteroid, energyJoules, energyMegatons, riskScore float64) RiskResult {
	return RiskResult{
		ID:             a.ID(),
		Name:           a.Name(),
		EnergyJoules:   energyJoules,
		EnergyMegatons: energyMegatons,
		RiskScore:      riskScore,
		Hazardous:      a.Hazardous(),
		DistanceKm:     a.DistanceKm(),
		VelocityKps:    a.VelocityKps(),
		DiameterKm:     a.DiameterKm(),
	}
}

// Evaluate runs the physics chain for a validated asteroid: volume, mass at
// DefaultDensityClass, kinetic energy, then megatons and risk score from the
// same energy.
func Evaluate(a ValidatedAsteroid) RiskResult {
	volume := VolumeFromDiameter(a.DiameterKm())
	mass := MassFromVolume(volume, DefaultDensityClass)
	energy := KineticEnergy(mass, a.VelocityKps())
	return Assemble(a, energy, JoulesToMegatons(energy), RiskScore(energy))
}

// Assess validates a raw record and evaluates it. The returned error is
// always a *DomainError. Finite inputs can still overflow the energy chain,
// for example a huge diameter at zero velocity; such results are rejected as
// NonPhysicalValue so every returned RiskResult is finite.
func Assess(raw RawRecord) (RiskResult, error) {
	a, err := Validate(raw)
	if err != nil {
		return RiskResult{}, err
	}
	result := Evaluate(a)
	if !isFinite(result.EnergyJoules) {
		return RiskResult{}, ErrNonPhysicalValue("energy_joules", result.EnergyJoules)
	}
	return result, nil
}

// AssessAt is Assess stamped with the current time from the package clock.
func AssessAt(raw RawRecord) (Assessment, error) {
	result, err := Assess(raw)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{Result: result, AssessedAt: clock.Now().UTC()}, nil
}
