package domain

import "math"

// DensityClass is a coarse asteroid composition category.
type DensityClass int

const (
	Carbonaceous DensityClass = iota // C-type
	Silicaceous                      // S-type
	Metallic                         // M-type
)

// DefaultDensityClass is the composition assumed for every assessment. It is
// a fixed policy, not inferred from the record.
const DefaultDensityClass = Silicaceous

const (
	// JoulesPerMegaton is the TNT equivalence used for megaton conversion.
	JoulesPerMegaton = 4.184e15

	// RiskSaturationLog10 is the log10(joules) at which the risk score reaches
	// 100. Fixed calibration constant.
	RiskSaturationLog10 = 20.0

	metersPerKm = 1000.0
)

// Density returns the bulk density in kg/m³.
func (c DensityClass) Density() float64 {
	switch c {
	case Carbonaceous:
		return 1300
	case Silicaceous:
		return 2700
	case Metallic:
		return 5300
	default:
		return 0
	}
}

func (c DensityClass) String() string {
	switch c {
	case Carbonaceous:
		return "carbonaceous"
	case Silicaceous:
		return "silicaceous"
	case Metallic:
		return "metallic"
	default:
		return "unknown"
	}
}

// VolumeFromDiameter returns the volume in m³ of a sphere with the given
// diameter in kilometers.
func VolumeFromDiameter(diameterKm float64) float64 {
	r := diameterKm * metersPerKm / 2
	return (4.0 / 3.0) * math.Pi * r * r * r
}

// MassFromVolume returns the mass in kg for a volume in m³.
func MassFromVolume(volumeM3 float64, class DensityClass) float64 {
	return volumeM3 * class.Density()
}

// KineticEnergy returns 1/2·m·v² in joules for a velocity in km/s. No
// atmospheric entry, fragmentation or impact angle is accounted for.
func KineticEnergy(massKg, velocityKps float64) float64 {
	v := velocityKps * metersPerKm
	return 0.5 * massKg * v * v
}

// JoulesToMegatons converts joules to megatons of TNT.
func JoulesToMegatons(joules float64) float64 {
	return joules / JoulesPerMegaton
}

// RiskScore maps impact energy onto a logarithmic 0–100 scale. Energies at or
// below zero, and NaN, score 0; 10^20 J and above saturate at 100.
func RiskScore(energyJoules float64) float64 {
	if math.IsNaN(energyJoules) || energyJoules <= 0 {
		return 0
	}
	logEnergy := math.Max(math.Log10(energyJoules), 0)
	normalized := logEnergy / RiskSaturationLog10 * 100
	return math.Min(math.Max(normalized, 0), 100)
}
