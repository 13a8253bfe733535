package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NeoWsObject is the subset of a NASA NeoWs near-Earth object document the
// engine reads. Velocities and distances are string-encoded by the API.
type NeoWsObject struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude_h"`
	Hazardous         bool    `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter struct {
		Kilometers struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"kilometers"`
	} `json:"estimated_diameter"`
	CloseApproaches []NeoWsCloseApproach `json:"close_approach_data"`
}

// NeoWsCloseApproach is one entry of close_approach_data.
type NeoWsCloseApproach struct {
	Date             string `json:"close_approach_date"`
	RelativeVelocity struct {
		KilometersPerSecond string `json:"kilometers_per_second"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Kilometers string `json:"kilometers"`
	} `json:"miss_distance"`
	OrbitingBody string `json:"orbiting_body"`
}

// NeoWsFeed is the response of the NeoWs feed endpoint, keyed by date.
type NeoWsFeed struct {
	ElementCount     int                      `json:"element_count"`
	NearEarthObjects map[string][]NeoWsObject `json:"near_earth_objects"`
}

// Objects returns every object in the feed ordered by date, then by id.
func (f NeoWsFeed) Objects() []NeoWsObject {
	dates := make([]string, 0, len(f.NearEarthObjects))
	for d := range f.NearEarthObjects {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []NeoWsObject
	for _, d := range dates {
		objs := append([]NeoWsObject(nil), f.NearEarthObjects[d]...)
		sort.SliceStable(objs, func(i, j int) bool { return objs[i].ID < objs[j].ID })
		out = append(out, objs...)
	}
	return out
}

// ParseNeoWsObject decodes a NeoWs object document into a NeoWsObject.
func ParseNeoWsObject(data []byte) (NeoWsObject, error) {
	var obj NeoWsObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return NeoWsObject{}, fmt.Errorf("parse neows object: %w", decodeError(err))
	}
	return obj, nil
}

// ToRawRecord flattens a NeoWs object. The diameter is the mean of the
// estimated bounds, and velocity and distance come from the first close
// approach. Without a close approach the distance is left absent and the
// velocity is zero.
func (o NeoWsObject) ToRawRecord() (RawRecord, error) {
	est := o.EstimatedDiameter.Kilometers
	if est.Min > est.Max {
		return RawRecord{}, ErrNonPhysicalValue("estimated_diameter", est.Min)
	}

	rec := RawRecord{
		ID:         o.ID,
		Name:       o.Name,
		DiameterKm: (est.Min + est.Max) / 2,
		Hazardous:  o.Hazardous,
	}

	if len(o.CloseApproaches) == 0 {
		return rec, nil
	}
	first := o.CloseApproaches[0]

	velocity, err := parseNeoWsNumber(first.RelativeVelocity.KilometersPerSecond)
	if err != nil {
		return RawRecord{}, ErrInvalidField("close_approach_data.relative_velocity.kilometers_per_second")
	}
	distance, err := parseNeoWsNumber(first.MissDistance.Kilometers)
	if err != nil {
		return RawRecord{}, ErrInvalidField("close_approach_data.miss_distance.kilometers")
	}

	rec.VelocityKps = velocity
	rec.DistanceKm = &distance
	return rec, nil
}

// parseNeoWsNumber parses a string-encoded float. Empty means zero.
func parseNeoWsNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
