// Command validate performs data integrity checks across the mock fixtures:
// the NeoWs feed, the flattened raw records, and the expected assessments. It
// re-runs flattening and assessment through the domain package and verifies
// counts, field values, and the physical invariants of every result.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed data/mock/neows_feed_20261012.json \
//	  -records data/mock/neo_records_20261012.json \
//	  -assessments data/mock/neo_assessments_20261012.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedPath := flag.String("feed", "", "path to the NeoWs feed JSON fixture")
	recordsPath := flag.String("records", "", "path to the raw record JSON fixture")
	assessmentsPath := flag.String("assessments", "", "path to the expected assessment JSON fixture")
	flag.Parse()

	if *feedPath == "" || *recordsPath == "" || *assessmentsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *recordsPath, *assessmentsPath); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath, recordsPath, assessmentsPath string) int {
	fmt.Println("=== NEO Fixture Integrity Validation ===")
	fmt.Println()

	feed, err := loadFeed(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load feed: %v\n", err)
		return 1
	}

	records, err := loadJSON[domain.RawRecord](recordsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load records: %v\n", err)
		return 1
	}

	expected, err := loadJSON[domain.RiskResult](assessmentsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load assessments: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateFlattening(feed, records),
		validateAssessments(records, expected),
		validateInvariants(expected),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d feed objects, %d raw records, %d assessments\n",
		len(feed.Objects()), len(records), len(expected))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadFeed(path string) (domain.NeoWsFeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NeoWsFeed{}, err
	}
	var feed domain.NeoWsFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return domain.NeoWsFeed{}, err
	}
	return feed, nil
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── Phase 1: Flattening ──
// Validates the raw records against a fresh flattening of the feed.

func validateFlattening(feed domain.NeoWsFeed, records []domain.RawRecord) *phase {
	p := &phase{name: "Phase 1: Flattening (feed vs records)"}

	objects := feed.Objects()
	if feed.ElementCount != len(objects) {
		p.errorf("element_count %d does not match %d objects", feed.ElementCount, len(objects))
	}

	var flattened []domain.RawRecord
	for _, obj := range objects {
		rec, err := obj.ToRawRecord()
		if err != nil {
			continue
		}
		flattened = append(flattened, rec)
	}

	if len(flattened) != len(records) {
		p.errorf("record count: expected %d, got %d", len(flattened), len(records))
		return p
	}

	for i := range records {
		compareRecords(p, flattened[i], records[i])
	}
	return p
}

func compareRecords(p *phase, want, got domain.RawRecord) {
	if want.ID != got.ID {
		p.errorf("record id: expected %q, got %q", want.ID, got.ID)
		return
	}
	id := want.ID
	if want.Name != got.Name {
		p.errorf("ID %s: name: expected %q, got %q", id, want.Name, got.Name)
	}
	if !floatEq(want.DiameterKm, got.DiameterKm) {
		p.errorf("ID %s: diameter_km: expected %g, got %g", id, want.DiameterKm, got.DiameterKm)
	}
	if !floatEq(want.VelocityKps, got.VelocityKps) {
		p.errorf("ID %s: velocity_kps: expected %g, got %g", id, want.VelocityKps, got.VelocityKps)
	}
	if want.Hazardous != got.Hazardous {
		p.errorf("ID %s: hazardous: expected %t, got %t", id, want.Hazardous, got.Hazardous)
	}
	if !ptrFloatEq(want.DistanceKm, got.DistanceKm) {
		p.errorf("ID %s: distance_km: expected %s, got %s", id, ptrFloat(want.DistanceKm), ptrFloat(got.DistanceKm))
	}
}

// ── Phase 2: Assessments ──
// Re-assesses every raw record and compares with the expected fixture.

func validateAssessments(records []domain.RawRecord, expected []domain.RiskResult) *phase {
	p := &phase{name: "Phase 2: Assessments (re-assessed)"}

	byID := make(map[string]domain.RiskResult, len(expected))
	for _, r := range expected {
		if _, dup := byID[r.ID]; dup {
			p.errorf("duplicate assessment for ID %s", r.ID)
		}
		byID[r.ID] = r
	}

	seen := map[string]bool{}
	for _, rec := range records {
		got, err := domain.Assess(rec)
		want, ok := byID[rec.ID]
		switch {
		case err != nil && ok:
			p.errorf("ID %s: rejected with %v (%s) but fixture has an assessment", rec.ID, err, domain.Classify(err))
			continue
		case err != nil:
			continue
		case !ok:
			p.errorf("ID %s: assessed but missing from fixture", rec.ID)
			continue
		}
		seen[rec.ID] = true
		compareResults(p, want, got)
	}

	for id := range byID {
		if !seen[id] {
			p.errorf("ID %s: in fixture but not produced by any record", id)
		}
	}
	return p
}

func compareResults(p *phase, want, got domain.RiskResult) {
	id := want.ID
	if want.Name != got.Name {
		p.errorf("ID %s: name: expected %q, got %q", id, want.Name, got.Name)
	}
	if !floatEq(want.EnergyJoules, got.EnergyJoules) {
		p.errorf("ID %s: energy_joules: expected %g, got %g", id, want.EnergyJoules, got.EnergyJoules)
	}
	if !floatEq(want.EnergyMegatons, got.EnergyMegatons) {
		p.errorf("ID %s: energy_megatons: expected %g, got %g", id, want.EnergyMegatons, got.EnergyMegatons)
	}
	if !floatEq(want.RiskScore, got.RiskScore) {
		p.errorf("ID %s: risk_score: expected %g, got %g", id, want.RiskScore, got.RiskScore)
	}
	if want.Hazardous != got.Hazardous {
		p.errorf("ID %s: hazardous: expected %t, got %t", id, want.Hazardous, got.Hazardous)
	}
}

// ── Phase 3: Invariants ──
// Validates properties every assessment must hold regardless of input.

func validateInvariants(results []domain.RiskResult) *phase {
	p := &phase{name: "Phase 3: Invariants (physics)"}

	for _, r := range results {
		if r.RiskScore < 0 || r.RiskScore > 100 {
			p.errorf("ID %s: risk_score %g outside [0, 100]", r.ID, r.RiskScore)
		}
		if r.EnergyJoules < 0 {
			p.errorf("ID %s: negative energy %g", r.ID, r.EnergyJoules)
		}
		if r.EnergyJoules == 0 && r.RiskScore != 0 {
			p.errorf("ID %s: zero energy but risk_score %g", r.ID, r.RiskScore)
		}
		if !floatEq(r.EnergyMegatons*domain.JoulesPerMegaton, r.EnergyJoules) {
			p.errorf("ID %s: megatons %g inconsistent with joules %g", r.ID, r.EnergyMegatons, r.EnergyJoules)
		}
	}

	sorted := append([]domain.RiskResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EnergyJoules < sorted[j].EnergyJoules })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].RiskScore < sorted[i-1].RiskScore {
			p.errorf("risk_score not monotonic in energy: %s (%g) < %s (%g)",
				sorted[i].ID, sorted[i].RiskScore, sorted[i-1].ID, sorted[i-1].RiskScore)
		}
	}
	return p
}

// ── Helpers ──

// floatEq compares with a relative tolerance so joule-scale values work.
func floatEq(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= 1e-9*scale
}

func ptrFloatEq(a, b *float64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return floatEq(*a, *b)
}

func ptrFloat(f *float64) string {
	if f == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%g", *f)
}
