// Command genmock reads a NASA NeoWs feed document and generates the mock
// fixtures used by the pipeline tests and cmd/validate. It uses the engine's
// domain package so the fixtures match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -feed data/mock/neows_feed_20261012.json \
//	  -records-out data/mock/neo_records_20261012.json \
//	  -assessments-out data/mock/neo_assessments_20261012.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/neo-risk-engine/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feedPath := flag.String("feed", "", "path to a NeoWs feed JSON document")
	recordsOut := flag.String("records-out", "", "output path for the raw record fixture")
	assessmentsOut := flag.String("assessments-out", "", "output path for the expected assessment fixture")
	flag.Parse()

	if *feedPath == "" || *recordsOut == "" || *assessmentsOut == "" {
		flag.Usage()
		return errors.New("missing required flags: -feed, -records-out, -assessments-out")
	}

	data, err := os.ReadFile(*feedPath)
	if err != nil {
		return fmt.Errorf("read feed: %w", err)
	}
	var feed domain.NeoWsFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return fmt.Errorf("parse feed: %w", err)
	}

	objects := feed.Objects()
	if feed.ElementCount != 0 && feed.ElementCount != len(objects) {
		log.Printf("warning: element_count=%d but feed holds %d objects", feed.ElementCount, len(objects))
	}

	records := make([]domain.RawRecord, 0, len(objects))
	results := make([]domain.RiskResult, 0, len(objects))
	rejected := map[string][]string{}

	for _, obj := range objects {
		rec, err := obj.ToRawRecord()
		if err != nil {
			rejected[kindName(err)] = append(rejected[kindName(err)], obj.ID)
			continue
		}
		records = append(records, rec)

		result, err := domain.Assess(rec)
		if err != nil {
			rejected[kindName(err)] = append(rejected[kindName(err)], obj.ID)
			continue
		}
		results = append(results, result)
	}

	log.Printf("objects: %d, records: %d, assessments: %d", len(objects), len(records), len(results))

	if err := writeJSON(*recordsOut, records); err != nil {
		return fmt.Errorf("writing record fixture: %w", err)
	}
	log.Printf("wrote record fixture: %s", *recordsOut)

	if err := writeJSON(*assessmentsOut, results); err != nil {
		return fmt.Errorf("writing assessment fixture: %w", err)
	}
	log.Printf("wrote assessment fixture: %s", *assessmentsOut)

	printStats(results, rejected)
	return nil
}

func kindName(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Kind.String()
	}
	return "unknown"
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(results []domain.RiskResult, rejected map[string][]string) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Assessed: %d\n", len(results))

	var hazardous, saturated int
	for _, r := range results {
		if r.Hazardous {
			hazardous++
		}
		if r.RiskScore >= 100 {
			saturated++
		}
	}
	fmt.Printf("Hazardous: %d\n", hazardous)
	fmt.Printf("Saturated (score 100): %d\n", saturated)

	sorted := append([]domain.RiskResult(nil), results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RiskScore > sorted[j].RiskScore })
	fmt.Println("\nBy risk score:")
	for _, r := range sorted {
		fmt.Printf("  %-10s %-28s score=%7.3f megatons=%g\n", r.ID, r.Name, r.RiskScore, r.EnergyMegatons)
	}

	kinds := make([]string, 0, len(rejected))
	for k := range rejected {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Println("\nRejected:")
	for _, k := range kinds {
		fmt.Printf("  %s: %v\n", k, rejected[k])
	}
}
