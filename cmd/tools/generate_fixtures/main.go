// Command generate_fixtures evaluates the reference valuation cases and writes
// one JSON file per engine entry point.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"intrinsic_valuation/pkg/core/valuation/fixtures"
)

func main() {
	out := flag.String("out", filepath.Join("testdata", "fixtures"), "output directory")
	flag.Parse()

	files, err := write(*out, fixtures.Generate())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[Fixtures] %v\n", err)
		os.Exit(1)
	}
	for _, f := range files {
		fmt.Printf("[Fixtures] wrote %s\n", f)
	}
}

// write saves each section of doc under dir and returns the paths written.
func write(dir string, doc fixtures.Document) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	sections := []struct {
		name string
		data any
	}{
		{"calc_cost_of_capital.json", doc.CostOfCapital},
		{"r_and_d_adjustment.json", doc.RDAdjustment},
		{"dcf.json", doc.DCF},
	}

	var written []string
	for _, s := range sections {
		data, err := json.MarshalIndent(s.data, "", "  ")
		if err != nil {
			return written, fmt.Errorf("marshal %s: %w", s.name, err)
		}
		path := filepath.Join(dir, s.name)
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
