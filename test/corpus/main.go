// Command corpus runs a fixture manifest of JSON/YAML/XML documents through
// internal/payload.Decode and Flatten, checking each case's flat map and
// reference index against the expectations recorded in the manifest.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	fixturesFile := flag.String("fixtures", "testdata/fixtures.yaml", "Path to the fixture manifest")
	outputJSON := flag.String("output", "", "Output JSON report file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gitdis flatten-conformance corpus\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	validator, err := NewValidator(*fixturesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	reporter := validator.Run()
	reporter.PrintSummary()

	if *outputJSON != "" {
		if err := reporter.WriteJSON(*outputJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	}

	if reporter.calculateSummary().FailCount > 0 {
		os.Exit(1)
	}
}
