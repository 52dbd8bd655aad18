package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Reporter accumulates fixture case results and produces a report.
type Reporter struct {
	results []CaseResult
	skipped int
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// AddResult records one case's outcome.
func (r *Reporter) AddResult(result CaseResult) {
	r.results = append(r.results, result)
}

// AddSkipped records a skipped case.
func (r *Reporter) AddSkipped() {
	r.skipped++
}

// GenerateReport builds the full report, including the failure subset.
func (r *Reporter) GenerateReport() Report {
	summary := r.calculateSummary()

	var failures []CaseResult
	for _, result := range r.results {
		if !result.Success {
			failures = append(failures, result)
		}
	}

	return Report{
		Version:     "1.0",
		GeneratedAt: time.Now(),
		Summary:     summary,
		Results:     r.results,
		Failures:    failures,
	}
}

func (r *Reporter) calculateSummary() Summary {
	summary := Summary{
		TotalCases:   len(r.results) + r.skipped,
		SkippedCount: r.skipped,
	}

	var totalDuration int64
	for _, result := range r.results {
		if result.Success {
			summary.PassCount++
		} else {
			summary.FailCount++
		}
		totalDuration += result.DurationUs
	}
	summary.TotalDurationUs = totalDuration

	if attempted := summary.PassCount + summary.FailCount; attempted > 0 {
		summary.PassRate = float64(summary.PassCount) / float64(attempted) * 100
	}

	return summary
}

// WriteJSON writes the report to a JSON file.
func (r *Reporter) WriteJSON(filename string) error {
	report := r.GenerateReport()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	fmt.Printf("✓ JSON report written to: %s\n", filename)
	return nil
}

// PrintSummary prints a human-readable summary to stdout.
func (r *Reporter) PrintSummary() {
	report := r.GenerateReport()
	s := report.Summary

	fmt.Println("\n" + separator("FIXTURE SUMMARY", 80))
	fmt.Printf("Total Cases:   %d\n", s.TotalCases)
	fmt.Printf("  ✓ Passed:    %d\n", s.PassCount)
	fmt.Printf("  ✗ Failed:    %d\n", s.FailCount)
	fmt.Printf("  ⊘ Skipped:   %d\n", s.SkippedCount)
	fmt.Printf("  Pass rate:   %.1f%%\n", s.PassRate)
	fmt.Printf("  Duration:    %d us\n", s.TotalDurationUs)
	fmt.Println(separator("", 80))

	if len(report.Failures) > 0 {
		fmt.Printf("\n⚠ FAILURES (%d):\n", len(report.Failures))
		for _, failure := range report.Failures {
			fmt.Printf("  • %s (%s)\n", failure.Name, failure.Format)
			if failure.Error != "" {
				fmt.Printf("      error: %s\n", failure.Error)
			}
			for _, mm := range failure.Mismatches {
				fmt.Printf("      %s\n", mm)
			}
		}
		fmt.Println()
	}
}

func separator(title string, width int) string {
	if title == "" {
		return repeatChar("=", width)
	}
	padding := (width - len(title) - 2) / 2
	return fmt.Sprintf("%s %s %s", repeatChar("=", padding), title, repeatChar("=", padding))
}

func repeatChar(char string, count int) string {
	result := ""
	for i := 0; i < count; i++ {
		result += char
	}
	return result
}
