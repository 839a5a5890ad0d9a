package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/soccer-analytics/internal/contracts"
	"github.com/wonny/soccer-analytics/internal/ingest"
	"github.com/wonny/soccer-analytics/internal/metrics"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// every command prints through these so output stays uniform
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a titled block
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// f2 formats a rate for display, rounded half away from zero
func f2(v float64) string {
	return strconv.FormatFloat(metrics.Round(v, 2), 'f', 2, 64)
}

// pct formats a 0-100 percentage
func pct(v float64) string {
	return f2(v) + "%"
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func seasonLabel(season *int) string {
	if season == nil {
		return "all seasons"
	}
	return fmt.Sprintf("%d/%02d", *season, (*season+1)%100)
}

// PrintFailures lists the entities a batch could not compute
func PrintFailures(failures []contracts.ItemFailure) {
	if len(failures) == 0 {
		return
	}
	PrintWarning(fmt.Sprintf("%d item(s) failed", len(failures)))
	for _, f := range failures {
		fmt.Printf("   • %s\n", f)
	}
}

// PrintLoadSummary prints the per-entity counters of an ingestion run
func PrintLoadSummary(sum *ingest.Summary) {
	widths := []int{10, 8, 8, 8, 8}
	PrintTableHeader([]string{"Entity", "Created", "Updated", "Skipped", "Failed"}, widths)
	for _, r := range sum.Results() {
		PrintTableRow([]string{r.Entity, itoa(r.Created), itoa(r.Updated), itoa(r.Skipped), itoa(r.Failed)}, widths)
	}
	fmt.Println()
	PrintKeyValue("Duration", sum.Duration.Round(time.Millisecond).String(), 8)
	PrintFailures(sum.Failures)
}
