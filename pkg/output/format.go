// Package output provides utilities for formatting and displaying allocation results.
package output

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"payopt/pkg/money"
)

// sortedMethodIDs returns the method ids with a non-zero charge in
// lexicographic order. Methods that ended up unused are omitted.
func sortedMethodIDs(summary map[string]money.Amount) []string {
	ids := make([]string, 0, len(summary))
	for id, amount := range summary {
		if amount == 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReportString renders the machine-readable summary, one method per
// line as "id amount" with two decimal places.
func ReportString(summary map[string]money.Amount) string {
	var builder strings.Builder
	for _, id := range sortedMethodIDs(summary) {
		builder.WriteString(fmt.Sprintf("%s %s\n", id, summary[id]))
	}
	return builder.String()
}

// Report outputs the machine-readable summary.
func Report(summary map[string]money.Amount) {
	fmt.Print(ReportString(summary))
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(summary map[string]money.Amount, underfunded []string) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Total charged per payment method ---\n")
	fmt.Printf("Method          | Charged\n")
	fmt.Printf("______          | _______\n")
	var total money.Amount
	for _, id := range sortedMethodIDs(summary) {
		_, _ = p.Printf("%-15s | %s\n", id, summary[id])
		total += summary[id]
	}
	_, _ = p.Printf("%-15s | %s\n", "TOTAL", total)
	if len(underfunded) > 0 {
		fmt.Printf("\nOrders not fully covered: %s\n", strings.Join(underfunded, ","))
	}
}

// CsvString renders the summary in comma-separated value format.
func CsvString(summary map[string]money.Amount) string {
	var builder strings.Builder
	builder.WriteString(`"method","charged"` + "\n")
	for _, id := range sortedMethodIDs(summary) {
		builder.WriteString(fmt.Sprintf(`"%s","%s"`+"\n", id, summary[id]))
	}
	return builder.String()
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(summary map[string]money.Amount) {
	fmt.Print(CsvString(summary))
}
