package output

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"payopt/pkg/money"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestReportString(t *testing.T) {
	summary := map[string]money.Amount{
		"mZysk":      money.MustParse("165.00"),
		"BosBankrut": money.MustParse("190.00"),
		"PUNKTY":     money.MustParse("100.00"),
	}

	got := ReportString(summary)
	want := "BosBankrut 190.00\nPUNKTY 100.00\nmZysk 165.00\n"
	if got != want {
		t.Errorf("ReportString mismatch\ngot:\n%swant:\n%s", got, want)
	}
}

func TestReportStringSkipsUnusedMethods(t *testing.T) {
	summary := map[string]money.Amount{
		"mZysk":      money.MustParse("50.00"),
		"BosBankrut": 0,
	}

	got := ReportString(summary)
	if strings.Contains(got, "BosBankrut") {
		t.Errorf("ReportString should omit methods with zero charge, got:\n%s", got)
	}
	if got != "mZysk 50.00\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestReportStringEmptySummary(t *testing.T) {
	if got := ReportString(map[string]money.Amount{}); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestReportMatchesReportString(t *testing.T) {
	summary := map[string]money.Amount{
		"PUNKTY": money.MustParse("68.00"),
	}

	expected := ReportString(summary)
	output := captureStdout(t, func() { Report(summary) })

	if output != expected {
		t.Errorf("Report and ReportString output mismatch\nReport:\n%s\nReportString:\n%s", output, expected)
	}
}

func TestPrettyFormat(t *testing.T) {
	summary := map[string]money.Amount{
		"mZysk":  money.MustParse("165.00"),
		"PUNKTY": money.MustParse("100.00"),
	}

	output := captureStdout(t, func() { PrettyFormat(summary, nil) })

	if !strings.Contains(output, "--- Total charged per payment method ---") {
		t.Errorf("PrettyFormat missing header")
	}
	if !strings.Contains(output, "Method          | Charged") {
		t.Errorf("PrettyFormat missing table header")
	}
	if !strings.Contains(output, "165.00") {
		t.Errorf("PrettyFormat missing method amount")
	}
	if !strings.Contains(output, "TOTAL") {
		t.Errorf("PrettyFormat missing total row")
	}
	if !strings.Contains(output, "265.00") {
		t.Errorf("PrettyFormat missing summed total")
	}
	if strings.Contains(output, "Orders not fully covered") {
		t.Errorf("PrettyFormat should omit underfunded section when empty")
	}
}

func TestPrettyFormatListsUnderfundedOrders(t *testing.T) {
	summary := map[string]money.Amount{
		"PUNKTY": money.MustParse("10.00"),
	}

	output := captureStdout(t, func() { PrettyFormat(summary, []string{"ORDER1", "ORDER3"}) })

	if !strings.Contains(output, "Orders not fully covered: ORDER1,ORDER3") {
		t.Errorf("PrettyFormat missing underfunded orders, got:\n%s", output)
	}
}

func TestCsvFormat(t *testing.T) {
	summary := map[string]money.Amount{
		"mZysk":  money.MustParse("165.00"),
		"PUNKTY": money.MustParse("100.00"),
	}

	output := captureStdout(t, func() { CsvFormat(summary) })

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 3 {
		t.Fatalf("CsvFormat should produce header + 2 data lines, got %d", len(lines))
	}
	if lines[0] != `"method","charged"` {
		t.Errorf("CsvFormat header mismatch: %s", lines[0])
	}
	if lines[1] != `"PUNKTY","100.00"` {
		t.Errorf("CsvFormat first data line mismatch: %s", lines[1])
	}
	if lines[2] != `"mZysk","165.00"` {
		t.Errorf("CsvFormat second data line mismatch: %s", lines[2])
	}
}

func TestCsvStringMatchesCsvFormat(t *testing.T) {
	summary := map[string]money.Amount{
		"mZysk":      money.MustParse("165.00"),
		"BosBankrut": money.MustParse("190.00"),
	}

	expected := CsvString(summary)
	output := captureStdout(t, func() { CsvFormat(summary) })

	if strings.TrimSpace(expected) != strings.TrimSpace(output) {
		t.Fatalf("CsvString and CsvFormat output mismatch\nCsvString:\n%s\nCsvFormat:\n%s", expected, output)
	}
}
