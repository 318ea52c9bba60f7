package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const keyWidth = 20

// PrintHeader prints a titled header block
func PrintHeader(title string, subtitle string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	if subtitle != "" {
		PrintSeparator()
		fmt.Printf("  %s\n", subtitle)
	}
	PrintDoubleSeparator()
}

// PrintSection prints a section title followed by a separator
func PrintSection(title string) {
	fmt.Println()
	fmt.Printf("[%s]\n", title)
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
func PrintKeyValue(key string, value string) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// ───────────────────────────────────────────────────────────
// Number formatting
// 리포트 수치는 decimal로 반올림 (float 출력 잡음 방지)
// ───────────────────────────────────────────────────────────

// fmtNum rounds v half-away-from-zero to places decimals
func fmtNum(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// fmtPct formats a decimal fraction as a percentage (0.0512 → "5.12%")
func fmtPct(v float64, places int32) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(places) + "%"
}

// fmtBP formats a basis-point shock with an explicit sign ("+100bp")
func fmtBP(bp float64) string {
	d := decimal.NewFromFloat(bp).Round(2)
	s := d.String()
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "bp"
}

// fmtYears formats a maturity in years ("0.5Y", "10Y")
func fmtYears(t float64) string {
	return decimal.NewFromFloat(t).Round(4).String() + "Y"
}

// fmtMoney formats a value with thousands separators and two decimals
func fmtMoney(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}
