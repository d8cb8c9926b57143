package utils

import "fmt"

// FormatAmount keeps consistent two-decimal formatting for rupee values.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatWeight renders tonnage with three decimals, matching the ledger columns.
func FormatWeight(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
