// Package core implements the chronological balance carry-forward engine:
// day totals, the weekly office/treasury balance chain, the delivery-ledger
// carry-forward resolver and the trash/restore transforms. Everything in
// this package is pure; persistence and transport live elsewhere.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts free-form user input to an amount. It accepts both
// dot (12.34) and comma (12,34) decimal separators. Malformed input parses
// to 0 rather than erroring: the engine must always render something.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// NormalizeName is the identity key function used for client reconciliation
// and transfer-label matching: trim then lowercase. Stored data relies on
// this exact rule, callers must not substitute a looser one.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
