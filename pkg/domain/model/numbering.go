package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// RiskNoPrefix is prepended to every risk number
const RiskNoPrefix = "R"

// RiskNoSequence extracts the sequence of a risk number by dropping its
// non-numeric prefix. Values without a parseable number yield 0.
func RiskNoSequence(riskNo string) int {
	digits := strings.TrimLeftFunc(riskNo, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// FormatRiskNo renders a sequence as a risk number, zero-padded to 3 digits
func FormatRiskNo(seq int) string {
	return fmt.Sprintf("%s%03d", RiskNoPrefix, seq)
}

// NextRiskNo returns the number following the highest of existing.
// With no existing numbers it returns "R001".
func NextRiskNo(existing []string) string {
	highest := 0
	for _, no := range existing {
		if seq := RiskNoSequence(no); seq > highest {
			highest = seq
		}
	}
	return FormatRiskNo(highest + 1)
}
