// Package currency provides coin decomposition and display formatting.
package currency

import (
	"fmt"
	"strings"
)

const (
	// CopperPerSilver is the number of base-unit copper coins in one silver.
	CopperPerSilver = 100
	// CopperPerGold is the number of base-unit copper coins in one gold (100 silver).
	CopperPerGold = 10000
)

// Decompose converts a total copper amount into display tiers.
//
// Precondition: total >= 0.
// Postcondition: gold*10000 + silver*100 + copper == total; 0 <= silver < 100; 0 <= copper < 100.
func Decompose(total int64) (gold, silver, copper int64) {
	gold = total / CopperPerGold
	remainder := total % CopperPerGold
	silver = remainder / CopperPerSilver
	copper = remainder % CopperPerSilver
	return gold, silver, copper
}

// Format returns a human-readable coin string for the given total copper.
//
// Precondition: total >= 0.
// Postcondition: returned string omits zero-valued higher tiers (except
// copper, which always appears when nothing else does).
func Format(total int64) string {
	gold, silver, copper := Decompose(total)

	var parts []string
	if gold > 0 {
		parts = append(parts, fmt.Sprintf("%dg", gold))
	}
	if silver > 0 {
		parts = append(parts, fmt.Sprintf("%ds", silver))
	}
	if copper > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dc", copper))
	}

	return strings.Join(parts, " ")
}
