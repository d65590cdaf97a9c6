package tool

import (
	"fmt"
	"strings"
)

// FormatBRL renders an amount in centavos as "R$ 1.234,56" for user-facing
// notification text.
func FormatBRL(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	out := fmt.Sprintf("R$ %s,%02d", b.String(), frac)
	if neg {
		return "-" + out
	}
	return out
}
