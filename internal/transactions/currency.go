package transactions

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as en-US dollars: $1,234.56 or -$1,234.56
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	fixed := rounded.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	return sign + "$" + groupThousands(whole) + "." + cents
}

// ParseCurrency reverses FormatCurrency. It also accepts accounting-style
// parentheses and plain numbers.
func ParseCurrency(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}
	if strings.HasPrefix(cleaned, "-") {
		negative = !negative
		cleaned = cleaned[1:]
	}

	cleaned = strings.TrimPrefix(strings.TrimSpace(cleaned), "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	amount, err := decimal.NewFromString(strings.TrimSpace(cleaned))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid currency amount %q", text)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
