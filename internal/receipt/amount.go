package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountSeparator joins rupees and paise on printed bills.
const AmountSeparator = "="

// FormatAmount renders d as "28,800=00": grouped thousands, two fraction
// digits, and the "=" separator used on the shop's bills.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if sign != "" && strings.Trim(whole+frac, "0") == "" {
		sign = ""
	}
	return sign + groupThousands(whole) + AmountSeparator + frac
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
