package billing

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FormValue is a raw form field as typed by the user. It decodes from JSON
// strings, numbers, booleans and null so clients may send either "1000" or
// 1000. Anything else decodes to the empty value.
type FormValue string

func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
	case '[', '{':
		// Older clients stored an unselected dropdown as [].
		var list []string
		if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
			*v = FormValue(list[0])
			return nil
		}
		*v = ""
	default:
		*v = FormValue(string(data))
	}
	return nil
}

// String returns the trimmed value.
func (v FormValue) String() string {
	return strings.TrimSpace(string(v))
}

// IsBlank reports whether the field was left empty.
func (v FormValue) IsBlank() bool {
	return v.String() == ""
}

// Decimal coerces the value, see ParseDecimal.
func (v FormValue) Decimal() decimal.Decimal {
	return ParseDecimal(string(v))
}

// Int coerces the value, see ParseBags.
func (v FormValue) Int() int {
	return ParseBags(string(v))
}

// ParseDecimal coerces user input into a non-negative decimal. Blank,
// malformed and negative input all become zero so a half-typed form never
// poisons the totals. Thousands separators are accepted.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseBags coerces a bag count. Fractions are truncated.
func ParseBags(s string) int {
	return int(ParseDecimal(s).IntPart())
}
