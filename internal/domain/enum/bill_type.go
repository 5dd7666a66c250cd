package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BillType discriminates the two bill variants.
type BillType int

const (
	BillTypePaddy    BillType = 0
	BillTypeInterest BillType = 1
)

func (t BillType) String() string {
	names := [...]string{"paddy", "interest"}
	if int(t) < 0 || int(t) >= len(names) {
		return "paddy"
	}
	return names[t]
}

// ParseBillType accepts the wire names used by the records API.
func ParseBillType(s string) (BillType, error) {
	switch s {
	case "paddy":
		return BillTypePaddy, nil
	case "interest":
		return BillTypeInterest, nil
	}
	return BillTypePaddy, fmt.Errorf("unknown bill type %q", s)
}

func (t BillType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *BillType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = BillType(i)
		return nil
	}
	parsed, err := ParseBillType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value stores the wire name so records stay readable in the database.
func (t BillType) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *BillType) Scan(value interface{}) error {
	if value == nil {
		*t = BillTypePaddy
		return nil
	}
	switch v := value.(type) {
	case string:
		parsed, err := ParseBillType(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParseBillType(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case int64:
		*t = BillType(v)
	}
	return nil
}
