package enum

import (
	"encoding/json"
	"fmt"
)

// AdjustmentKind is the sign of a paddy bill cash adjustment.
type AdjustmentKind int

const (
	AdjustmentAdd      AdjustmentKind = 0
	AdjustmentSubtract AdjustmentKind = 1
)

func (k AdjustmentKind) String() string {
	if k == AdjustmentSubtract {
		return "sub"
	}
	return "add"
}

// Sign returns +1 for additions and -1 for subtractions.
func (k AdjustmentKind) Sign() int64 {
	if k == AdjustmentSubtract {
		return -1
	}
	return 1
}

func (k AdjustmentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *AdjustmentKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = AdjustmentKind(i)
		return nil
	}
	switch str {
	case "add":
		*k = AdjustmentAdd
	case "sub":
		*k = AdjustmentSubtract
	default:
		return fmt.Errorf("unknown adjustment kind %q", str)
	}
	return nil
}
