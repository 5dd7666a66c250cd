package enum

import (
	"encoding/json"
	"fmt"
)

// InterestLineKind tags a line of the sequential interest ledger.
type InterestLineKind int

const (
	InterestLineAdd      InterestLineKind = 0
	InterestLineSubtract InterestLineKind = 1
	// InterestLineCheckpoint snapshots the running total without changing it.
	InterestLineCheckpoint InterestLineKind = 2
)

func (k InterestLineKind) String() string {
	names := [...]string{"add", "sub", "sum"}
	if int(k) < 0 || int(k) >= len(names) {
		return "add"
	}
	return names[k]
}

func (k InterestLineKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *InterestLineKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = InterestLineKind(i)
		return nil
	}
	switch str {
	case "add":
		*k = InterestLineAdd
	case "sub":
		*k = InterestLineSubtract
	case "sum":
		*k = InterestLineCheckpoint
	default:
		return fmt.Errorf("unknown interest line kind %q", str)
	}
	return nil
}
