package printqueue

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/mrstraders/paddybill/internal/domain/entity"
)

// Slot is one position of the queue. A nil Bill is an empty slot.
type Slot struct {
	Bill entity.Bill
}

// Occupied wraps a bill in a slot.
func Occupied(b entity.Bill) Slot {
	return Slot{Bill: b}
}

// IsEmpty reports whether the slot holds no bill.
func (s Slot) IsEmpty() bool {
	return s.Bill == nil
}

// Identity returns the drag identity of the slot at position pos: the bill
// id when occupied, a position placeholder otherwise.
func (s Slot) Identity(pos int) string {
	if s.IsEmpty() {
		return EmptyIdentity(pos)
	}
	return s.Bill.BillID()
}

// EmptyIdentity is the placeholder identity of an empty slot.
func EmptyIdentity(pos int) string {
	return "empty-" + strconv.Itoa(pos)
}

// MarshalJSON writes an empty slot as null and a bill with its type tag.
func (s Slot) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(s.Bill)
}

// UnmarshalJSON reads null as an empty slot.
func (s *Slot) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		s.Bill = nil
		return nil
	}
	b, err := entity.DecodeBill(data)
	if err != nil {
		return err
	}
	s.Bill = b
	return nil
}
