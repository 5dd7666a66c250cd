package entity

import (
	"encoding/json"
	"fmt"

	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// WeighingEntry is one weighed lot of a paddy delivery.
type WeighingEntry struct {
	ID     string          `json:"id"`
	Weight decimal.Decimal `json:"weight"`
	Bags   int             `json:"bags"`
}

// Adjustment is a signed cash correction applied after labour.
type Adjustment struct {
	ID     string              `json:"id"`
	Kind   enum.AdjustmentKind `json:"type"`
	Amount decimal.Decimal     `json:"amount"`
	Note   string              `json:"note"`
}

// Signed returns the amount with the sign of its kind applied.
func (a Adjustment) Signed() decimal.Decimal {
	return a.Amount.Mul(decimal.NewFromInt(a.Kind.Sign()))
}

// InterestLine is one row of an interest note. Checkpoint rows carry no
// amount or note.
type InterestLine struct {
	ID     string                `json:"id,omitempty"`
	Kind   enum.InterestLineKind `json:"type"`
	Amount decimal.Decimal       `json:"amount"`
	Note   string                `json:"note,omitempty"`
}

// IsCheckpoint reports whether the line only snapshots the running total.
func (l InterestLine) IsCheckpoint() bool {
	return l.Kind == enum.InterestLineCheckpoint
}

// CalculationResult holds the derived totals of a paddy bill.
type CalculationResult struct {
	TotalWeight    decimal.Decimal `json:"totalWeight"`
	TotalBags      int             `json:"totalBags"`
	TareWeight     decimal.Decimal `json:"tareWeight"`
	NetWeight      decimal.Decimal `json:"netWeight"`
	GrossAmount    decimal.Decimal `json:"grossAmount"`
	TotalLabour    decimal.Decimal `json:"totalLabour"`
	NetAfterLabour decimal.Decimal `json:"netAfterLabour"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

// Bill is the sealed union of queueable bills. The only implementations
// are *PaddyBill and *InterestBill; callers switch on the concrete type.
type Bill interface {
	BillID() string
	Type() enum.BillType
	Customer() string
	BillDate() string
	Total() decimal.Decimal
	Clone() Bill
	isBill()
}

// PaddyBill is a purchase bill for a paddy delivery.
type PaddyBill struct {
	ID               string           `json:"id"`
	CustomerName     string           `json:"customerName"`
	Date             string           `json:"date"`
	StockPlace       string           `json:"stockPlace"`
	PaddyType        string           `json:"paddyType"`
	Entries          []WeighingEntry  `json:"entries"`
	TarePerBag       decimal.Decimal  `json:"tarePerBag"`
	Rate             decimal.Decimal  `json:"rate"`
	LabourRatePerBag decimal.Decimal  `json:"labourCharge"`
	Adjustments      []Adjustment     `json:"adjustments"`
	PaidAmount       *decimal.Decimal `json:"paidAmount,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CalculationResult
}

func (b *PaddyBill) BillID() string         { return b.ID }
func (b *PaddyBill) Type() enum.BillType    { return enum.BillTypePaddy }
func (b *PaddyBill) Customer() string       { return b.CustomerName }
func (b *PaddyBill) BillDate() string       { return b.Date }
func (b *PaddyBill) Total() decimal.Decimal { return b.FinalAmount }
func (b *PaddyBill) isBill()                {}

// Clone returns a deep copy.
func (b *PaddyBill) Clone() Bill {
	c := *b
	c.Entries = append([]WeighingEntry(nil), b.Entries...)
	c.Adjustments = append([]Adjustment(nil), b.Adjustments...)
	if b.PaidAmount != nil {
		paid := *b.PaidAmount
		c.PaidAmount = &paid
	}
	return &c
}

// PendingBalance is the amount still owed to the customer.
func (b *PaddyBill) PendingBalance() decimal.Decimal {
	if b.PaidAmount == nil {
		return b.FinalAmount
	}
	return b.FinalAmount.Sub(*b.PaidAmount)
}

// MarshalJSON adds the type discriminator.
func (b PaddyBill) MarshalJSON() ([]byte, error) {
	type Alias PaddyBill
	return json.Marshal(&struct {
		Type enum.BillType `json:"type"`
		Alias
	}{
		Type:  enum.BillTypePaddy,
		Alias: Alias(b),
	})
}

// InterestBill is an interest/adjustment note with an ordered ledger.
type InterestBill struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Date         string          `json:"date"`
	Lines        []InterestLine  `json:"entries"`
	FinalAmount  decimal.Decimal `json:"finalAmount"`
}

func (b *InterestBill) BillID() string         { return b.ID }
func (b *InterestBill) Type() enum.BillType    { return enum.BillTypeInterest }
func (b *InterestBill) Customer() string       { return b.CustomerName }
func (b *InterestBill) BillDate() string       { return b.Date }
func (b *InterestBill) Total() decimal.Decimal { return b.FinalAmount }
func (b *InterestBill) isBill()                {}

// Clone returns a deep copy.
func (b *InterestBill) Clone() Bill {
	c := *b
	c.Lines = append([]InterestLine(nil), b.Lines...)
	return &c
}

// MarshalJSON adds the type discriminator.
func (b InterestBill) MarshalJSON() ([]byte, error) {
	type Alias InterestBill
	return json.Marshal(&struct {
		Type enum.BillType `json:"type"`
		Alias
	}{
		Type:  enum.BillTypeInterest,
		Alias: Alias(b),
	})
}

// DecodeBill decodes a JSON bill using its "type" field. Payloads without
// a type are paddy bills, matching what older clients stored.
func DecodeBill(data []byte) (Bill, error) {
	var head struct {
		Type *enum.BillType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode bill header: %w", err)
	}

	if head.Type != nil && *head.Type == enum.BillTypeInterest {
		var b InterestBill
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode interest bill: %w", err)
		}
		return &b, nil
	}

	var b PaddyBill
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode paddy bill: %w", err)
	}
	return &b, nil
}
