package billing

import (
	"encoding/json"
	"fmt"

	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// legacyTarePerBag is the tare older clients assumed when none was stored.
var legacyTarePerBag = decimal.NewFromInt(2)

// storedTotals are the derived fields an old payload may or may not carry.
type storedTotals struct {
	TotalWeight    FormValue `json:"totalWeight"`
	TotalBags      FormValue `json:"totalBags"`
	TareWeight     FormValue `json:"tareWeight"`
	NetWeight      FormValue `json:"netWeight"`
	GrossAmount    FormValue `json:"grossAmount"`
	TotalLabour    FormValue `json:"totalLabour"`
	NetAfterLabour FormValue `json:"netAfterLabour"`
	FinalAmount    FormValue `json:"finalAmount"`
}

type storedPaddy struct {
	ID string `json:"id"`
	PaddyForm
	storedTotals
}

type storedInterest struct {
	ID string `json:"id"`
	InterestForm
	FinalAmount FormValue `json:"finalAmount"`
}

// MigrateRecord decodes a stored bill payload of the given schema version.
// recordTotal is the final amount kept on the record row; it wins over the
// payload for legacy paddy records.
func MigrateRecord(t enum.BillType, data []byte, version int, recordTotal decimal.Decimal) (entity.Bill, error) {
	if t == enum.BillTypeInterest {
		return migrateInterest(data, version)
	}
	return migratePaddy(data, version, recordTotal)
}

func migratePaddy(data []byte, version int, recordTotal decimal.Decimal) (*entity.PaddyBill, error) {
	if version >= entity.RecordSchemaCurrent {
		var b entity.PaddyBill
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode paddy payload: %w", err)
		}
		return &b, nil
	}

	var s storedPaddy
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode legacy paddy payload: %w", err)
	}

	in := s.calcInput()
	if in.TarePerBag.IsZero() {
		in.TarePerBag = legacyTarePerBag
	}
	calc := Calculate(in)

	bill := &entity.PaddyBill{
		ID:               s.ID,
		CustomerName:     s.CustomerName.String(),
		Date:             NormalizeDate(s.Date.String()),
		StockPlace:       s.StockPlace.String(),
		PaddyType:        s.PaddyType.String(),
		Entries:          in.Entries,
		TarePerBag:       in.TarePerBag,
		Rate:             in.Rate,
		LabourRatePerBag: in.LabourRatePerBag,
		Adjustments:      in.Adjustments,
		Notes:            s.Notes,
		CalculationResult: entity.CalculationResult{
			TotalWeight:    storedOr(s.TotalWeight, calc.TotalWeight),
			TotalBags:      calc.TotalBags,
			TareWeight:     storedOr(s.TareWeight, calc.TareWeight),
			NetWeight:      storedOr(s.NetWeight, calc.NetWeight),
			GrossAmount:    storedOr(s.GrossAmount, calc.GrossAmount),
			TotalLabour:    storedOr(s.TotalLabour, calc.TotalLabour),
			NetAfterLabour: storedOr(s.NetAfterLabour, calc.NetAfterLabour),
			FinalAmount:    storedOr(s.FinalAmount, calc.FinalAmount),
		},
	}
	if n := s.TotalBags.Int(); n > 0 {
		bill.TotalBags = n
	}
	if recordTotal.IsPositive() {
		bill.FinalAmount = recordTotal
	}
	if !s.PaidAmount.IsBlank() {
		paid := s.PaidAmount.Decimal()
		bill.PaidAmount = &paid
	}
	return bill, nil
}

func migrateInterest(data []byte, version int) (*entity.InterestBill, error) {
	if version >= entity.RecordSchemaCurrent {
		var b entity.InterestBill
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode interest payload: %w", err)
		}
		return &b, nil
	}

	var s storedInterest
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode legacy interest payload: %w", err)
	}

	lines := s.lines()
	return &entity.InterestBill{
		ID:           s.ID,
		CustomerName: s.CustomerName.String(),
		Date:         NormalizeDate(s.Date.String()),
		Lines:        lines,
		FinalAmount:  storedOr(s.FinalAmount, FoldInterest(lines).Total),
	}, nil
}

// storedOr prefers a stored non-zero value, like the old record viewer did.
func storedOr(stored FormValue, computed decimal.Decimal) decimal.Decimal {
	if d := stored.Decimal(); !d.IsZero() {
		return d
	}
	return computed
}
