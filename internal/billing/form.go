package billing

import (
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
)

// Defaults of a fresh paddy form.
const (
	DefaultTarePerBag       = "2"
	DefaultLabourRatePerBag = "12"
)

// EntryInput is an editable weighing row.
type EntryInput struct {
	ID     string    `json:"id"`
	Weight FormValue `json:"weight"`
	Bags   FormValue `json:"bags"`
}

// AdjustmentInput is an editable adjustment row.
type AdjustmentInput struct {
	ID     string              `json:"id"`
	Kind   enum.AdjustmentKind `json:"type"`
	Amount FormValue           `json:"amount"`
	Note   string              `json:"note"`
}

// PaddyForm is the editable state of a paddy bill before it is queued.
type PaddyForm struct {
	CustomerName     FormValue         `json:"customerName"`
	Date             FormValue         `json:"date"`
	StockPlace       FormValue         `json:"stockPlace"`
	PaddyType        FormValue         `json:"paddyType"`
	Entries          []EntryInput      `json:"entries"`
	TarePerBag       FormValue         `json:"tarePerBag"`
	Rate             FormValue         `json:"rate"`
	LabourRatePerBag FormValue         `json:"labourCharge"`
	Adjustments      []AdjustmentInput `json:"adjustments"`
	PaidAmount       FormValue         `json:"paidAmount"`
	Notes            string            `json:"notes"`
}

// NewPaddyForm returns a blank form with the shop defaults and one empty
// weighing row.
func NewPaddyForm(newID func() string) PaddyForm {
	return PaddyForm{
		Entries:          []EntryInput{{ID: newID()}},
		TarePerBag:       DefaultTarePerBag,
		LabourRatePerBag: DefaultLabourRatePerBag,
	}
}

func (f PaddyForm) entries() []entity.WeighingEntry {
	out := make([]entity.WeighingEntry, 0, len(f.Entries))
	for _, e := range f.Entries {
		out = append(out, entity.WeighingEntry{
			ID:     e.ID,
			Weight: e.Weight.Decimal(),
			Bags:   e.Bags.Int(),
		})
	}
	return out
}

func (f PaddyForm) adjustments() []entity.Adjustment {
	out := make([]entity.Adjustment, 0, len(f.Adjustments))
	for _, a := range f.Adjustments {
		out = append(out, entity.Adjustment{
			ID:     a.ID,
			Kind:   a.Kind,
			Amount: a.Amount.Decimal(),
			Note:   a.Note,
		})
	}
	return out
}

func (f PaddyForm) calcInput() CalcInput {
	return CalcInput{
		Entries:          f.entries(),
		TarePerBag:       f.TarePerBag.Decimal(),
		Rate:             f.Rate.Decimal(),
		LabourRatePerBag: f.LabourRatePerBag.Decimal(),
		Adjustments:      f.adjustments(),
	}
}

// InterestLineInput is an editable interest ledger row.
type InterestLineInput struct {
	ID     string                `json:"id"`
	Kind   enum.InterestLineKind `json:"type"`
	Amount FormValue             `json:"amount"`
	Note   string                `json:"note"`
}

// InterestForm is the editable state of an interest note.
type InterestForm struct {
	CustomerName FormValue           `json:"customerName"`
	Date         FormValue           `json:"date"`
	Lines        []InterestLineInput `json:"entries"`
}

func (f InterestForm) lines() []entity.InterestLine {
	out := make([]entity.InterestLine, 0, len(f.Lines))
	for _, l := range f.Lines {
		line := entity.InterestLine{ID: l.ID, Kind: l.Kind}
		if l.Kind != enum.InterestLineCheckpoint {
			line.Amount = l.Amount.Decimal()
			line.Note = l.Note
		}
		out = append(out, line)
	}
	return out
}
