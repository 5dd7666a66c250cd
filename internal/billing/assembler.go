package billing

import (
	"strconv"
	"time"

	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/mrstraders/paddybill/pkg/apperror"
	"github.com/mrstraders/paddybill/pkg/utils"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of bill dates.
const DateLayout = "2006-01-02"

// Assembler turns validated form state into immutable bills.
type Assembler struct {
	NewID func() string
	Now   func() time.Time
}

// NewAssembler creates an assembler with random ids and the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{NewID: utils.NewID, Now: time.Now}
}

// ValidatePaddy checks the fields a paddy bill cannot be queued without.
func ValidatePaddy(f PaddyForm) []apperror.FieldError {
	var errs []apperror.FieldError
	if f.CustomerName.IsBlank() {
		errs = append(errs, apperror.FieldError{Field: "customerName", Message: "Customer name is required"})
	}
	if f.Rate.IsBlank() {
		errs = append(errs, apperror.FieldError{Field: "rate", Message: "Rate is required"})
	}
	if f.StockPlace.IsBlank() {
		errs = append(errs, apperror.FieldError{Field: "stockPlace", Message: "Stock place must be selected"})
	}
	if f.PaddyType.IsBlank() {
		errs = append(errs, apperror.FieldError{Field: "paddyType", Message: "Paddy type must be selected"})
	}
	return errs
}

// ValidateInterest checks the fields an interest note cannot be queued without.
func ValidateInterest(f InterestForm) []apperror.FieldError {
	var errs []apperror.FieldError
	if f.CustomerName.IsBlank() {
		errs = append(errs, apperror.FieldError{Field: "customerName", Message: "Customer name is required"})
	}

	hasAmount := false
	for _, l := range f.Lines {
		if l.Kind != enum.InterestLineCheckpoint {
			hasAmount = true
			break
		}
	}
	if !hasAmount {
		errs = append(errs, apperror.FieldError{Field: "entries", Message: "At least one add or subtract line is required"})
	}
	return errs
}

// AssemblePaddy validates the form and builds a new paddy bill with its
// totals. The bill shares no memory with the form.
func (a *Assembler) AssemblePaddy(f PaddyForm) (*entity.PaddyBill, error) {
	if errs := ValidatePaddy(f); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return a.DraftPaddy(f), nil
}

// DraftPaddy builds a bill from a possibly incomplete form, for previews.
func (a *Assembler) DraftPaddy(f PaddyForm) *entity.PaddyBill {
	in := f.calcInput()
	for i := range in.Entries {
		if in.Entries[i].ID == "" {
			in.Entries[i].ID = a.NewID()
		}
	}
	for i := range in.Adjustments {
		if in.Adjustments[i].ID == "" {
			in.Adjustments[i].ID = a.NewID()
		}
	}

	bill := &entity.PaddyBill{
		ID:                a.NewID(),
		CustomerName:      f.CustomerName.String(),
		Date:              a.date(f.Date),
		StockPlace:        f.StockPlace.String(),
		PaddyType:         f.PaddyType.String(),
		Entries:           in.Entries,
		TarePerBag:        in.TarePerBag,
		Rate:              in.Rate,
		LabourRatePerBag:  in.LabourRatePerBag,
		Adjustments:       in.Adjustments,
		Notes:             f.Notes,
		CalculationResult: Calculate(in),
	}
	if !f.PaidAmount.IsBlank() {
		paid := f.PaidAmount.Decimal()
		bill.PaidAmount = &paid
	}
	return bill
}

// AssembleInterest validates the form and builds a new interest note.
func (a *Assembler) AssembleInterest(f InterestForm) (*entity.InterestBill, error) {
	if errs := ValidateInterest(f); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	return a.DraftInterest(f), nil
}

// DraftInterest builds a note from a possibly incomplete form, for previews.
func (a *Assembler) DraftInterest(f InterestForm) *entity.InterestBill {
	lines := f.lines()
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = a.NewID()
		}
	}

	return &entity.InterestBill{
		ID:           a.NewID(),
		CustomerName: f.CustomerName.String(),
		Date:         a.date(f.Date),
		Lines:        lines,
		FinalAmount:  FoldInterest(lines).Total,
	}
}

func (a *Assembler) date(v FormValue) string {
	if d := NormalizeDate(v.String()); d != "" {
		return d
	}
	return a.Now().Format(DateLayout)
}

// NormalizeDate reduces a stored date or timestamp to YYYY-MM-DD. It returns
// "" when the value is not a date.
func NormalizeDate(s string) string {
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			return t.Format(DateLayout)
		}
	}
	return ""
}

// PaddyFormFromBill loads a bill back into editable form state. Assembling
// the returned form yields an equal bill under a new id.
func PaddyFormFromBill(b *entity.PaddyBill) PaddyForm {
	f := PaddyForm{
		CustomerName:     FormValue(b.CustomerName),
		Date:             FormValue(b.Date),
		StockPlace:       FormValue(b.StockPlace),
		PaddyType:        FormValue(b.PaddyType),
		TarePerBag:       decimalValue(b.TarePerBag),
		Rate:             decimalValue(b.Rate),
		LabourRatePerBag: decimalValue(b.LabourRatePerBag),
		Notes:            b.Notes,
	}
	for _, e := range b.Entries {
		f.Entries = append(f.Entries, EntryInput{
			ID:     e.ID,
			Weight: decimalValue(e.Weight),
			Bags:   FormValue(strconv.Itoa(e.Bags)),
		})
	}
	for _, adj := range b.Adjustments {
		f.Adjustments = append(f.Adjustments, AdjustmentInput{
			ID:     adj.ID,
			Kind:   adj.Kind,
			Amount: decimalValue(adj.Amount),
			Note:   adj.Note,
		})
	}
	if b.PaidAmount != nil {
		f.PaidAmount = decimalValue(*b.PaidAmount)
	}
	return f
}

// InterestFormFromBill loads an interest note back into editable form state.
func InterestFormFromBill(b *entity.InterestBill) InterestForm {
	f := InterestForm{
		CustomerName: FormValue(b.CustomerName),
		Date:         FormValue(b.Date),
	}
	for _, l := range b.Lines {
		in := InterestLineInput{ID: l.ID, Kind: l.Kind, Note: l.Note}
		if !l.IsCheckpoint() {
			in.Amount = decimalValue(l.Amount)
		}
		f.Lines = append(f.Lines, in)
	}
	return f
}

func decimalValue(d decimal.Decimal) FormValue {
	return FormValue(d.String())
}
