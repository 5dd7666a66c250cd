package billing

import (
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SumAdjustments returns the signed sum of paddy adjustments. Order does
// not matter.
func SumAdjustments(adjustments []entity.Adjustment) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range adjustments {
		sum = sum.Add(a.Signed())
	}
	return sum
}

// AnnotatedLine is an interest line with the running total it displays.
// For a checkpoint, Subtotal is the total of every line before it.
type AnnotatedLine struct {
	entity.InterestLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

// InterestLedger is the folded interest note.
type InterestLedger struct {
	Lines []AnnotatedLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// FoldInterest walks the lines in order. Adds and subtracts move the
// accumulator; checkpoints record it and leave it unchanged.
func FoldInterest(lines []entity.InterestLine) InterestLedger {
	acc := decimal.Zero
	out := make([]AnnotatedLine, 0, len(lines))
	for _, l := range lines {
		switch l.Kind {
		case enum.InterestLineCheckpoint:
			out = append(out, AnnotatedLine{InterestLine: l, Subtotal: acc})
			continue
		case enum.InterestLineSubtract:
			acc = acc.Sub(l.Amount)
		default:
			acc = acc.Add(l.Amount)
		}
		out = append(out, AnnotatedLine{InterestLine: l, Subtotal: acc})
	}
	return InterestLedger{Lines: out, Total: acc}
}

// CalculateInterestForm coerces the raw form and folds its ledger.
func CalculateInterestForm(f InterestForm) InterestLedger {
	return FoldInterest(f.lines())
}
