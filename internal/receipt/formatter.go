// Package receipt turns bills into printable lines and lays them out on
// the A4 print page.
package receipt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
)

// Line is one formatted receipt line.
type Line = entity.ReceiptLine

// Formatter renders bills with a fixed template per bill type.
type Formatter struct {
	Labels Labels
}

// NewFormatter creates a formatter; blank labels fall back to the defaults.
func NewFormatter(labels Labels) *Formatter {
	return &Formatter{Labels: labels.withDefaults()}
}

// Format renders any bill.
func (f *Formatter) Format(b entity.Bill) []Line {
	switch bill := b.(type) {
	case *entity.PaddyBill:
		return f.FormatPaddy(bill)
	case *entity.InterestBill:
		return f.FormatInterest(bill)
	default:
		panic(fmt.Sprintf("receipt: unknown bill type %T", b))
	}
}

// FormatPaddy renders a paddy purchase bill. Individual weighings are only
// listed when there is more than one.
func (f *Formatter) FormatPaddy(b *entity.PaddyBill) []Line {
	l := f.Labels
	bags := strconv.Itoa(b.TotalBags)

	lines := []Line{
		text(entity.StyleSubEntry, b.StockPlace, ""),
		text(entity.StyleHeader, b.CustomerName, DisplayDate(b.Date)),
	}

	if len(b.Entries) > 1 {
		for _, e := range b.Entries {
			lines = append(lines, text(entity.StyleSubEntry, fmt.Sprintf("%s - %d %s", e.Weight, e.Bags, l.Bags), ""))
		}
		lines = append(lines, divider())
	}

	lines = append(lines,
		text(entity.StyleNormal, fmt.Sprintf("%s - %s %s", FormatAmount(b.TotalWeight), bags, l.Bags), ""),
		text(entity.StyleNormal, fmt.Sprintf("%s - %s (%s * %s)", FormatAmount(b.TareWeight), l.Tare, bags, b.TarePerBag), ""),
		divider(),
		text(entity.StyleNormal, fmt.Sprintf("%s * %s %s", b.NetWeight.StringFixed(2), b.Rate, l.Rate), ""),
		divider(),
		text(entity.StyleTotal, FormatAmount(b.GrossAmount), ""),
		text(entity.StyleNormal, fmt.Sprintf("%s - %s (%s * %s)", FormatAmount(b.TotalLabour), l.Labour, bags, b.LabourRatePerBag), ""),
	)

	if len(b.Adjustments) > 0 {
		lines = append(lines,
			divider(),
			text(entity.StyleNormal, FormatAmount(b.NetAfterLabour), ""),
		)
	}
	for _, adj := range b.Adjustments {
		lines = append(lines, f.adjustmentLine(adj))
	}

	lines = append(lines,
		divider(),
		text(entity.StyleTotal, FormatAmount(b.FinalAmount), ""),
		text(entity.StyleTotal, FormatAmount(b.FinalAmount), ""),
		Line{Kind: entity.LineDoubleDivider},
		text(entity.StyleNormal, l.Footer, ""),
	)
	if b.Notes != "" {
		lines = append(lines, text(entity.StyleNormal, b.Notes, ""))
	}
	return lines
}

func (f *Formatter) adjustmentLine(adj entity.Adjustment) Line {
	amount := FormatAmount(adj.Amount)
	note := adj.Note
	if adj.Kind == enum.AdjustmentSubtract {
		if note == "" {
			note = f.Labels.PaidNote
		}
		return text(entity.StyleNormal, amount, note)
	}
	if note == "" {
		note = f.Labels.AddedNote
	}
	return text(entity.StyleNormal, amount+" (+)", note)
}

// FormatInterest renders an interest note. Checkpoints print the running
// total under a rule.
func (f *Formatter) FormatInterest(b *entity.InterestBill) []Line {
	lines := []Line{
		text(entity.StyleHeader, b.CustomerName, DisplayDate(b.Date)),
		text(entity.StyleSubEntry, f.Labels.InterestHeading, ""),
		divider(),
	}

	for _, al := range billing.FoldInterest(b.Lines).Lines {
		switch al.Kind {
		case enum.InterestLineCheckpoint:
			lines = append(lines, divider(), text(entity.StyleBold, FormatAmount(al.Subtotal), ""))
		case enum.InterestLineSubtract:
			lines = append(lines, text(entity.StyleNormal, "- "+FormatAmount(al.Amount), al.Note))
		default:
			lines = append(lines, text(entity.StyleNormal, "+ "+FormatAmount(al.Amount), al.Note))
		}
	}

	return append(lines, Line{Kind: entity.LineDoubleDivider})
}

// DisplayDate renders a YYYY-MM-DD date as dd/mm/yyyy. Other input is
// returned unchanged.
func DisplayDate(s string) string {
	t, err := time.Parse(billing.DateLayout, billing.NormalizeDate(s))
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

func text(style entity.LineStyle, left, right string) Line {
	return Line{Kind: entity.LineText, Style: style, Left: left, Right: right}
}

func divider() Line {
	return Line{Kind: entity.LineDivider}
}
