package receipt

import (
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/pkg/printer"
)

// WriteESCPOS renders formatted lines onto a thermal printer document.
func WriteESCPOS(doc *printer.Document, lines []Line) {
	doc.SetAlign(printer.AlignLeft)

	for _, l := range lines {
		if l.IsDivider() {
			rule := byte('-')
			if l.Kind == entity.LineDoubleDivider {
				rule = '='
			}
			doc.Separator(rule)
			continue
		}

		switch l.Style {
		case entity.StyleHeader:
			doc.SetBold(true).KeyValue(l.Left, l.Right).SetBold(false).Separator('_')
		case entity.StyleTotal:
			doc.SetBold(true).SetFontSize(printer.FontTall).
				KeyValue(l.Left, l.Right).
				SetFontSize(printer.FontNormal).SetBold(false)
		case entity.StyleBold:
			doc.SetBold(true).KeyValue(l.Left, l.Right).SetBold(false)
		default:
			doc.KeyValue(l.Left, l.Right)
		}
	}
}

// ThermalTicket renders one bill as a complete ticket ending in a partial cut.
func (f *Formatter) ThermalTicket(b entity.Bill, width int) []byte {
	doc := printer.NewDocument(width)
	WriteESCPOS(doc, f.Format(b))
	doc.FeedLines(3).PartialCut()
	return doc.Bytes()
}
