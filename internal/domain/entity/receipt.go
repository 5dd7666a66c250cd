package entity

// LineKind tells a renderer how to draw a receipt line.
type LineKind string

const (
	LineText          LineKind = "text"
	LineDivider       LineKind = "divider"
	LineDoubleDivider LineKind = "double_divider"
)

// LineStyle is the typographic weight of a text line.
type LineStyle string

const (
	StyleNormal   LineStyle = "normal"
	StyleHeader   LineStyle = "header"
	StyleSubEntry LineStyle = "sub_entry"
	StyleTotal    LineStyle = "total"
	StyleBold     LineStyle = "bold"
)

// ReceiptLine is one display line of a formatted bill. Left is the main
// column; Right is the optional trailing column (dates, notes).
//
// It is NOT a database entity; lines are composed from a bill at print time.
type ReceiptLine struct {
	Kind  LineKind  `json:"kind"`
	Style LineStyle `json:"style,omitempty"`
	Left  string    `json:"left,omitempty"`
	Right string    `json:"right,omitempty"`
}

// IsDivider reports whether the line is a single or double rule.
func (l ReceiptLine) IsDivider() bool {
	return l.Kind == LineDivider || l.Kind == LineDoubleDivider
}
