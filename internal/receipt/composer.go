package receipt

import (
	"github.com/mrstraders/paddybill/internal/printqueue"
)

// A4 portrait, in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Layout is a grid of equal cells on one page.
type Layout struct {
	Name    string `json:"name"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

// Cells is the number of queue slots the layout shows.
func (l Layout) Cells() int {
	return l.Columns * l.Rows
}

var (
	// PrintLayout is the physical page: four quadrants.
	PrintLayout = Layout{Name: "print", Columns: 2, Rows: 2}
	// VisualizerLayout stages all six queue slots.
	VisualizerLayout = Layout{Name: "visualizer", Columns: 2, Rows: 3}
)

// LayoutByName resolves "print" or "visualizer".
func LayoutByName(name string) (Layout, bool) {
	switch name {
	case "", PrintLayout.Name:
		return PrintLayout, true
	case VisualizerLayout.Name:
		return VisualizerLayout, true
	}
	return Layout{}, false
}

// Quadrant is one cell of the page. Empty cells keep their place so cut
// lines stay aligned.
type Quadrant struct {
	Slot     int     `json:"slot"`
	Row      int     `json:"row"`
	Column   int     `json:"column"`
	Empty    bool    `json:"empty"`
	BillID   string  `json:"billId,omitempty"`
	BillType string  `json:"billType,omitempty"`
	WidthMM  float64 `json:"widthMm"`
	HeightMM float64 `json:"heightMm"`
	Lines    []Line  `json:"lines,omitempty"`
}

// Page is a composed print page.
type Page struct {
	Layout    Layout     `json:"layout"`
	WidthMM   float64    `json:"widthMm"`
	HeightMM  float64    `json:"heightMm"`
	Quadrants []Quadrant `json:"quadrants"`
}

// IsBlank reports whether no quadrant holds a bill.
func (p Page) IsBlank() bool {
	for _, q := range p.Quadrants {
		if !q.Empty {
			return false
		}
	}
	return true
}

// Compose maps queue slots 0..layout.Cells()-1 onto the page grid in slot
// order, row by row.
func (f *Formatter) Compose(slots [printqueue.Capacity]printqueue.Slot, layout Layout) Page {
	cells := layout.Cells()
	if cells > len(slots) {
		cells = len(slots)
	}

	page := Page{
		Layout:    layout,
		WidthMM:   PageWidthMM,
		HeightMM:  PageHeightMM,
		Quadrants: make([]Quadrant, 0, cells),
	}
	w := PageWidthMM / float64(layout.Columns)
	h := PageHeightMM / float64(layout.Rows)

	for i := 0; i < cells; i++ {
		q := Quadrant{
			Slot:     i,
			Row:      i / layout.Columns,
			Column:   i % layout.Columns,
			Empty:    slots[i].IsEmpty(),
			WidthMM:  w,
			HeightMM: h,
		}
		if !q.Empty {
			b := slots[i].Bill
			q.BillID = b.BillID()
			q.BillType = b.Type().String()
			q.Lines = f.Format(b)
		}
		page.Quadrants = append(page.Quadrants, q)
	}
	return page
}
