package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mrstraders/paddybill/internal/receipt"
)

type fakeRasterizer struct {
	calls int
	html  []byte
	err   error
}

func (f *fakeRasterizer) Render(_ context.Context, html []byte) ([]byte, error) {
	f.calls++
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakePrinter struct {
	jobs      [][]byte
	connected bool
	err       error
}

func (p *fakePrinter) Print(data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *fakePrinter) Close() error      { return nil }
func (p *fakePrinter) IsConnected() bool { return p.connected }

type printFixture struct {
	bills   *BillService
	print   *PrintService
	raster  *fakeRasterizer
	printer *fakePrinter
}

func newPrintFixture(t *testing.T) *printFixture {
	t.Helper()
	q := testQueue(t)
	formatter := receipt.NewFormatter(receipt.DefaultLabels())
	fx := &printFixture{
		raster:  &fakeRasterizer{},
		printer: &fakePrinter{connected: true},
	}
	fx.bills = NewBillService(testAssembler(), q, formatter, nil)
	fx.print = NewPrintService(PrintServiceConfig{
		Queue:       q,
		Formatter:   formatter,
		Rasterizer:  fx.raster,
		Printer:     fx.printer,
		PrinterType: "network",
	})
	return fx
}

func TestPrintService_PDFRefusesEmptyQueue(t *testing.T) {
	fx := newPrintFixture(t)

	_, err := fx.print.PagePDF(context.Background())
	if code := appCode(t, err); code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", code)
	}
	if fx.raster.calls != 0 {
		t.Error("rasterizer called for an empty page")
	}
}

func TestPrintService_PDFRendersQueuedBills(t *testing.T) {
	fx := newPrintFixture(t)
	if _, err := fx.bills.QueuePaddy(paddyForm("Lakshmi")); err != nil {
		t.Fatal(err)
	}

	out, err := fx.print.PagePDF(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("unexpected output %q", out)
	}
	if !bytes.Contains(fx.raster.html, []byte("Lakshmi")) {
		t.Error("page html does not contain the queued bill")
	}
}

func TestPrintService_PDFTimeout(t *testing.T) {
	fx := newPrintFixture(t)
	fx.raster.err = context.DeadlineExceeded
	if _, err := fx.bills.QueuePaddy(paddyForm("Lakshmi")); err != nil {
		t.Fatal(err)
	}

	_, err := fx.print.PagePDF(context.Background())
	if code := appCode(t, err); code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", code)
	}
}

func TestPrintService_Page(t *testing.T) {
	fx := newPrintFixture(t)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if _, err := fx.bills.QueuePaddy(paddyForm(name)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		layout    string
		quadrants int
	}{
		{"", 4},
		{"print", 4},
		{"visualizer", 6},
	}
	for _, tt := range tests {
		page, err := fx.print.Page(tt.layout)
		if err != nil {
			t.Fatalf("%q: %v", tt.layout, err)
		}
		if len(page.Quadrants) != tt.quadrants {
			t.Errorf("%q: quadrants = %d, want %d", tt.layout, len(page.Quadrants), tt.quadrants)
		}
	}

	if _, err := fx.print.Page("poster"); appCode(t, err) != http.StatusBadRequest {
		t.Error("unknown layout should be rejected")
	}

	page, _ := fx.print.Page("visualizer")
	if page.Quadrants[4].Empty || !page.Quadrants[5].Empty {
		t.Error("visualizer page should show slot 5 and an empty slot 6")
	}

	html, err := fx.print.PageHTML("visualizer")
	if err != nil {
		t.Fatal(err)
	}
	if len(html) == 0 {
		t.Error("empty html")
	}
}

func TestPrintService_PrintThermal(t *testing.T) {
	fx := newPrintFixture(t)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := fx.bills.QueuePaddy(paddyForm(name)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := fx.bills.RemoveSlot(1); err != nil {
		t.Fatal(err)
	}

	res, err := fx.print.PrintThermal(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fx.printer.jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(fx.printer.jobs))
	}
	if res.Slots[0] != 0 || res.Slots[1] != 2 {
		t.Errorf("printed slots = %v, want [0 2]", res.Slots)
	}
	if !bytes.Contains(fx.printer.jobs[1], []byte("C")) {
		t.Error("second ticket is not bill C")
	}

	if _, err := fx.print.PrintThermal([]int{1}); appCode(t, err) != http.StatusBadRequest {
		t.Error("printing only empty slots should fail")
	}
	if _, err := fx.print.PrintThermal([]int{9}); appCode(t, err) != http.StatusBadRequest {
		t.Error("out of range slot should fail")
	}
}

func TestPrintService_PrintThermalRepeatedSlots(t *testing.T) {
	tests := []struct {
		name  string
		slots []int
		want  []int
	}{
		{"same slot twice", []int{0, 0}, []int{0}},
		{"keeps first order", []int{1, 0, 1, 0}, []int{1, 0}},
		{"repeated empty slot", []int{0, 5, 5}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newPrintFixture(t)
			for _, name := range []string{"A", "B"} {
				if _, err := fx.bills.QueuePaddy(paddyForm(name)); err != nil {
					t.Fatal(err)
				}
			}

			res, err := fx.print.PrintThermal(tt.slots)
			if err != nil {
				t.Fatal(err)
			}
			if len(fx.printer.jobs) != len(tt.want) {
				t.Errorf("jobs = %d, want %d", len(fx.printer.jobs), len(tt.want))
			}
			if fmt.Sprint(res.Slots) != fmt.Sprint(tt.want) {
				t.Errorf("printed slots = %v, want %v", res.Slots, tt.want)
			}
		})
	}
}

func TestPrintService_PrinterFailure(t *testing.T) {
	fx := newPrintFixture(t)
	fx.printer.err = errors.New("paper out")
	if _, err := fx.bills.QueuePaddy(paddyForm("A")); err != nil {
		t.Fatal(err)
	}

	if _, err := fx.print.PrintThermal(nil); err == nil {
		t.Fatal("expected printer error")
	}
}

func TestPrintService_Status(t *testing.T) {
	fx := newPrintFixture(t)
	st := fx.print.GetStatus()
	if !st.Configured || !st.Connected || st.Type != "network" || st.CharWidth != 32 {
		t.Errorf("status = %+v", st)
	}

	none := NewPrintService(PrintServiceConfig{PrinterType: "none"})
	if st := none.GetStatus(); st.Configured || st.Connected {
		t.Errorf("status = %+v", st)
	}
}
