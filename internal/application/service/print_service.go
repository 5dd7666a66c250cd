package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrstraders/paddybill/internal/printqueue"
	"github.com/mrstraders/paddybill/internal/receipt"
	"github.com/mrstraders/paddybill/pkg/apperror"
	"github.com/mrstraders/paddybill/pkg/pdf"
	"github.com/mrstraders/paddybill/pkg/printer"
	"go.uber.org/zap"
)

// Rasterizer prints an HTML page to PDF.
type Rasterizer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// PrintService composes the print page and sends bills to paper.
type PrintService struct {
	queue       *printqueue.Queue
	formatter   *receipt.Formatter
	rasterizer  Rasterizer
	printer     printer.Printer
	printerType string
	charWidth   int
	logger      *zap.Logger
}

// PrintServiceConfig holds the collaborators of a PrintService.
type PrintServiceConfig struct {
	Queue       *printqueue.Queue
	Formatter   *receipt.Formatter
	Rasterizer  Rasterizer
	Printer     printer.Printer
	PrinterType string
	CharWidth   int
	Logger      *zap.Logger
}

// NewPrintService creates a new print service.
func NewPrintService(cfg PrintServiceConfig) *PrintService {
	if cfg.Printer == nil {
		cfg.Printer = printer.NewNullPrinter()
	}
	if cfg.CharWidth <= 0 {
		cfg.CharWidth = printer.DefaultWidth
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &PrintService{
		queue:       cfg.Queue,
		formatter:   cfg.Formatter,
		rasterizer:  cfg.Rasterizer,
		printer:     cfg.Printer,
		printerType: cfg.PrinterType,
		charWidth:   cfg.CharWidth,
		logger:      cfg.Logger,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"charWidth"`
}

// ThermalResult lists what reached the printer.
type ThermalResult struct {
	Printed []string `json:"printed"`
	Slots   []int    `json:"slots"`
}

// GetStatus returns printer connection status.
func (s *PrintService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
		CharWidth:  s.charWidth,
	}
}

// Page composes the current queue onto the named layout.
func (s *PrintService) Page(layoutName string) (*receipt.Page, error) {
	layout, ok := receipt.LayoutByName(layoutName)
	if !ok {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown layout %q", layoutName))
	}
	page := s.formatter.Compose(s.queue.Snapshot(), layout)
	return &page, nil
}

// PageHTML renders the page as a standalone HTML document.
func (s *PrintService) PageHTML(layoutName string) ([]byte, error) {
	page, err := s.Page(layoutName)
	if err != nil {
		return nil, err
	}
	return receipt.RenderHTML(*page)
}

// PagePDF rasterizes the physical print page. An all-empty page is
// refused rather than printed blank.
func (s *PrintService) PagePDF(ctx context.Context) ([]byte, error) {
	if s.rasterizer == nil {
		return nil, apperror.NewServiceUnavailableError("PDF export is not configured")
	}

	page := s.formatter.Compose(s.queue.Snapshot(), receipt.PrintLayout)
	if page.IsBlank() {
		return nil, apperror.NewBadRequestError("Print queue is empty")
	}

	html, err := receipt.RenderHTML(page)
	if err != nil {
		return nil, fmt.Errorf("failed to render print page: %w", err)
	}

	out, err := s.rasterizer.Render(ctx, html)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.NewServiceUnavailableError("PDF export timed out")
		}
		s.logger.Error("pdf export failed", zap.Error(err))
		return nil, fmt.Errorf("failed to export pdf: %w", err)
	}
	return out, nil
}

// PrintThermal sends each occupied slot of the physical page to the
// thermal printer in slot order. When slots is non-empty only those
// zero-based slots are printed, each once, in the order first given.
func (s *PrintService) PrintThermal(slots []int) (*ThermalResult, error) {
	snapshot := s.queue.Snapshot()

	var targets []int
	if len(slots) == 0 {
		for i := 0; i < receipt.PrintLayout.Cells(); i++ {
			targets = append(targets, i)
		}
	}

	seen := make(map[int]bool, len(slots))
	for _, i := range slots {
		if err := checkSlot(i); err != nil {
			return nil, err
		}
		if !seen[i] {
			seen[i] = true
			targets = append(targets, i)
		}
	}

	result := &ThermalResult{Printed: []string{}, Slots: []int{}}
	for _, i := range targets {
		sl := snapshot[i]
		if sl.IsEmpty() {
			continue
		}

		data := s.formatter.ThermalTicket(sl.Bill, s.charWidth)
		if err := s.printer.Print(data); err != nil {
			s.logger.Error("printer error",
				zap.Int("slot", i),
				zap.String("bill_id", sl.Bill.BillID()),
				zap.Error(err),
			)
			return result, apperror.NewServiceUnavailableError(fmt.Sprintf("Printer failed on slot %d: %v", i+1, err))
		}
		result.Printed = append(result.Printed, sl.Bill.BillID())
		result.Slots = append(result.Slots, i)
	}

	if len(result.Printed) == 0 {
		return nil, apperror.NewBadRequestError("Print queue is empty")
	}
	return result, nil
}

var _ Rasterizer = (*pdf.Rasterizer)(nil)
