package service

import (
	"errors"
	"fmt"

	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/printqueue"
	"github.com/mrstraders/paddybill/internal/receipt"
	"github.com/mrstraders/paddybill/pkg/apperror"
	"go.uber.org/zap"
)

// BillService drives the entry forms and the print queue.
type BillService struct {
	assembler *billing.Assembler
	queue     *printqueue.Queue
	formatter *receipt.Formatter
	logger    *zap.Logger
}

// NewBillService creates a new bill service
func NewBillService(
	assembler *billing.Assembler,
	queue *printqueue.Queue,
	formatter *receipt.Formatter,
	logger *zap.Logger,
) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{
		assembler: assembler,
		queue:     queue,
		formatter: formatter,
		logger:    logger,
	}
}

// Preview is a bill rendered the way it will be printed.
type Preview struct {
	Bill  entity.Bill    `json:"bill"`
	Lines []receipt.Line `json:"lines"`
}

// QueueView is the print queue as shown to the operator.
type QueueView struct {
	Slots      [printqueue.Capacity]printqueue.Slot `json:"slots"`
	Identities [printqueue.Capacity]string          `json:"identities"`
	Remaining  int                                  `json:"remaining"`
}

// QueuedBill reports where a bill landed.
type QueuedBill struct {
	Bill      entity.Bill `json:"bill"`
	Remaining int         `json:"remaining"`
	Queue     *QueueView  `json:"queue"`
}

// EditState is form state loaded back from a queued or saved bill.
type EditState struct {
	Type         string                `json:"type"`
	PaddyForm    *billing.PaddyForm    `json:"paddyForm,omitempty"`
	InterestForm *billing.InterestForm `json:"interestForm,omitempty"`
}

// CalculatePaddy recomputes totals for the current form. Unparseable
// numbers count as zero so this never fails.
func (s *BillService) CalculatePaddy(form billing.PaddyForm) entity.CalculationResult {
	return billing.CalculateForm(form)
}

// CalculateInterest folds the interest lines into their running total.
func (s *BillService) CalculateInterest(form billing.InterestForm) billing.InterestLedger {
	return billing.CalculateInterestForm(form)
}

// PreviewPaddy formats an unvalidated draft of the form.
func (s *BillService) PreviewPaddy(form billing.PaddyForm) *Preview {
	b := s.assembler.DraftPaddy(form)
	return &Preview{Bill: b, Lines: s.formatter.Format(b)}
}

// PreviewInterest formats an unvalidated draft of the interest form.
func (s *BillService) PreviewInterest(form billing.InterestForm) *Preview {
	b := s.assembler.DraftInterest(form)
	return &Preview{Bill: b, Lines: s.formatter.Format(b)}
}

// QueuePaddy validates the form and places the bill in the first free slot.
func (s *BillService) QueuePaddy(form billing.PaddyForm) (*QueuedBill, error) {
	b, err := s.assembler.AssemblePaddy(form)
	if err != nil {
		return nil, err
	}
	return s.enqueue(b)
}

// QueueInterest validates the interest form and queues it.
func (s *BillService) QueueInterest(form billing.InterestForm) (*QueuedBill, error) {
	b, err := s.assembler.AssembleInterest(form)
	if err != nil {
		return nil, err
	}
	return s.enqueue(b)
}

func (s *BillService) enqueue(b entity.Bill) (*QueuedBill, error) {
	remaining, err := s.queue.Insert(b)
	if err != nil {
		if errors.Is(err, printqueue.ErrQueueFull) {
			return nil, apperror.NewConflictError("Print queue is full. Print or remove bills first.")
		}
		return nil, err
	}

	s.logger.Info("bill queued",
		zap.String("bill_id", b.BillID()),
		zap.String("type", b.Type().String()),
		zap.Int("remaining", remaining),
	)

	return &QueuedBill{Bill: b, Remaining: remaining, Queue: s.GetQueue()}, nil
}

// GetQueue returns a snapshot of all six slots.
func (s *BillService) GetQueue() *QueueView {
	v := s.queue.View()
	return &QueueView{
		Slots:      v.Slots,
		Identities: v.Identities,
		Remaining:  v.Remaining,
	}
}

// RemoveSlot empties one slot; the others keep their positions.
func (s *BillService) RemoveSlot(slot int) (*QueueView, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	s.queue.RemoveAt(slot)
	return s.GetQueue(), nil
}

// Reorder applies a new order given as slot identities. The list must be
// a permutation of the current identities.
func (s *BillService) Reorder(identities []string) (*QueueView, error) {
	if !s.queue.ReorderByIdentity(identities) {
		return nil, apperror.NewBadRequestError("Order must list every current slot exactly once")
	}
	return s.GetQueue(), nil
}

// Move drags one slot onto another's position.
func (s *BillService) Move(sourceID, targetID string) (*QueueView, error) {
	if !s.queue.Move(sourceID, targetID) {
		return nil, apperror.NewBadRequestError("Unknown slot identity")
	}
	return s.GetQueue(), nil
}

// Clear empties every slot.
func (s *BillService) Clear() *QueueView {
	s.queue.Clear()
	s.logger.Info("print queue cleared")
	return s.GetQueue()
}

// EditSlot loads the bill in a slot back into form state. The bill stays
// queued until the operator removes it.
func (s *BillService) EditSlot(slot int) (*EditState, error) {
	b, err := s.SlotBill(slot)
	if err != nil {
		return nil, err
	}
	return EditStateFor(b), nil
}

// SlotBill returns the bill queued in slot.
func (s *BillService) SlotBill(slot int) (entity.Bill, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	sl := s.queue.At(slot)
	if sl.IsEmpty() {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Bill in slot %d", slot+1))
	}
	return sl.Bill, nil
}

// EditStateFor converts a bill into the form that produced it.
func EditStateFor(b entity.Bill) *EditState {
	switch v := b.(type) {
	case *entity.PaddyBill:
		f := billing.PaddyFormFromBill(v)
		return &EditState{Type: v.Type().String(), PaddyForm: &f}
	case *entity.InterestBill:
		f := billing.InterestFormFromBill(v)
		return &EditState{Type: v.Type().String(), InterestForm: &f}
	default:
		panic(fmt.Sprintf("service: unknown bill type %T", b))
	}
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= printqueue.Capacity {
		return apperror.NewBadRequestError(fmt.Sprintf("Slot must be between 1 and %d", printqueue.Capacity))
	}
	return nil
}
