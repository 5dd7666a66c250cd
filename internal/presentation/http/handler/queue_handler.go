package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/application/service"
	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/request"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/response"
)

// QueueHandler handles the six-slot print queue.
type QueueHandler struct {
	billService   *service.BillService
	recordService *service.RecordService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(billService *service.BillService, recordService *service.RecordService) *QueueHandler {
	return &QueueHandler{billService: billService, recordService: recordService}
}

// Get returns every slot with its drag identity.
func (h *QueueHandler) Get(c *gin.Context) {
	response.OK(c, "Print queue retrieved", h.billService.GetQueue())
}

// AddPaddy validates a paddy form and queues the bill.
func (h *QueueHandler) AddPaddy(c *gin.Context) {
	var form billing.PaddyForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.billService.QueuePaddy(form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill added to print queue", res)
}

// AddInterest validates an interest form and queues the note.
func (h *QueueHandler) AddInterest(c *gin.Context) {
	var form billing.InterestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.billService.QueueInterest(form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill added to print queue", res)
}

// Remove empties one slot.
func (h *QueueHandler) Remove(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.billService.RemoveSlot(slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Slot cleared", view)
}

// Reorder applies a full permutation of slot identities.
func (h *QueueHandler) Reorder(c *gin.Context) {
	var req request.ReorderQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.billService.Reorder(req.Order)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Print queue reordered", view)
}

// Move drags one slot onto another.
func (h *QueueHandler) Move(c *gin.Context) {
	var req request.MoveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	view, err := h.billService.Move(req.SourceID, req.TargetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Slot moved", view)
}

// Clear empties the whole queue.
func (h *QueueHandler) Clear(c *gin.Context) {
	response.OK(c, "Print queue cleared", h.billService.Clear())
}

// Edit returns the form state of a queued bill.
func (h *QueueHandler) Edit(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	state, err := h.billService.EditSlot(slot)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill loaded for editing", state)
}

// Save stores a queued bill in the records.
func (h *QueueHandler) Save(c *gin.Context) {
	slot, err := slotParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	bill, err := h.billService.SlotBill(slot)
	if err != nil {
		response.Error(c, err)
		return
	}

	record, err := h.recordService.CreateFromBill(c.Request.Context(), bill)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Record saved", record)
}
