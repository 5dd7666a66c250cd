package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/application/service"
	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/response"
	"github.com/mrstraders/paddybill/pkg/utils"
)

// BillHandler serves the live calculator and receipt previews.
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// CalculatePaddy recomputes paddy totals on every form edit.
func (h *BillHandler) CalculatePaddy(c *gin.Context) {
	var form billing.PaddyForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	response.OK(c, "Totals calculated", h.billService.CalculatePaddy(form))
}

// CalculateInterest folds the interest ledger.
func (h *BillHandler) CalculateInterest(c *gin.Context) {
	var form billing.InterestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	response.OK(c, "Totals calculated", h.billService.CalculateInterest(form))
}

// PreviewPaddy returns the receipt lines of the form as it stands.
func (h *BillHandler) PreviewPaddy(c *gin.Context) {
	var form billing.PaddyForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	response.OK(c, "Preview generated", h.billService.PreviewPaddy(form))
}

// PreviewInterest returns the receipt lines of an interest note.
func (h *BillHandler) PreviewInterest(c *gin.Context) {
	var form billing.InterestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	response.OK(c, "Preview generated", h.billService.PreviewInterest(form))
}

// NewPaddyForm returns a blank form with the shop defaults.
func (h *BillHandler) NewPaddyForm(c *gin.Context) {
	response.OK(c, "Blank form", billing.NewPaddyForm(utils.NewID))
}
