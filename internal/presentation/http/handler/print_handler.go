package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/application/service"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/request"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/response"
)

// PrintHandler handles the print page and the thermal printer.
type PrintHandler struct {
	printService *service.PrintService
}

// NewPrintHandler creates a new print handler.
func NewPrintHandler(printService *service.PrintService) *PrintHandler {
	return &PrintHandler{printService: printService}
}

// Page returns the composed page as quadrants of receipt lines.
func (h *PrintHandler) Page(c *gin.Context) {
	page, err := h.printService.Page(c.Query("layout"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Print page composed", page)
}

// PageHTML returns the page as a printable HTML document.
func (h *PrintHandler) PageHTML(c *gin.Context) {
	html, err := h.printService.PageHTML(c.Query("layout"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// PagePDF exports the physical page as an A4 PDF.
func (h *PrintHandler) PagePDF(c *gin.Context) {
	pdf, err := h.printService.PagePDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="bills.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// PrintThermal sends queued bills to the thermal printer.
func (h *PrintHandler) PrintThermal(c *gin.Context) {
	var req request.PrintThermalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}

	slots := make([]int, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, s-1)
	}

	res, err := h.printService.PrintThermal(slots)
	if err != nil {
		// Some tickets may have printed before the printer failed.
		if res != nil && len(res.Printed) > 0 {
			response.OK(c, "Some bills printed before the printer failed", gin.H{
				"result":  res,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Bills sent to printer", res)
}

// GetStatus returns the current printer connection status.
func (h *PrintHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printService.GetStatus())
}
