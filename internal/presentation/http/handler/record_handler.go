package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/mrstraders/paddybill/internal/application/service"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/request"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/response"
)

// maxImportSize caps an uploaded import file.
const maxImportSize = 32 << 20

// RecordHandler handles the saved bill history.
type RecordHandler struct {
	recordService *service.RecordService
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// List handles listing records with filters and pagination
func (h *RecordHandler) List(c *gin.Context) {
	var q request.RecordFilterRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params, err := recordFilter(q)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.recordService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Records retrieved successfully", result)
}

// Create saves a bill payload as a record.
func (h *RecordHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.recordService.Create(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Record saved", record)
}

// Get returns one record with its normalized bill and balance.
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.recordService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record retrieved successfully", detail)
}

// Edit returns a stored bill as form state.
func (h *RecordHandler) Edit(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	state, err := h.recordService.EditForm(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record loaded for editing", state)
}

// Update replaces the bill of a record.
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.recordService.Update(c.Request.Context(), id, body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record updated", record)
}

// Delete removes a record.
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.recordService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export downloads the filtered records as json or xlsx.
func (h *RecordHandler) Export(c *gin.Context) {
	var q request.RecordFilterRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params, err := recordFilter(q)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.recordService.Export(c.Request.Context(), params, q.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Name, file.ContentType, file.Data)
}

// Import loads an exported json file, either as a multipart "file" field
// or as the raw request body.
func (h *RecordHandler) Import(c *gin.Context) {
	var blob []byte
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxImportSize {
			response.BadRequest(c, "Import file is too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, "Could not read import file")
			return
		}
		defer f.Close()
		if blob, err = io.ReadAll(f); err != nil {
			response.BadRequest(c, "Could not read import file")
			return
		}
	} else {
		var readErr error
		blob, readErr = io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
		if readErr != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	summary, err := h.recordService.Import(c.Request.Context(), blob)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Records imported", summary)
}
