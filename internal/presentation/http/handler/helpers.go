package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mrstraders/paddybill/internal/billing"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/mrstraders/paddybill/internal/domain/repository"
	"github.com/mrstraders/paddybill/internal/presentation/http/dto/request"
	"github.com/mrstraders/paddybill/pkg/apperror"
	"github.com/mrstraders/paddybill/pkg/pagination"
	"github.com/mrstraders/paddybill/pkg/utils"
)

// slotParam reads the 1-based :slot path parameter and returns the
// zero-based queue index.
func slotParam(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return 0, apperror.NewBadRequestError("Slot must be a number")
	}
	return n - 1, nil
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uuid.UUID, error) {
	id, err := utils.ParseUUID(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid ID format")
	}
	return id, nil
}

// recordFilter converts query parameters into repository filters.
func recordFilter(q request.RecordFilterRequest) (*repository.RecordFilterParams, error) {
	params := &repository.RecordFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    q.Page,
			PerPage: q.PerPage,
			Limit:   q.Limit,
		},
		Search:    q.Search,
		SortOrder: q.SortOrder,
	}

	if q.Type != "" && q.Type != "all" {
		t, err := enum.ParseBillType(q.Type)
		if err != nil {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		params.Type = &t
	}

	var err error
	if params.StartDate, err = dateQuery("start_date", q.StartDate); err != nil {
		return nil, err
	}
	if params.EndDate, err = dateQuery("end_date", q.EndDate); err != nil {
		return nil, err
	}
	return params, nil
}

func dateQuery(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(billing.DateLayout, billing.NormalizeDate(value))
	if err != nil {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("%s must be YYYY-MM-DD", name))
	}
	return &t, nil
}
