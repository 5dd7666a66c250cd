package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/mrstraders/paddybill/pkg/pagination"
)

// RecordRepository defines the interface for saved bill records
type RecordRepository interface {
	Create(ctx context.Context, record *entity.Record) error
	CreateBatch(ctx context.Context, records []entity.Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Record, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, record *entity.Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *RecordFilterParams) ([]entity.Record, int64, error)
	// ListAll returns every match without paging, for export.
	ListAll(ctx context.Context, params *RecordFilterParams) ([]entity.Record, error)
}

// RecordFilterParams contains filtering parameters for record queries
type RecordFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // customer name, case-insensitive substring
	Type       *enum.BillType
	StartDate  *time.Time
	EndDate    *time.Time
	SortOrder  string
}
