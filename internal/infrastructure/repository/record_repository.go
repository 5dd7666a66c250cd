package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrstraders/paddybill/internal/domain/entity"
	domainRepo "github.com/mrstraders/paddybill/internal/domain/repository"
	"gorm.io/gorm"
)

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db *gorm.DB) domainRepo.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(ctx context.Context, record *entity.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *recordRepository) CreateBatch(ctx context.Context, records []entity.Record) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, 100).Error
}

func (r *recordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Record, error) {
	var record entity.Record
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Record{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *recordRepository) Update(ctx context.Context, record *entity.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *recordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Record{}, "id = ?", id).Error
}

func (r *recordRepository) List(ctx context.Context, params *domainRepo.RecordFilterParams) ([]entity.Record, int64, error) {
	var records []entity.Record
	var total int64

	query := r.filtered(ctx, params)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Scopes(NewestFirst(params.SortOrder)).
		Find(&records).Error

	return records, total, err
}

func (r *recordRepository) ListAll(ctx context.Context, params *domainRepo.RecordFilterParams) ([]entity.Record, error) {
	var records []entity.Record
	err := r.filtered(ctx, params).
		Scopes(NewestFirst(params.SortOrder)).
		Find(&records).Error
	return records, err
}

func (r *recordRepository) filtered(ctx context.Context, params *domainRepo.RecordFilterParams) *gorm.DB {
	return r.db.WithContext(ctx).Model(&entity.Record{}).Scopes(
		CustomerLike(params.Search),
		OfType(params.Type),
		DateBetween(params.StartDate, params.EndDate),
	)
}
