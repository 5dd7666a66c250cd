package repository

import (
	"strings"
	"time"

	"github.com/mrstraders/paddybill/internal/domain/enum"
	"gorm.io/gorm"
)

// CustomerLike filters by a case-insensitive customer name substring.
// A blank term matches everything.
func CustomerLike(term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		return db.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
}

// OfType restricts records to one bill type; nil keeps all types.
func OfType(t *enum.BillType) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if t == nil {
			return db
		}
		return db.Where("type = ?", *t)
	}
}

// DateBetween keeps records dated within [start, end]. Either bound may be nil.
func DateBetween(start, end *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("date >= ?", *start)
		}
		if end != nil {
			db = db.Where("date <= ?", *end)
		}
		return db
	}
}

// NewestFirst orders by bill date, newest first unless sortOrder is "asc".
func NewestFirst(sortOrder string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if strings.EqualFold(sortOrder, "asc") {
			return db.Order("date ASC, created_at ASC")
		}
		return db.Order("date DESC, created_at DESC")
	}
}
