package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record schema versions of the stored bill payload.
const (
	// RecordSchemaLegacy payloads may lack the derived totals.
	RecordSchemaLegacy = 0
	// RecordSchemaCurrent payloads carry a complete bill.
	RecordSchemaCurrent = 1
)

// Record is a saved bill in the business history.
type Record struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Type          enum.BillType   `gorm:"type:varchar(20);not null;index" json:"type"`
	CustomerName  string          `gorm:"size:255;not null;index" json:"customerName"`
	Date          time.Time       `gorm:"type:date;not null;index" json:"date"`
	FinalAmount   decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"finalAmount"`
	SchemaVersion int             `gorm:"default:1" json:"schemaVersion"`
	Data          datatypes.JSON  `gorm:"type:jsonb" json:"data"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new record
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Record model
func (Record) TableName() string {
	return "records"
}

// LocalStorageEntry is a key/value row used as durable local storage.
type LocalStorageEntry struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the LocalStorageEntry model
func (LocalStorageEntry) TableName() string {
	return "local_storage"
}
