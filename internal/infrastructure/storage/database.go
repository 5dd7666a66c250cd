package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrstraders/paddybill/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatabaseStore keeps values in the local_storage table.
type DatabaseStore struct {
	db *gorm.DB
}

func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row entity.LocalStorageEntry
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("local storage get %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *DatabaseStore) Set(ctx context.Context, key, value string) error {
	row := entity.LocalStorageEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("local storage set %s: %w", key, err)
	}
	return nil
}

// Lock holds a lease row "<key>:lock" in local_storage. A lease older
// than lockTTL is treated as abandoned and taken over.
func (s *DatabaseStore) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := key + ":lock"
	token := uuid.NewString()
	fail := func(err error) (func(), error) {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("local storage lock %s: %w", key, err)
	}

	for {
		err := s.db.WithContext(ctx).
			Where("key = ? AND updated_at < ?", lockKey, time.Now().Add(-lockTTL)).
			Delete(&entity.LocalStorageEntry{}).Error
		if err != nil {
			return fail(err)
		}

		res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
			Create(&entity.LocalStorageEntry{Key: lockKey, Value: token, UpdatedAt: time.Now()})
		if res.Error != nil {
			return fail(res.Error)
		}
		if res.RowsAffected == 1 {
			break
		}

		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		case <-time.After(lockRetry):
		}
	}

	return func() {
		s.db.Where("key = ? AND value = ?", lockKey, token).Delete(&entity.LocalStorageEntry{})
	}, nil
}
