// Package storage provides durable key/value stores for the print queue.
package storage

import (
	"fmt"
	"time"

	"github.com/mrstraders/paddybill/internal/printqueue"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Backends accepted by New.
const (
	BackendRedis    = "redis"
	BackendDatabase = "database"
	BackendMemory   = "memory"
)

// Lock timing shared by the redis and database stores. A holder that dies
// loses its lock after lockTTL.
const (
	lockTTL   = 10 * time.Second
	lockRetry = 25 * time.Millisecond
)

var (
	_ printqueue.Locker = (*RedisStore)(nil)
	_ printqueue.Locker = (*DatabaseStore)(nil)
)

// New returns the store for backend. Unused clients may be nil.
func New(backend string, db *gorm.DB, rdb *redis.Client) (printqueue.Store, error) {
	switch backend {
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("storage: redis backend needs a redis client")
		}
		return NewRedisStore(rdb), nil
	case BackendDatabase, "":
		if db == nil {
			return nil, fmt.Errorf("storage: database backend needs a database")
		}
		return NewDatabaseStore(db), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q (use redis, database or memory)", backend)
	}
}
