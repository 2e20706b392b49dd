package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// KV is a durable key-value slot store. Values are opaque strings.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Open returns the KV implementation for driver, using dsn as its data source.
func Open(driver, dsn string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverSQLite:
		return NewSQLiteStore(dsn)
	case DriverBolt:
		return NewBoltStore(dsn)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q", driver)
	}
}
