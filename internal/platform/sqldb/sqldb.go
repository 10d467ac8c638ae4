// Package sqldb holds the connection-pool and startup-ping setup shared by the gorm openers.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const pingTimeout = 3 * time.Second

// Pool sizes the underlying *sql.DB. Zero fields keep database/sql defaults.
type Pool struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// ServerPool suits networked servers such as MySQL and Postgres.
var ServerPool = Pool{
	MaxIdle:     10,
	MaxOpen:     50,
	MaxLifetime: time.Hour,
	MaxIdleTime: 30 * time.Minute,
}

// Open opens dialector with errors translated to gorm sentinels, applies pool and pings once.
// name only labels error messages.
func Open(ctx context.Context, name string, dialector gorm.Dialector, pool Pool) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open %s failed: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get %s sql db failed: %w", name, err)
	}

	if pool.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s failed: %w", name, err)
	}
	return db, nil
}
