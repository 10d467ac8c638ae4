// Package sqlite opens a file-backed SQLite database for local development.
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"postboard/internal/platform/sqldb"
)

func New(ctx context.Context, path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	// SQLite serializes writers; one connection avoids SQLITE_BUSY under concurrent requests.
	return sqldb.Open(ctx, "sqlite", sqlite.Open(dsn), sqldb.Pool{MaxOpen: 1})
}
