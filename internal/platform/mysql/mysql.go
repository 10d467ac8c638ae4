package mysql

import (
	"context"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"postboard/internal/platform/sqldb"
)

// New opens the default relational store.
func New(ctx context.Context, dsn string) (*gorm.DB, error) {
	return sqldb.Open(ctx, "mysql", mysql.Open(dsn), sqldb.ServerPool)
}
