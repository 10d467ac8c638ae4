package postgres

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"postboard/internal/platform/sqldb"
)

func New(ctx context.Context, dsn string) (*gorm.DB, error) {
	return sqldb.Open(ctx, "postgres", postgres.Open(dsn), sqldb.ServerPool)
}
