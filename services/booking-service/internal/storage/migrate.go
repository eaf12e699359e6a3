package storage

import (
	"context"
	_ "embed"

	"github.com/md-rashed-zaman/roombook/libs/db"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the booking schema if it does not exist yet.
func Migrate(ctx context.Context, pool *db.Pool) error {
	return pool.Migrate(ctx, schemaSQL)
}
