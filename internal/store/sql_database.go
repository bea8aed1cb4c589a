package store

import (
	"database/sql"

	"github.com/mkhiriev/go-lastpass/internal/logger"
	"github.com/mkhiriev/go-lastpass/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
