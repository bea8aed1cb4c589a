package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkhiriev/go-lastpass/internal/logger"
	"github.com/mkhiriev/go-lastpass/models"
)

type snapshotRepository struct {
	*DB
	logger *logger.Logger
}

func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotStore {
	return &snapshotRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *snapshotRepository) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	query, args, err := buildUpsertSnapshotQuery(snap)
	if err != nil {
		return fmt.Errorf("build upsert snapshot query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "snapshotRepository.SaveSnapshot").
			Str("username", snap.Username).
			Msg("failed to execute upsert for snapshot")
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.Username, err)
	}

	return nil
}

func (r *snapshotRepository) GetSnapshot(ctx context.Context, username string) (models.Snapshot, error) {
	query, args, err := buildSelectSnapshotQuery(username)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("build select snapshot query: %w", err)
	}

	var snap models.Snapshot
	row := r.DB.QueryRowContext(ctx, query, args...)

	scanErr := row.Scan(
		&snap.Username,
		&snap.Iterations,
		&snap.Version,
		&snap.Blob,
		&snap.FetchedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return models.Snapshot{}, ErrSnapshotNotFound
		}
		r.logger.Err(scanErr).
			Str("func", "snapshotRepository.GetSnapshot").
			Str("username", username).
			Msg("failed to scan snapshot row")
		return models.Snapshot{}, fmt.Errorf("failed to scan snapshot row: %w", scanErr)
	}

	return snap, nil
}

func (r *snapshotRepository) DeleteSnapshot(ctx context.Context, username string) error {
	query, args, err := buildDeleteSnapshotQuery(username)
	if err != nil {
		return fmt.Errorf("build delete snapshot query: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "snapshotRepository.DeleteSnapshot").
			Str("username", username).
			Msg("failed to execute delete for snapshot")
		return fmt.Errorf("failed to delete snapshot for %s: %w", username, err)
	}

	return nil
}
