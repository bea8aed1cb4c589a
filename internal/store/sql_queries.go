// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/mkhiriev/go-lastpass/models"
)

var snapshotColumns = []string{
	"username",
	"iterations",
	"version",
	"blob",
	"fetched_at",
}

func buildUpsertSnapshotQuery(snap models.Snapshot) (string, []any, error) {
	return sq.Insert("snapshots").
		Columns(snapshotColumns...).
		Values(snap.Username, snap.Iterations, snap.Version, snap.Blob, snap.FetchedAt).
		Suffix(`ON CONFLICT(username) DO UPDATE SET
			iterations = excluded.iterations,
			version    = excluded.version,
			blob       = excluded.blob,
			fetched_at = excluded.fetched_at`).
		ToSql()
}

func buildSelectSnapshotQuery(username string) (string, []any, error) {
	return sq.Select(snapshotColumns...).
		From("snapshots").
		Where(sq.Eq{"username": username}).
		ToSql()
}

func buildDeleteSnapshotQuery(username string) (string, []any, error) {
	return sq.Delete("snapshots").
		Where(sq.Eq{"username": username}).
		ToSql()
}
