// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhiriev/go-lastpass/models"
)

func Test_buildSelectSnapshotQuery_SQLContainsParts(t *testing.T) {
	username := "user@example.com"

	query, args, err := buildSelectSnapshotQuery(username)
	require.NoError(t, err)

	// args checks
	require.Len(t, args, 1)
	require.Equal(t, username, args[0])

	// query checks (contains parts)
	q := strings.ToLower(query)

	require.Contains(t, q, "select")
	require.Contains(t, q, "from snapshots")
	require.Contains(t, q, "where")
	require.Contains(t, q, "username")

	// placeholder format should be ? (SQLite)
	require.Contains(t, query, "?")
}

func Test_buildSelectSnapshotQuery_SelectsAllExpectedColumns(t *testing.T) {
	query, _, err := buildSelectSnapshotQuery("user@example.com")
	require.NoError(t, err)

	q := strings.ToLower(query)

	// This is a "contains" check; it does not enforce order but catches
	// regressions quickly.
	for _, c := range snapshotColumns {
		require.Contains(t, q, c)
	}
}

func Test_buildUpsertSnapshotQuery(t *testing.T) {
	snap := models.Snapshot{
		Username:   "user@example.com",
		Iterations: 100100,
		Version:    198,
		Blob:       []byte{0xDE, 0xAD},
		FetchedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	query, args, err := buildUpsertSnapshotQuery(snap)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "insert into snapshots")
	assert.Contains(t, q, "on conflict(username)")
	assert.Contains(t, q, "do update set")

	require.Len(t, args, 5)
	assert.Equal(t, snap.Username, args[0])
	assert.Equal(t, snap.Iterations, args[1])
	assert.Equal(t, snap.Version, args[2])
	assert.Equal(t, snap.Blob, args[3])
	assert.Equal(t, snap.FetchedAt, args[4])
}

func Test_buildDeleteSnapshotQuery(t *testing.T) {
	query, args, err := buildDeleteSnapshotQuery("user@example.com")
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "delete from snapshots")
	assert.Contains(t, q, "username")

	require.Len(t, args, 1)
	assert.Equal(t, "user@example.com", args[0])
}
