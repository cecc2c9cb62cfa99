// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	j, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestRecordAndRecent(t *testing.T) {
	j, path := openTemp(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	login, err := j.Record(ctx, Entry{Type: TypeLogin, SessionID: "sess_1", Username: "wendy"})
	require.NoError(t, err)
	assert.Len(t, login.ID, 36)
	assert.Equal(t, base.Add(time.Second), login.At)

	_, err = j.Record(ctx, Entry{Type: TypeIdleWarning, SessionID: "sess_1", Username: "wendy", Detail: "lead=5s"})
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{Type: TypeIdleLogout, SessionID: "sess_1", Username: "wendy"})
	require.NoError(t, err)

	recent, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, TypeIdleLogout, recent[0].Type)
	assert.Equal(t, TypeIdleWarning, recent[1].Type)
	assert.Equal(t, "lead=5s", recent[1].Detail)

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSessionOrdering(t *testing.T) {
	j, _ := openTemp(t)
	ctx := context.Background()
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	// Same timestamp: insertion order decides.
	for _, typ := range []Type{TypeLogin, TypeIdleWarning, TypeSessionExtended} {
		_, err := j.Record(ctx, Entry{Type: typ, SessionID: "sess_a", At: at})
		require.NoError(t, err)
	}
	_, err := j.Record(ctx, Entry{Type: TypeLogin, SessionID: "sess_b", At: at})
	require.NoError(t, err)

	entries, err := j.Session(ctx, "sess_a")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []Type{TypeLogin, TypeIdleWarning, TypeSessionExtended},
		[]Type{entries[0].Type, entries[1].Type, entries[2].Type})
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := Open(path)
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{Type: TypeLogout, SessionID: "sess_1"})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()
	recent, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, TypeLogout, recent[0].Type)
}

func TestRecordRejectsMissingType(t *testing.T) {
	j, _ := openTemp(t)
	_, err := j.Record(context.Background(), Entry{SessionID: "x"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestClosed(t *testing.T) {
	j, _ := openTemp(t)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())

	_, err := j.Record(context.Background(), Entry{Type: TypeLogin})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = j.Recent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEntryString(t *testing.T) {
	e := Entry{
		At:        time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		Type:      TypeIdleLogout,
		SessionID: "sess_1a2b3c4d",
		Username:  "wendy",
		Detail:    "idle=5m0s",
	}
	assert.Equal(t, "2025-05-01 09:00:00 UTC | IDLE_LOGOUT | session=sess_1a2b3c4d user=wendy idle=5m0s", e.String())
}
