package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzomar/agrinote/internal/storage"
)

func TestSQLiteRoundtrip(t *testing.T) {
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "agrinote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Set("auth_token", []byte("tok-123")))

	got, err := db.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-123"), got)

	require.NoError(t, db.Set("auth_token", []byte("tok-456")))
	got, err = db.Get("auth_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-456"), got, "set overwrites in place")
}

func TestSQLiteMissingKey(t *testing.T) {
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "agrinote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Get("never_written")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSQLiteDelete(t *testing.T) {
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "agrinote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Set("app_state", []byte(`{"schemaVersion":1}`)))
	require.NoError(t, db.Delete("app_state"))

	_, err = db.Get("app_state")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// deleting an absent key is not an error
	assert.NoError(t, db.Delete("app_state"))
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrinote.db")

	db, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("app_state", []byte(`{"schemaVersion":1}`)))
	require.NoError(t, db.Close())

	reopened, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get("app_state")
	require.NoError(t, err)
	assert.JSONEq(t, `{"schemaVersion":1}`, string(got))
}

func TestMemoryReturnsCopies(t *testing.T) {
	mem := storage.NewMemory()
	require.NoError(t, mem.Set("k", []byte("value")))

	got, err := mem.Get("k")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := mem.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}
