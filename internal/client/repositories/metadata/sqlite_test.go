package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/skillswap/internal/client/repositories"
	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := repositories.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "meta.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), db
}

func TestToken_Lifecycle(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	key := common.TokenMetadataKey

	v, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, v, "no token persisted yet")

	require.NoError(t, r.Set(ctx, key, []byte("first")))
	require.NoError(t, r.Set(ctx, key, []byte("second")))
	v, err = r.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), v)

	require.NoError(t, r.Delete(ctx, key))
	v, err = r.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Delete(ctx, key), "deleting an absent token")
}

func TestKeysAreIndependent(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB}))
	require.NoError(t, r.Delete(ctx, "a"))

	v, err := r.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBB}, v)
}

func TestClosedDatabase_ErrorsNameTheKey(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"get", func() error { _, err := r.Get(ctx, "token"); return err }, "failed to get metadata[token]"},
		{"set", func() error { return r.Set(ctx, "token", []byte("T")) }, "failed to set metadata[token]"},
		{"delete", func() error { return r.Delete(ctx, "token") }, "failed to delete metadata[token]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
