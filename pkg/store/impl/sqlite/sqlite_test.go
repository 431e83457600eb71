package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/storetest"
)

func TestSqliteStore(t *testing.T) {
	s, err := New([]store.Option{store.WithDir(t.TempDir())}, nil)
	require.NoError(t, err)
	defer s.Close()
	storetest.Run(t, s)
}

func TestSqliteStore_ReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := New([]store.Option{store.WithDir(dir)}, []Option{WithFile("results.db")})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, &store.Entry{Key: "k", Data: []byte("payload")}))
	require.NoError(t, s.Close())

	// migrations run again without changes
	s, err = New([]store.Option{store.WithDir(dir)}, []Option{WithFile("results.db")})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got.Data)
}
