// Package storetest provides a conformance suite for store implementations
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
)

var created = time.Date(2024, 4, 28, 11, 10, 12, 0, time.UTC)

// Run exercises the Store contract on s. s must be empty.
//
//nolint:thelper,funlen // ok for tests
func Run(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "unknown")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		e := &store.Entry{Key: "k1", Data: []byte(`{"a":1}`), CreatedAt: created}
		require.NoError(t, s.Put(ctx, e))
		got, err := s.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "k1", got.Key)
		assert.Equal(t, e.Data, got.Data)
		assert.True(t, created.Equal(got.CreatedAt), "created %v", got.CreatedAt)
	})

	t.Run("overwrite", func(t *testing.T) {
		later := created.Add(time.Hour)
		require.NoError(t, s.Put(ctx, &store.Entry{Key: "k1", Data: []byte("v2"), CreatedAt: later}))
		got, err := s.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got.Data)
		assert.True(t, later.Equal(got.CreatedAt))
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, &store.Entry{Key: "k0", Data: []byte("x"), CreatedAt: created}))
		got, err := s.List(ctx)
		require.NoError(t, err)
		keys := make([]string, 0, len(got))
		for _, e := range got {
			keys = append(keys, e.Key)
			assert.Nil(t, e.Data)
		}
		assert.Equal(t, []string{"k0", "k1"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "k1"))
		_, err := s.Get(ctx, "k1")
		assert.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, s.Delete(ctx, "k1"), "deleting a missing key is no error")
		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "k0", got[0].Key)
	})
}
