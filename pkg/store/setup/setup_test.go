package setup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		backend string
	}{
		{"memory", "memory"},
		{"badger", "badger"},
		{"sqlite", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Cache{Backend: tt.backend, Dir: t.TempDir()}
			s, nc, err := Open(cfg, log.Default())
			require.NoError(t, err)
			assert.Nil(t, nc)
			defer s.Close()

			ctx := context.Background()
			require.NoError(t, s.Put(ctx, &store.Entry{Key: "k", Data: []byte("v")}))
			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v"), got.Data)
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, _, err := Open(config.Cache{Backend: "redis"}, log.Default())
	assert.ErrorIs(t, err, factory.ErrTypeNotSupported)
}
