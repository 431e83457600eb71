package store

import (
	"context"
	"errors"
	"time"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
)

var ErrNotFound = errors.New("cache entry not found")

type (
	// Entry is one persisted analysis result. Data is opaque to the store.
	Entry struct {
		Key       string
		Data      []byte
		CreatedAt time.Time
	}

	// Store persists entries by key. Entries never expire.
	Store interface {
		// Get returns ErrNotFound if there is no entry for key
		Get(ctx context.Context, key string) (*Entry, error)
		Put(ctx context.Context, entry *Entry) error
		// Delete does not fail for unknown keys
		Delete(ctx context.Context, key string) error
		// List returns all entries without their data, ordered by key
		List(ctx context.Context) ([]*Entry, error)
		Close() error
	}

	Config struct {
		Dir    string // root directory for file based stores
		Logger *log.Logger
	}
	Option func(*Config)
)

func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// NewConfig applies opts to the default config
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		Dir:    ".",
		Logger: log.Default(),
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}
