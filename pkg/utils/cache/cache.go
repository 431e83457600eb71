package cache

import (
	"context"
	"errors"
	"fmt"
)

// based on github.com/kittpat1413/go-common/framework/cache/cache.go

var ErrCacheMiss = errors.New("cache miss")

// ComputeFunc produces the value for a key on a cache miss
type ComputeFunc[V any] func(ctx context.Context) (*V, error)

type Cache[K comparable, V any] interface {
	// GetOrCompute returns the cached value for key or computes and stores it.
	// Errors of fn are returned and nothing is cached.
	GetOrCompute(ctx context.Context, key K, fn ComputeFunc[V]) (*V, error)
	Invalidate(ctx context.Context, key K) error
	InvalidateAll(ctx context.Context) error
}

// CacheReadError reports an entry that could not be read or decoded.
// The cache treats it as a miss.
//
//nolint:revive // name is part of the public error taxonomy
type CacheReadError struct {
	Key string
	Err error
}

func (e *CacheReadError) Error() string {
	return fmt.Sprintf("cache read for key %s: %v", e.Key, e.Err)
}

func (e *CacheReadError) Unwrap() error { return e.Err }

// CacheWriteError reports a computed value that could not be persisted.
// The fresh value is returned to the caller anyway.
//
//nolint:revive // name is part of the public error taxonomy
type CacheWriteError struct {
	Key string
	Err error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("cache write for key %s: %v", e.Key, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }
