package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
)

var StoreTypeMemory factory.StoreType = "memory"

type (
	Option      func(*memoryStore)
	memoryStore struct {
		mu      sync.Mutex
		entries map[string]*store.Entry
	}
)

func New(common []store.Option, specific []Option) (store.Store, error) {
	ret := &memoryStore{entries: make(map[string]*store.Entry)}
	for _, o := range specific {
		o(ret)
	}
	return ret, nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (*store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Entry{Key: e.Key, Data: slices.Clone(e.Data), CreatedAt: e.CreatedAt}, nil
}

func (s *memoryStore) Put(ctx context.Context, entry *store.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = &store.Entry{
		Key: entry.Key, Data: slices.Clone(entry.Data), CreatedAt: entry.CreatedAt,
	}
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryStore) List(ctx context.Context) ([]*store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]*store.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		ret = append(ret, &store.Entry{Key: e.Key, CreatedAt: e.CreatedAt})
	}
	slices.SortFunc(ret, func(a, b *store.Entry) int { return strings.Compare(a.Key, b.Key) })
	return ret, nil
}

func (s *memoryStore) Close() error {
	return nil
}

func init() {
	factory.Register(StoreTypeMemory, New)
}
