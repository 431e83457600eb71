package badger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
)

var StoreTypeBadger factory.StoreType = "badger"

const subDir = "badger"

var keyPrefix = []byte("result/")

type (
	Option func(*badgerConfig)

	badgerConfig struct {
		inMemory bool
	}

	badgerStore struct {
		db  *badger.DB
		log *log.Logger
	}

	// badgerLogger routes badger's internal logging to our logger
	badgerLogger struct {
		l *log.Logger
	}
)

// WithInMemory keeps all data in memory, mostly useful for tests
func WithInMemory() Option {
	return func(c *badgerConfig) {
		c.inMemory = true
	}
}

func New(common []store.Option, specific []Option) (store.Store, error) {
	cfg := store.NewConfig(common...)
	own := &badgerConfig{}
	for _, o := range specific {
		o(own)
	}
	l := cfg.Logger.Named("store.badger")

	var opts badger.Options
	if own.inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(filepath.Join(cfg.Dir, subDir))
	}
	opts = opts.WithLogger(&badgerLogger{l: l.Named("db")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	l.Debug("badger store opened", log.String("dir", opts.Dir))
	return &badgerStore{db: db, log: l}, nil
}

func dbKey(key string) []byte {
	return append(append([]byte{}, keyPrefix...), key...)
}

func (s *badgerStore) Get(ctx context.Context, key string) (*store.Entry, error) {
	var ret *store.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dbKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			ret, err = store.DecodeRecord(key, val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *badgerStore) Put(ctx context.Context, entry *store.Entry) error {
	raw, err := store.EncodeRecord(entry)
	if err != nil {
		return err
	}
	// no TTL, entries stay until deleted
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(dbKey(entry.Key), raw)
	})
}

func (s *badgerStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(dbKey(key))
	})
}

func (s *badgerStore) List(ctx context.Context) ([]*store.Entry, error) {
	ret := make([]*store.Entry, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(keyPrefix):])
			err := item.Value(func(val []byte) error {
				e, err := store.DecodeRecord(key, val)
				if err != nil {
					s.log.Warn("skipping unreadable entry",
						log.String("key", key), log.ErrorField(err))
					return nil
				}
				ret = append(ret, &store.Entry{Key: e.Key, CreatedAt: e.CreatedAt})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return ret, err
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}

func (b *badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Infof(format string, args ...any) {
	b.l.Debug(fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(fmt.Sprintf(format, args...))
}

func init() {
	factory.Register(StoreTypeBadger, New)
}
