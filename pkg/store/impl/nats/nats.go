package nats

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
)

var StoreTypeNats factory.StoreType = "nats"

const DefaultBucket = "iga_results"

var ErrNoConnection = errors.New("nats store requires a connection")

type (
	Option          func(*natsStoreConfig)
	natsStoreConfig struct {
		nc     *nats.Conn
		bucket string
	}

	natsStore struct {
		cfg *natsStoreConfig
		log *log.Logger
		kv  jetstream.KeyValue
	}
)

func WithNATS(nc *nats.Conn) Option {
	return func(c *natsStoreConfig) {
		c.nc = nc
	}
}

func WithBucket(name string) Option {
	return func(c *natsStoreConfig) {
		c.bucket = name
	}
}

func New(common []store.Option, specific []Option) (store.Store, error) {
	cfg := store.NewConfig(common...)
	own := &natsStoreConfig{bucket: DefaultBucket}
	for _, o := range specific {
		o(own)
	}
	if own.nc == nil {
		return nil, ErrNoConnection
	}
	ret := &natsStore{
		cfg: own,
		log: cfg.Logger.Named("store.nats"),
	}
	ret.log.Debug("Initializing NATS result store", log.String("bucket", own.bucket))
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *natsStore) init() error {
	var js jetstream.JetStream
	var err error
	if js, err = jetstream.New(s.cfg.nc); err != nil {
		return err
	}
	// no TTL, entries stay until deleted
	s.kv, err = js.CreateOrUpdateKeyValue(context.Background(), jetstream.KeyValueConfig{
		Bucket:      s.cfg.bucket,
		Description: "gap analysis results",
	})
	return err
}

func (s *natsStore) Get(ctx context.Context, key string) (*store.Entry, error) {
	kve, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return store.DecodeRecord(key, kve.Value())
}

func (s *natsStore) Put(ctx context.Context, entry *store.Entry) error {
	raw, err := store.EncodeRecord(entry)
	if err != nil {
		return err
	}
	_, err = s.kv.Put(ctx, entry.Key, raw)
	return err
}

func (s *natsStore) Delete(ctx context.Context, key string) error {
	err := s.kv.Delete(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (s *natsStore) List(ctx context.Context) ([]*store.Entry, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	//nolint:errcheck // stop only releases the watcher
	defer lister.Stop()

	ret := make([]*store.Entry, 0)
	for key := range lister.Keys() {
		e, err := s.Get(ctx, key)
		if err != nil {
			s.log.Warn("skipping unreadable entry", log.String("key", key), log.ErrorField(err))
			continue
		}
		ret = append(ret, &store.Entry{Key: e.Key, CreatedAt: e.CreatedAt})
	}
	slices.SortFunc(ret, func(a, b *store.Entry) int { return strings.Compare(a.Key, b.Key) })
	return ret, nil
}

// Close does not close the connection, it is owned by the caller
func (s *natsStore) Close() error {
	return nil
}

func init() {
	factory.Register(StoreTypeNats, New)
}
