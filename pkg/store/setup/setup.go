// Package setup opens the configured result store
package setup

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/config"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/impl/badger"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/impl/memory"
	natsstore "github.com/mpapenbr/iracelog-gap-analysis/pkg/store/impl/nats"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/impl/sqlite"
)

// Open creates the store named by cfg.Backend.
// For the nats backend the returned connection must be closed by the caller
// after the store is closed. It is nil for all other backends.
//
//nolint:whitespace // editor/linter issue
func Open(cfg config.Cache, l *log.Logger) (
	s store.Store, nc *nats.Conn, err error,
) {
	if l == nil {
		l = log.Default()
	}
	common := []store.Option{store.WithDir(cfg.Dir), store.WithLogger(l)}
	l.Debug("opening result store",
		log.String("backend", cfg.Backend),
		log.String("dir", cfg.Dir))

	switch factory.StoreType(cfg.Backend) {
	case memory.StoreTypeMemory:
		s, err = factory.New[memory.Option](memory.StoreTypeMemory, common, nil)
	case badger.StoreTypeBadger:
		s, err = factory.New[badger.Option](badger.StoreTypeBadger, common, nil)
	case sqlite.StoreTypeSqlite:
		s, err = factory.New[sqlite.Option](sqlite.StoreTypeSqlite, common, nil)
	case natsstore.StoreTypeNats:
		if nc, err = nats.Connect(cfg.NatsURL, nats.Name("iga")); err != nil {
			return nil, nil, fmt.Errorf("connect to nats %s: %w", cfg.NatsURL, err)
		}
		specific := []natsstore.Option{natsstore.WithNATS(nc)}
		if cfg.Bucket != "" {
			specific = append(specific, natsstore.WithBucket(cfg.Bucket))
		}
		s, err = factory.New[natsstore.Option](natsstore.StoreTypeNats, common, specific)
		if err != nil {
			nc.Close()
			nc = nil
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", factory.ErrTypeNotSupported, cfg.Backend)
	}
	if err != nil {
		return nil, nil, err
	}
	return s, nc, nil
}
