package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/store/factory"
)

var StoreTypeSqlite factory.StoreType = "sqlite"

const defaultFile = "cache.db"

//go:embed migrations
var migrations embed.FS

type (
	Option       func(*sqliteConfig)
	sqliteConfig struct {
		file string
	}
	sqliteStore struct {
		db  *sql.DB
		log *log.Logger
	}
)

// WithFile sets the database file name relative to the store directory
func WithFile(name string) Option {
	return func(c *sqliteConfig) {
		c.file = name
	}
}

func New(common []store.Option, specific []Option) (store.Store, error) {
	cfg := store.NewConfig(common...)
	own := &sqliteConfig{file: defaultFile}
	for _, o := range specific {
		o(own)
	}
	l := cfg.Logger.Named("store.sqlite")

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.Dir, own.file)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err := migrateDB(db); err != nil {
		db.Close()
		return nil, err
	}
	l.Debug("sqlite store opened", log.String("file", path))
	return &sqliteStore{db: db, log: l}, nil
}

func migrateDB(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	// m.Close would close db as well, only the source is released
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer source.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) (*store.Entry, error) {
	var (
		data    []byte
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		"select data, created_at from cache_entry where key = ?", key).
		Scan(&data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &store.Entry{Key: key, Data: data, CreatedAt: time.Unix(0, created).UTC()}, nil
}

func (s *sqliteStore) Put(ctx context.Context, entry *store.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`insert into cache_entry (key, data, created_at) values (?, ?, ?)
		on conflict(key) do update set data = excluded.data, created_at = excluded.created_at`,
		entry.Key, entry.Data, entry.CreatedAt.UnixNano())
	return err
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "delete from cache_entry where key = ?", key)
	return err
}

func (s *sqliteStore) List(ctx context.Context) ([]*store.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"select key, created_at from cache_entry order by key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := make([]*store.Entry, 0)
	for rows.Next() {
		var (
			key     string
			created int64
		)
		if err := rows.Scan(&key, &created); err != nil {
			return nil, err
		}
		ret = append(ret, &store.Entry{Key: key, CreatedAt: time.Unix(0, created).UTC()})
	}
	return ret, rows.Err()
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func init() {
	factory.Register(StoreTypeSqlite, New)
}
