// Package gateway is the single entry point for persistence. It owns the
// relational database and the key-value fallback store, picks a primary
// adapter at Init, and retries every operation against the fallback when
// the primary fails, so callers never see a dead database.
package gateway

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"dentaltrack/internal/config"
	"dentaltrack/internal/database"
	"dentaltrack/internal/kvstore"
	"dentaltrack/internal/storage"
)

// backend shortens the adapter interface in operation closures.
type backend = storage.Backend

// StoreKind names the store an operation ended up hitting.
type StoreKind string

const (
	StorePrimary  StoreKind = "database"
	StoreFallback StoreKind = "fallback"
)

// WriteResult reports the row ID of a write and which store served it.
type WriteResult struct {
	ID    int64
	Store StoreKind
}

// Gateway routes entity operations to the primary backend, falling back
// per operation to the key-value adapter when the primary errors. All
// methods are safe for concurrent use.
type Gateway struct {
	cfg *config.Config
	log zerolog.Logger

	mu         sync.Mutex
	store      kvstore.Store
	db         *database.DB
	sqlBackend storage.Backend
	kvBackend  storage.Backend
	primary    storage.Backend
	ready      bool
}

func New(cfg *config.Config, log zerolog.Logger) *Gateway {
	return &Gateway{cfg: cfg, log: log}
}

// Init opens the fallback store and the database and decides the primary
// backend. It is idempotent: a second call on a ready gateway is a no-op.
// The gateway still comes up when the database cannot be opened or its
// schema cannot be prepared; operations then run on the fallback store.
// Only a fallback store that cannot be opened fails Init.
func (g *Gateway) Init() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ready {
		return nil
	}

	store, err := openFallbackStore(g.cfg)
	if err != nil {
		return fmt.Errorf("failed to open fallback store: %w", err)
	}
	g.store = store
	g.kvBackend = storage.NewKVBackend(store)
	g.primary = g.kvBackend

	db, err := database.InitializeWithConfig(g.cfg)
	if err != nil {
		g.log.Warn().Err(err).Msg("database unavailable, using fallback store")
		g.ready = true
		return nil
	}

	if err := db.EnsureSchema(); err != nil {
		g.log.Error().Err(err).Msg("schema preparation failed, using fallback store")
		db.Close()
		g.ready = true
		return nil
	}

	g.db = db
	g.sqlBackend = storage.NewSQLBackend(db)
	g.primary = g.sqlBackend
	g.log.Info().Str("type", g.cfg.DatabaseType).Msg("database initialized")
	g.ready = true
	return nil
}

// Close releases the database connection and the fallback store. The
// gateway can be re-initialized afterwards.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.ready {
		return nil
	}

	var firstErr error
	if g.db != nil {
		if err := g.db.Close(); err != nil {
			firstErr = err
		}
		g.db = nil
	}
	if closer, ok := g.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	g.store = nil
	g.sqlBackend = nil
	g.kvBackend = nil
	g.primary = nil
	g.ready = false
	return firstErr
}

// UsingFallback reports whether operations are currently served by the
// key-value store rather than the database.
func (g *Gateway) UsingFallback() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready && g.primary == g.kvBackend
}

// Store returns the fallback key-value store, used by the migration
// engine to read legacy keys and keep its ledger.
func (g *Gateway) Store() kvstore.Store {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store
}

func openFallbackStore(cfg *config.Config) (kvstore.Store, error) {
	switch strings.ToLower(cfg.FallbackStore) {
	case "redis":
		return kvstore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	case "file", "":
		return kvstore.NewFileStore(cfg.FallbackPath)
	default:
		return nil, fmt.Errorf("unsupported fallback store: %s", cfg.FallbackStore)
	}
}

// backends returns the current primary and, when the primary is the
// database, the fallback to retry on. A nil second value means there is
// nothing to fall back to.
func (g *Gateway) backends() (storage.Backend, storage.Backend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.ready {
		return nil, nil, ErrNotInitialized
	}
	if g.primary == g.kvBackend {
		return g.primary, nil, nil
	}
	return g.primary, g.kvBackend, nil
}

// run executes an operation returning a value, retrying on the fallback
// backend when the primary fails.
func run[T any](g *Gateway, op string, fn func(storage.Backend) (T, error)) (T, StoreKind, error) {
	var zero T

	primary, fallback, err := g.backends()
	if err != nil {
		return zero, "", err
	}

	kind := StorePrimary
	if fallback == nil {
		kind = StoreFallback
	}

	v, err := fn(primary)
	if err == nil {
		return v, kind, nil
	}
	if fallback == nil {
		return zero, "", err
	}

	g.log.Warn().Err(err).Str("op", op).Msg("primary store failed, retrying on fallback")
	v, ferr := fn(fallback)
	if ferr != nil {
		return zero, "", fmt.Errorf("%s failed on both stores: %w", op, ferr)
	}
	return v, StoreFallback, nil
}

// runVoid is run for operations with no result value.
func runVoid(g *Gateway, op string, fn func(storage.Backend) error) error {
	_, _, err := run(g, op, func(b storage.Backend) (struct{}, error) {
		return struct{}{}, fn(b)
	})
	return err
}
