package envrx

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/abdul-hamid-achik/envrx/packages/envfile"
	"github.com/abdul-hamid-achik/envrx/packages/store"
)

// Env composes a file source and a store source and publishes their
// merged entries into the process environment. It is not safe for
// concurrent use; callers sharing one Env must serialize access.
type Env struct {
	filePath   string
	fileFormat envfile.Format // empty means auto-detect
	storeSpec  string
	collection string

	store      store.Store
	storeOwned bool // the Env opened the store and closes it

	exportEnv   bool
	mirror      bool
	logger      *zap.Logger
	initialized bool
}

// Option configures an Env.
type Option func(*Env)

// WithFile configures a file source; the format is detected from the
// extension.
func WithFile(path string) Option {
	return func(e *Env) {
		e.filePath = path
	}
}

// WithFileFormat configures a file source with an explicitly declared
// format, ignoring the extension.
func WithFileFormat(path string, format envfile.Format) Option {
	return func(e *Env) {
		e.filePath = path
		e.fileFormat = format
	}
}

// WithStore configures a store source from a connection string and a
// collection/table name. The Env constructs and owns the client.
func WithStore(spec, collection string) Option {
	return func(e *Env) {
		e.storeSpec = spec
		e.collection = collection
	}
}

// WithStoreClient configures a store source from a pre-built Store.
// The caller retains ownership; the Env never closes it.
func WithStoreClient(s store.Store) Option {
	return func(e *Env) {
		e.store = s
	}
}

// WithLogger sets the logger for debug messages. The default is a
// no-op logger, so the library is silent unless the host wires one.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Env) {
		e.logger = logger
	}
}

// WithEnvMirror makes SetEnv, UpdateEnv, and DeleteEnv mirror every
// successful store write into the process environment.
func WithEnvMirror() Option {
	return func(e *Env) {
		e.mirror = true
	}
}

// WithoutEnvExport makes Initialize return the merged mapping without
// publishing it to the process environment.
func WithoutEnvExport() Option {
	return func(e *Env) {
		e.exportEnv = false
	}
}

// New builds an Env from zero or one file source and zero or one store
// source.
func New(opts ...Option) (*Env, error) {
	e := &Env{
		exportEnv: true,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.storeSpec != "" && e.collection == "" {
		return nil, fmt.Errorf("store configured without a collection or table name: %w", store.ErrInvalidCollection)
	}
	return e, nil
}

// Connect establishes the store connection without loading anything.
// It allows the CRUD methods to be used before (or without) Initialize.
// Connecting twice is a no-op.
func (e *Env) Connect(ctx context.Context) error {
	if e.store != nil {
		return nil
	}
	if e.storeSpec == "" {
		return ErrNoStore
	}

	e.logger.Debug("connecting to store", zap.String("collection", e.collection))
	s, err := store.Open(ctx, e.storeSpec, e.collection)
	if err != nil {
		return err
	}
	e.store = s
	e.storeOwned = true
	return nil
}

// Initialize loads the configured sources and publishes their entries
/// to the process environment: first the file, then the store, so store
// values win on key collision. It returns the merged mapping. Entries
// already exported before a failure are not rolled back.
// Initialize can run once; the Initialized state is terminal.
func (e *Env) Initialize(ctx context.Context) (map[string]string, error) {
	if e.initialized {
		return nil, &InitializationError{Err: ErrAlreadyInitialized}
	}

	merged := make(map[string]string)

	if e.filePath != "" {
		vars, err := e.loadFile()
		if err != nil {
			return nil, &InitializationError{Err: err}
		}
		e.logger.Debug("loaded environment file",
			zap.String("path", e.filePath), zap.Int("entries", len(vars)))
		for key, value := range vars {
			merged[key] = value
			e.export(key, value)
		}
	}

	if e.store != nil || e.storeSpec != "" {
		if err := e.Connect(ctx); err != nil {
			return nil, &InitializationError{Err: err}
		}
		vars, err := e.store.GetAll(ctx)
		if err != nil {
			return nil, &InitializationError{Err: err}
		}
		e.logger.Debug("loaded entries from store", zap.Int("entries", len(vars)))
		for key, value := range vars {
			merged[key] = value
			e.export(key, value)
		}
	}

	e.initialized = true
	return merged, nil
}

func (e *Env) loadFile() (map[string]string, error) {
	if e.fileFormat != "" {
		return envfile.LoadFormat(e.filePath, e.fileFormat)
	}
	return envfile.Load(e.filePath)
}

func (e *Env) export(key, value string) {
	if !e.exportEnv {
		return
	}
	_ = os.Setenv(key, value) // only fails for invalid key names
}

// GetEnv retrieves a single entry from the store.
// Returns store.ErrNotFound if the key doesn't exist.
func (e *Env) GetEnv(ctx context.Context, key string) (string, error) {
	if e.store == nil {
		return "", ErrNotConnected
	}
	return e.store.Get(ctx, key)
}

// AllEnv returns every entry in the store's collection.
func (e *Env) AllEnv(ctx context.Context) (map[string]string, error) {
	if e.store == nil {
		return nil, ErrNotConnected
	}
	return e.store.GetAll(ctx)
}

// SetEnv inserts a new entry into the store.
// Returns store.ErrDuplicateKey if the key already exists.
func (e *Env) SetEnv(ctx context.Context, key, value string) error {
	if e.store == nil {
		return ErrNotConnected
	}
	if err := e.store.Set(ctx, key, value); err != nil {
		return err
	}
	if e.mirror {
		_ = os.Setenv(key, value)
	}
	return nil
}

// UpdateEnv overwrites an existing entry in the store.
// Returns store.ErrNotFound if the key doesn't exist.
func (e *Env) UpdateEnv(ctx context.Context, key, value string) error {
	if e.store == nil {
		return ErrNotConnected
	}
	if err := e.store.Update(ctx, key, value); err != nil {
		return err
	}
	if e.mirror {
		_ = os.Setenv(key, value)
	}
	return nil
}

// DeleteEnv removes an entry from the store.
// Returns store.ErrNotFound if the key doesn't exist.
func (e *Env) DeleteEnv(ctx context.Context, key string) error {
	if e.store == nil {
		return ErrNotConnected
	}
	if err := e.store.Delete(ctx, key); err != nil {
		return err
	}
	if e.mirror {
		_ = os.Unsetenv(key)
	}
	return nil
}

// Close releases the store client if the Env opened it. Pre-built
// clients supplied via WithStoreClient are never closed; their lifetime
// belongs to the caller.
func (e *Env) Close() error {
	if e.store == nil || !e.storeOwned {
		return nil
	}
	return e.store.Close()
}
