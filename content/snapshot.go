package content

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SnapshotStore keeps the last successfully built index in memory. Fetch never
// scans; only Rebuild replaces the snapshot, and only once a build succeeded.
type SnapshotStore struct {
	mu       sync.RWMutex
	index    *Index
	gen      uint64
	builtAt  time.Time
	rebuilds sync.Mutex

	builder  *Builder
	source   Source
	log      zerolog.Logger
	observer Observer
}

// StoreOption configures a store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	observer Observer
}

// WithObserver reports rebuild outcomes to o.
func WithObserver(o Observer) StoreOption {
	return func(so *storeOptions) {
		so.observer = o
	}
}

func applyStoreOptions(opts []StoreOption) storeOptions {
	so := storeOptions{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&so)
	}
	return so
}

// NewSnapshotStore creates an empty store. Call Rebuild before serving.
func NewSnapshotStore(src Source, policy SortPolicy, log zerolog.Logger, opts ...StoreOption) *SnapshotStore {
	so := applyStoreOptions(opts)
	return &SnapshotStore{
		index:    &Index{},
		builder:  NewBuilder(src, policy, log),
		source:   src,
		log:      log,
		observer: so.observer,
	}
}

// Fetch returns the current snapshot.
func (s *SnapshotStore) Fetch(_ context.Context) (*Index, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, nil
}

// Read returns the raw text of one item, independent of the snapshot.
func (s *SnapshotStore) Read(ctx context.Context, locator string) (string, error) {
	return s.source.Read(ctx, locator)
}

// Rebuild scans the source and installs the result. On failure the previous
// snapshot stays in place and its item count is returned with the error.
func (s *SnapshotStore) Rebuild(ctx context.Context) (int, error) {
	s.rebuilds.Lock()
	defer s.rebuilds.Unlock()

	start := time.Now()
	index, err := s.builder.Build(ctx)
	took := time.Since(start)
	s.observer.ObserveRebuild(index.Len(), took, err)
	if err != nil {
		s.log.Error().Err(err).Dur("took", took).Msg("rebuild failed, keeping previous snapshot")
		s.mu.RLock()
		n := s.index.Len()
		s.mu.RUnlock()
		return n, err
	}

	s.mu.Lock()
	s.index = index
	s.gen++
	s.builtAt = time.Now()
	gen := s.gen
	s.mu.Unlock()

	s.log.Info().Int("items", index.Len()).Uint64("generation", gen).Dur("took", took).Msg("snapshot installed")
	return index.Len(), nil
}

// Generation counts successful snapshot installs.
func (s *SnapshotStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// BuiltAt is the time the current snapshot was installed; zero before the first rebuild.
func (s *SnapshotStore) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtAt
}
