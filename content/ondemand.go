package content

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// OnDemandStore rebuilds the index on every Fetch and keeps no state.
type OnDemandStore struct {
	builder  *Builder
	source   Source
	log      zerolog.Logger
	observer Observer
}

// NewOnDemandStore creates a store that scans src on every Fetch.
func NewOnDemandStore(src Source, policy SortPolicy, log zerolog.Logger, opts ...StoreOption) *OnDemandStore {
	so := applyStoreOptions(opts)
	return &OnDemandStore{
		builder:  NewBuilder(src, policy, log),
		source:   src,
		log:      log,
		observer: so.observer,
	}
}

func (s *OnDemandStore) Fetch(ctx context.Context) (*Index, error) {
	return s.builder.Build(ctx)
}

func (s *OnDemandStore) Read(ctx context.Context, locator string) (string, error) {
	return s.source.Read(ctx, locator)
}

// Rebuild validates the source with one full build and returns its size.
func (s *OnDemandStore) Rebuild(ctx context.Context) (int, error) {
	start := time.Now()
	index, err := s.builder.Build(ctx)
	took := time.Since(start)
	s.observer.ObserveRebuild(index.Len(), took, err)
	if err != nil {
		s.log.Error().Err(err).Msg("build failed")
		return 0, err
	}
	s.log.Info().Int("items", index.Len()).Dur("took", took).Msg("build checked")
	return index.Len(), nil
}
