package content

import (
	"context"
	"time"
)

// Store serves the publication index and raw item bodies. Views depend on
// this interface only, so the caching strategy can change underneath them.
type Store interface {
	Fetch(ctx context.Context) (*Index, error)
	Read(ctx context.Context, locator string) (string, error)
	Rebuild(ctx context.Context) (int, error)
}

// Observer receives rebuild outcomes, e.g. for metrics.
type Observer interface {
	ObserveRebuild(items int, took time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveRebuild(int, time.Duration, error) {}
