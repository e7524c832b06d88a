package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	items []int
	errs  []error
}

func (r *recordingObserver) ObserveRebuild(items int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items)
	r.errs = append(r.errs, err)
}

func TestSnapshotStoreEmptyBeforeRebuild(t *testing.T) {
	src := newMemSource(map[string]string{"a.md": page("a", "2022-01-01T00:00:00Z", "")})
	s := NewSnapshotStore(src, SortByPublished, zerolog.Nop())

	x, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, x.Len())
	assert.Zero(t, s.Generation())
	assert.True(t, s.BuiltAt().IsZero())
	assert.Zero(t, src.lists, "fetch must not scan")
}

func TestSnapshotStoreRebuild(t *testing.T) {
	src := newMemSource(map[string]string{"a.md": page("a", "2022-01-01T00:00:00Z", "")})
	obs := &recordingObserver{}
	s := NewSnapshotStore(src, SortByPublished, zerolog.Nop(), WithObserver(obs))
	ctx := context.Background()

	n, err := s.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(1), s.Generation())

	// New content is invisible until the next rebuild.
	src.set("b.md", page("b", "2023-01-01T00:00:00Z", ""))
	x, _ := s.Fetch(ctx)
	assert.Equal(t, []string{"a"}, slugs(x))

	n, err = s.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	x, _ = s.Fetch(ctx)
	assert.Equal(t, []string{"b", "a"}, slugs(x))
	assert.Equal(t, []int{1, 2}, obs.items)
}

func TestSnapshotStoreFailedRebuildKeepsSnapshot(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md": page("a", "2022-01-01T00:00:00Z", ""),
		"b.md": page("b", "2023-01-01T00:00:00Z", ""),
	})
	obs := &recordingObserver{}
	s := NewSnapshotStore(src, SortByPublished, zerolog.Nop(), WithObserver(obs))
	ctx := context.Background()

	_, err := s.Rebuild(ctx)
	require.NoError(t, err)
	before, _ := s.Fetch(ctx)

	src.set("c.md", "---\ntitle: broken\n---\n")
	n, err := s.Rebuild(ctx)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "c.md", ve.Locator)
	assert.Equal(t, 2, n, "prior snapshot size is reported")
	assert.Equal(t, uint64(1), s.Generation())

	after, _ := s.Fetch(ctx)
	assert.Same(t, before, after)
	assert.Error(t, obs.errs[1])
}

func TestSnapshotStoreFailedFirstRebuild(t *testing.T) {
	src := newMemSource(map[string]string{})
	src.fail(errors.New("unreadable"))
	s := NewSnapshotStore(src, SortByPublished, zerolog.Nop())

	n, err := s.Rebuild(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestSnapshotStoreConcurrentFetch(t *testing.T) {
	src := newMemSource(map[string]string{
		"a.md": page("a", "2021-01-01T00:00:00Z", ""),
		"b.md": page("b", "2022-01-01T00:00:00Z", ""),
	})
	s := NewSnapshotStore(src, SortByPublished, zerolog.Nop())
	ctx := context.Background()
	_, err := s.Rebuild(ctx)
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				x, err := s.Fetch(ctx)
				if err != nil {
					t.Error(err)
					return
				}
				// Every observed snapshot is complete: both items, in order.
				if got := slugs(x); len(got) != 2 || got[0] != "b" || got[1] != "a" {
					t.Errorf("torn snapshot: %v", got)
					return
				}
			}
		}()
	}
	for range 20 {
		_, err := s.Rebuild(ctx)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
	assert.Equal(t, uint64(21), s.Generation())
}

func TestSnapshotStoreRead(t *testing.T) {
	src := newMemSource(map[string]string{"a.md": page("a", "2022-01-01T00:00:00Z", "")})
	s := NewSnapshotStore(src, SortByPublished, zerolog.Nop())

	text, err := s.Read(context.Background(), "a.md")
	require.NoError(t, err)
	assert.Contains(t, text, "# a")

	_, err = s.Read(context.Background(), "missing.md")
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestOnDemandStore(t *testing.T) {
	src := newMemSource(map[string]string{"a.md": page("a", "2022-01-01T00:00:00Z", "")})
	s := NewOnDemandStore(src, SortByPublished, zerolog.Nop())
	ctx := context.Background()

	x, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, slugs(x))

	src.set("b.md", page("b", "2023-01-01T00:00:00Z", ""))
	x, err = s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs(x), "changes are visible on the next fetch")
	assert.Equal(t, 2, src.lists)

	n, err := s.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	src.set("c.md", "no frontmatter")
	_, err = s.Fetch(ctx)
	assert.Error(t, err)
	n, err = s.Rebuild(ctx)
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestStoresSatisfyInterface(t *testing.T) {
	var _ Store = (*SnapshotStore)(nil)
	var _ Store = (*OnDemandStore)(nil)
}
