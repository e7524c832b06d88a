package markdown

import (
	"context"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedRender struct {
	body string
	html string
}

// Cached memoizes another Renderer keyed by a hash of the markdown body, so an
// unchanged page is rendered once per process no matter how often it is served.
type Cached struct {
	next  Renderer
	cache *lru.Cache[uint64, cachedRender]
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Renderer, size int) (*Cached, error) {
	cache, err := lru.New[uint64, cachedRender](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Render(ctx context.Context, body string) (string, error) {
	key := xxhash.Sum64String(body)
	if hit, ok := c.cache.Get(key); ok && hit.body == body {
		return hit.html, nil
	}
	out, err := c.next.Render(ctx, body)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, cachedRender{body: body, html: out})
	return out, nil
}

// Len reports the number of cached renders.
func (c *Cached) Len() int {
	return c.cache.Len()
}
