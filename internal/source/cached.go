// Package source holds document source decorators shared by every backend.
package source

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"wikichat/internal/domain"
)

// Cached remembers successful fetches so that sessions asking for the same
// topic share one download. Failures are never cached.
type Cached struct {
	next   domain.Source
	cache  *lru.Cache[string, domain.Document]
	logger *zap.Logger
}

var _ domain.Source = (*Cached)(nil)

// NewCached wraps next with an LRU cache of size documents.
func NewCached(next domain.Source, size int, logger *zap.Logger) (*Cached, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, domain.Document](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache, logger: logger}, nil
}

func (c *Cached) Fetch(ctx context.Context, topic string) (domain.Document, error) {
	key := strings.Join(strings.Fields(strings.ToLower(topic)), " ")
	if doc, ok := c.cache.Get(key); ok {
		c.logger.Debug("document cache hit", zap.String("topic", key))
		return doc, nil
	}
	doc, err := c.next.Fetch(ctx, topic)
	if err != nil {
		return domain.Document{}, err
	}
	c.cache.Add(key, doc)
	return doc, nil
}

// Len returns the number of cached documents.
func (c *Cached) Len() int { return c.cache.Len() }
