package citation

import (
	"context"
	"strings"
	"time"

	"ai-writeassist-be/pkg/suggest"

	"github.com/patrickmn/go-cache"
)

// noCitation is stored for keyword sets the backend had nothing for, so the
// miss is cached too.
type noCitation struct{}

// CachedProvider memoizes lookups keyed on the joined keyword list. The same
// paragraph topic is queried repeatedly as the user types, so this saves the
// bulk of outbound lookups.
type CachedProvider struct {
	inner Provider
	cache *cache.Cache
}

var _ Provider = &CachedProvider{}

func NewCachedProvider(inner Provider) *CachedProvider {
	// Entries expire after an hour; expired items purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CachedProvider{inner: inner, cache: c}
}

func (p *CachedProvider) Lookup(ctx context.Context, keywords []string) (*suggest.Citation, error) {
	key := strings.ToLower(strings.Join(keywords, "|"))

	if x, found := p.cache.Get(key); found {
		if _, none := x.(noCitation); none {
			return nil, nil
		}
		return x.(*suggest.Citation), nil
	}

	citation, err := p.inner.Lookup(ctx, keywords)
	if err != nil {
		// Errors are not cached; the next attempt may succeed.
		return nil, err
	}

	if citation == nil {
		p.cache.Set(key, noCitation{}, cache.DefaultExpiration)
	} else {
		p.cache.Set(key, citation, cache.DefaultExpiration)
	}
	return citation, nil
}
