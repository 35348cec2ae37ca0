package store

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// CachedSurveys keeps recently used survey definitions in memory.
// Lookup failures are not cached, so a survey created after a miss is
// visible on the next request.
type CachedSurveys struct {
	next  core.SurveyStore
	cache *cache.Cache
}

// NewCachedSurveys wraps next with a cache whose entries expire after ttl.
func NewCachedSurveys(next core.SurveyStore, ttl time.Duration) *CachedSurveys {
	return &CachedSurveys{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func surveyCacheKey(id int64) string {
	return fmt.Sprintf("survey:%d", id)
}

// GetSurvey implements core.SurveyStore.
func (c *CachedSurveys) GetSurvey(ctx context.Context, id int64) (core.SurveyDefinition, error) {
	key := surveyCacheKey(id)
	if v, ok := c.cache.Get(key); ok {
		return v.(core.SurveyDefinition), nil
	}

	sv, err := c.next.GetSurvey(ctx, id)
	if err != nil {
		return core.SurveyDefinition{}, err
	}
	c.cache.SetDefault(key, sv)
	return sv, nil
}

// Len returns the number of cached surveys, including expired entries not
// yet cleaned up.
func (c *CachedSurveys) Len() int {
	return c.cache.ItemCount()
}
