package catalog

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LoadFunc lists the series names found under a destination directory.
type LoadFunc func(dest string) ([]string, error)

// Loader builds catalogs from destination directories and keeps them for a
// while, so a batch of files bound for the same destination only lists it
// once.
type Loader struct {
	load  LoadFunc
	cache *cache.Cache
}

// NewLoader creates a Loader. Catalogs expire after ttl; a ttl of zero or
// less keeps them until Invalidate is called.
func NewLoader(load LoadFunc, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Loader{
		load:  load,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Get returns the catalog for dest, listing it if it is not cached.
func (l *Loader) Get(dest string) (*Catalog, error) {
	if v, ok := l.cache.Get(dest); ok {
		return v.(*Catalog), nil
	}
	names, err := l.load(dest)
	if err != nil {
		return nil, err
	}
	c := FromNames(names)
	l.cache.SetDefault(dest, c)
	return c, nil
}

// Invalidate drops the cached catalog for dest.
func (l *Loader) Invalidate(dest string) {
	l.cache.Delete(dest)
}

// Flush drops every cached catalog.
func (l *Loader) Flush() {
	l.cache.Flush()
}
