package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"dvr2plex-go/internal/dictionary"
	"dvr2plex-go/internal/hashing"
)

// Catalog maps fuzzy hashes of known series names (usually the folder names
// already present in the destination) back to the canonical name.
type Catalog struct {
	dict  *dictionary.Dictionary
	names []string
}

// Match is the result of a successful lookup.
type Match struct {
	// Series is the part of the queried run that matched.
	Series string
	// Canonical is the catalog entry it matched.
	Canonical string
	// Remainder is whatever followed the match in the run, typically the
	// episode title. Empty when the whole run matched.
	Remainder string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{dict: dictionary.New("Series")}
}

// FromNames builds a catalog holding every name in names.
func FromNames(names []string) *Catalog {
	c := New()
	for _, name := range names {
		c.Add(name)
	}
	return c
}

// Add inserts name. Besides the hash of the whole name, the hash of the text
// before each opening bracket is inserted too, so "MacGyver (2016)" is also
// found by "MacGyver".
func (c *Catalog) Add(name string) {
	h := hashing.NewHasher(&hashing.Keyword)
	for i := 0; i < len(name); i++ {
		if hashing.Keyword.Classify(name[i]) == hashing.LeftBracket && !h.Empty() {
			c.dict.Add(h.Sum(), name)
		}
		h.Feed(name[i])
	}
	if !h.Empty() {
		c.dict.Add(h.Sum(), name)
	}
	c.names = append(c.names, name)
}

// Len returns the number of names added.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns the names in insertion order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Lookup finds the longest prefix of run that matches a catalog entry. The
// run is probed at every word boundary, before every opening bracket and at
// its end; the last probe that hits wins.
func (c *Catalog) Lookup(run string) (Match, bool) {
	if c == nil || c.dict.Len() == 0 {
		return Match{}, false
	}

	var (
		best      = -1
		canonical string
	)
	probe := func(h *hashing.Hasher, at int) {
		if h.Empty() {
			return
		}
		if v, ok := c.dict.Find(h.Sum()); ok {
			best, canonical = at, v
		}
	}

	h := hashing.NewHasher(&hashing.Keyword)
	for i := 0; i < len(run); i++ {
		switch hashing.Keyword.Classify(run[i]) {
		case hashing.Separator, hashing.LeftBracket:
			probe(h, i)
		}
		h.Feed(run[i])
	}
	probe(h, len(run))

	if best < 0 {
		return Match{}, false
	}
	return Match{
		Series:    trimSeparators(run[:best]),
		Canonical: canonical,
		Remainder: trimSeparators(run[best:]),
	}, true
}

// Suggest ranks catalog names that loosely appear within run, closest first.
// It is only used to explain a failed Lookup.
func (c *Catalog) Suggest(run string, limit int) []string {
	if c == nil || limit <= 0 {
		return nil
	}
	type ranked struct {
		name     string
		distance int
	}
	var hits []ranked
	for _, name := range c.names {
		if d := fuzzy.RankMatchNormalizedFold(name, run); d >= 0 {
			hits = append(hits, ranked{name, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	out := make([]string, 0, limit)
	for _, hit := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, hit.name)
	}
	return out
}

func trimSeparators(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		if r > 0xff {
			return false
		}
		c := hashing.Keyword.Classify(byte(r))
		return c == hashing.Separator || c == hashing.Ignore
	})
}
