package dictionary

import (
	"github.com/sirupsen/logrus"

	"dvr2plex-go/internal/hashing"
)

// Param is a single hashed key/value pair.
type Param struct {
	Hash  hashing.Hash
	Value string
}

// Dictionary is an append-only parameter store. Adding a value never
// replaces an earlier one; Find returns the most recently added value for a
// hash, so later writes shadow earlier ones.
type Dictionary struct {
	name   string
	params []Param
}

// New creates an empty, named dictionary.
func New(name string) *Dictionary {
	return &Dictionary{name: name}
}

// Name returns the name the dictionary was created with.
func (d *Dictionary) Name() string {
	return d.name
}

// Add stores value under hash.
func (d *Dictionary) Add(hash hashing.Hash, value string) {
	d.params = append(d.params, Param{Hash: hash, Value: value})
}

// AddKey stores value under the keyword hash of key.
func (d *Dictionary) AddKey(key, value string) {
	d.Add(hashing.Key(key), value)
}

// Find returns the most recent value stored under hash.
func (d *Dictionary) Find(hash hashing.Hash) (string, bool) {
	if d == nil {
		return "", false
	}
	for i := len(d.params) - 1; i >= 0; i-- {
		if d.params[i].Hash == hash {
			return d.params[i].Value, true
		}
	}
	return "", false
}

// FindKey returns the most recent value stored under the keyword hash of key.
func (d *Dictionary) FindKey(key string) (string, bool) {
	return d.Find(hashing.Key(key))
}

// Has reports whether any value is stored under hash.
func (d *Dictionary) Has(hash hashing.Hash) bool {
	_, ok := d.Find(hash)
	return ok
}

// Len returns the number of stored entries, shadowed ones included.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.params)
}

// Params returns a copy of every entry, most recent first.
func (d *Dictionary) Params() []Param {
	out := make([]Param, 0, d.Len())
	for i := d.Len() - 1; i >= 0; i-- {
		out = append(out, d.params[i])
	}
	return out
}

// Log writes every entry to logger at debug level, most recent first.
func (d *Dictionary) Log(logger logrus.FieldLogger) {
	if d == nil || logger == nil {
		return
	}
	logger.WithField("dictionary", d.name).Debugf("...%s dictionary...", d.name)
	for _, p := range d.Params() {
		logger.WithFields(logrus.Fields{
			"dictionary": d.name,
			"hash":       hashString(p.Hash),
			"keyword":    KeywordName(p.Hash),
		}).Debugf("%q", p.Value)
	}
}
