package template

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"dvr2plex-go/internal/dictionary"
	apperrors "dvr2plex-go/internal/errors"
)

// Layers resolves keywords through a stack of dictionaries, then an optional
// env file, then the process environment. Earlier layers win.
type Layers struct {
	dicts   []*dictionary.Dictionary
	envFile *dictionary.Dictionary
	environ func(key string) (string, bool)
}

// NewLayers stacks dicts, highest priority first. Nil dictionaries are
// skipped.
func NewLayers(dicts ...*dictionary.Dictionary) *Layers {
	l := &Layers{environ: os.LookupEnv}
	for _, d := range dicts {
		if d != nil {
			l.dicts = append(l.dicts, d)
		}
	}
	return l
}

// LoadEnvFile adds the variables of a dotenv file as a layer between the
// dictionaries and the process environment. Keys are matched the same
// forgiving way as dictionary keywords.
func (l *Layers) LoadEnvFile(path string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		return apperrors.NewConfigError("template", fmt.Sprintf("cannot read env file %s", path), err)
	}
	l.envFile = dictionary.New("EnvFile")
	for k, v := range vars {
		l.envFile.AddKey(k, v)
	}
	return nil
}

// With returns a copy of l with dicts stacked above its own dictionaries.
// The env file and environment lookup are shared.
func (l *Layers) With(dicts ...*dictionary.Dictionary) *Layers {
	out := NewLayers(dicts...)
	out.dicts = append(out.dicts, l.dicts...)
	out.envFile = l.envFile
	out.environ = l.environ
	return out
}

// WithEnviron replaces the process environment lookup.
func (l *Layers) WithEnviron(environ func(key string) (string, bool)) *Layers {
	l.environ = environ
	return l
}

// Lookup implements Lookup.
func (l *Layers) Lookup(keyword string) (string, bool) {
	for _, d := range l.dicts {
		if v, ok := d.FindKey(keyword); ok {
			return v, true
		}
	}
	if v, ok := l.envFile.FindKey(keyword); ok {
		return v, true
	}
	if l.environ != nil {
		return l.environ(keyword)
	}
	return "", false
}

// Require looks up a keyword that must have a value.
func Require(lookup Lookup, keyword string) (string, error) {
	if lookup != nil {
		if v, ok := lookup.Lookup(keyword); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s: %w", keyword, apperrors.ErrMissingParameter)
}

// RenderTemplate renders the configured Template keyword against lookup.
func RenderTemplate(lookup Lookup) (string, error) {
	tmpl, err := Require(lookup, dictionary.Template)
	if err != nil {
		return "", apperrors.ErrNoTemplate
	}
	return Render(tmpl, lookup), nil
}
