package template

import (
	"strings"

	"dvr2plex-go/internal/dictionary"
	"dvr2plex-go/internal/hashing"
)

// Lookup resolves a template keyword to its value.
type Lookup interface {
	Lookup(keyword string) (string, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(keyword string) (string, bool)

// Lookup calls f.
func (f LookupFunc) Lookup(keyword string) (string, bool) {
	return f(keyword)
}

// Render expands tmpl against lookup.
//
//	\X                  X, uninterpreted
//	{keyword}           the value, or nothing
//	{keyword?yes:no}    yes with every '@' replaced by the value, or no
//
// The Template keyword never expands, so a template cannot include itself.
// A placeholder left open at the end of tmpl produces nothing.
func Render(tmpl string, lookup Lookup) string {
	var out strings.Builder
	out.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		switch c := tmpl[i]; c {
		case '\\':
			if i+1 < len(tmpl) {
				i++
				out.WriteByte(tmpl[i])
			}
		case '{':
			i = expand(&out, tmpl, i+1, lookup)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// expand handles one placeholder whose keyword starts at i. It returns the
// index of the closing brace, or the last index of tmpl when unterminated.
func expand(out *strings.Builder, tmpl string, i int, lookup Lookup) int {
	start := i
	for i < len(tmpl) && tmpl[i] != '}' && tmpl[i] != '?' {
		i++
	}
	if i >= len(tmpl) {
		return len(tmpl) - 1
	}
	keyword := tmpl[start:i]

	value, ok := resolve(keyword, lookup)
	if tmpl[i] == '}' {
		if ok {
			out.WriteString(value)
		}
		return i
	}

	// ternary: only the selected branch is collected
	var branch strings.Builder
	inTrue := true
	for i++; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '}':
			out.WriteString(branch.String())
			return i
		case c == '\\' && i+1 < len(tmpl):
			i++
			if inTrue == ok {
				branch.WriteByte(tmpl[i])
			}
		case c == ':' && inTrue:
			inTrue = false
		case c == '@' && inTrue:
			if ok {
				branch.WriteString(value)
			}
		default:
			if inTrue == ok {
				branch.WriteByte(c)
			}
		}
	}
	return len(tmpl) - 1
}

func resolve(keyword string, lookup Lookup) (string, bool) {
	if lookup == nil || hashing.Key(keyword) == dictionary.KeyTemplate {
		return "", false
	}
	return lookup.Lookup(keyword)
}
