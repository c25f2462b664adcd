package tokenizer

import (
	"bytes"

	"dvr2plex-go/internal/hashing"
)

// Kind is the structural meaning of a token.
type Kind int

const (
	// NoMatch is plain text: part of a series name or an episode title.
	NoMatch Kind = iota
	// SeasonEpisode is SxxEyy in any of its digit-count variants.
	SeasonEpisode
	// SeasonCrossEpisode is nXnn or nnXnn.
	SeasonCrossEpisode
	// AbsoluteEpisode is Eyyy or Eyyyy, with the season folded into the number.
	AbsoluteEpisode
	// Year is a bracketed four-digit year.
	Year
	// Country is a bracketed country code.
	Country
	// FirstAired is a yyyy-mm-dd date.
	FirstAired
	// DateRecorded is yyyy-mm-dd-hhmm or hhmm-yyyymmdd.
	DateRecorded
	// Dash is a lone '-' between words, as in "Show - S01E02 - Title". It
	// only appears when '-' is not the word separator, and ends a run.
	Dash

	// Intermediate digit runs. They only survive if a date merge absorbs them.
	FourDigits
	TwoDigits
	EightDigits
)

func (k Kind) String() string {
	switch k {
	case NoMatch:
		return "NoMatch"
	case SeasonEpisode:
		return "SeasonEpisode"
	case SeasonCrossEpisode:
		return "SeasonCrossEpisode"
	case AbsoluteEpisode:
		return "AbsoluteEpisode"
	case Year:
		return "Year"
	case Country:
		return "Country"
	case FirstAired:
		return "FirstAired"
	case DateRecorded:
		return "DateRecorded"
	case Dash:
		return "Dash"
	case FourDigits:
		return "FourDigits"
	case TwoDigits:
		return "TwoDigits"
	case EightDigits:
		return "EightDigits"
	default:
		return "Unknown"
	}
}

// Structural reports whether the kind carries decodable metadata.
func (k Kind) Structural() bool {
	return k != NoMatch && k != Dash && !k.intermediate()
}

func (k Kind) intermediate() bool {
	return k == FourDigits || k == TwoDigits || k == EightDigits
}

// Pattern is one entry in the fixed catalog of recognised token shapes.
type Pattern struct {
	Name  string
	Kind  Kind
	Hash  hashing.Hash
	shape []byte
}

type patternDef struct {
	name     string
	kind     Kind
	exemplar string
	// dashes keeps '-' as a literal, for whole-date tokens produced when a
	// different byte is the word separator.
	dashes bool
}

var patternDefs = []patternDef{
	{name: "SnnEnn", kind: SeasonEpisode, exemplar: "S01E01"},
	{name: "SnnEn", kind: SeasonEpisode, exemplar: "S01E1"},
	{name: "SnEnn", kind: SeasonEpisode, exemplar: "S1E01"},
	{name: "SnEn", kind: SeasonEpisode, exemplar: "S1E1"},
	{name: "SyyyyEnn", kind: SeasonEpisode, exemplar: "S2019E01"},
	{name: "SyyyyEn", kind: SeasonEpisode, exemplar: "S2019E1"},
	{name: "nXnn", kind: SeasonCrossEpisode, exemplar: "1x01"},
	{name: "nnXnn", kind: SeasonCrossEpisode, exemplar: "01x01"},
	{name: "Ennn", kind: AbsoluteEpisode, exemplar: "E101"},
	{name: "Ennnn", kind: AbsoluteEpisode, exemplar: "E1001"},
	{name: "(yyyy)", kind: Year, exemplar: "(2019)"},
	{name: "(US)", kind: Country, exemplar: "(US)"},
	{name: "(USA)", kind: Country, exemplar: "(USA)"},
	{name: "(UK)", kind: Country, exemplar: "(UK)"},
	{name: "nnnn", kind: FourDigits, exemplar: "2019"},
	{name: "nn", kind: TwoDigits, exemplar: "01"},
	{name: "nnnnnnnn", kind: EightDigits, exemplar: "20190101"},
	{name: "-", kind: Dash, exemplar: "-", dashes: true},
	{name: "yyyy-mm-dd", kind: FirstAired, exemplar: "2019-01-01", dashes: true},
	{name: "yyyy-mm-dd-hhmm", kind: DateRecorded, exemplar: "2019-01-01-2000", dashes: true},
}

var (
	patterns      []*Pattern
	patternByHash = make(map[hashing.Hash]*Pattern)
)

func init() {
	for _, def := range patternDefs {
		cls := uniformClassifier
		if def.dashes {
			cls = dashClassifier
		}
		shape := classifyShape(def.exemplar, cls)
		p := &Pattern{
			Name:  def.name,
			Kind:  def.kind,
			Hash:  hashShape(shape),
			shape: shape,
		}
		patterns = append(patterns, p)
		patternByHash[p.Hash] = p
	}
}

// Patterns returns the catalog of recognised shapes.
func Patterns() []*Pattern {
	out := make([]*Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// recognize maps a token hash to a pattern. A hash hit is only trusted when
// the token's classified shape matches the pattern's, so a title word whose
// hash happens to collide with a pattern stays plain text.
func recognize(h hashing.Hash, shape []byte) *Pattern {
	p, ok := patternByHash[h]
	if !ok {
		return nil
	}
	if !bytes.Equal(p.shape, shape) {
		return nil
	}
	return p
}

// classifier maps a byte to the class the tokenizer acts on.
type classifier func(b byte) hashing.Class

func uniformClassifier(b byte) hashing.Class {
	return hashing.Pattern.Classify(b)
}

func dashClassifier(b byte) hashing.Class {
	if b == '-' {
		return hashing.Class('-')
	}
	return hashing.Pattern.Classify(b)
}

// histogramClassifier treats only sep as a word boundary. Other separator
// bytes are ignored, except '-' which stays literal so dates hash as a whole.
func histogramClassifier(sep byte) classifier {
	return func(b byte) hashing.Class {
		c := hashing.Pattern.Classify(b)
		if c != hashing.Separator || b == sep {
			return c
		}
		if b == '-' {
			return hashing.Class('-')
		}
		return hashing.Ignore
	}
}

// appendShape appends the codes c contributes to a hash.
func appendShape(shape []byte, c hashing.Class) []byte {
	switch {
	case c == hashing.Ampersand:
		return append(shape, 'a', 'n', 'd')
	case c.IsLiteral():
		return append(shape, byte(c))
	}
	return shape
}

func classifyShape(s string, cls classifier) []byte {
	var shape []byte
	for i := 0; i < len(s); i++ {
		shape = appendShape(shape, cls(s[i]))
	}
	return shape
}

func hashShape(shape []byte) hashing.Hash {
	var h hashing.Hash
	for _, b := range shape {
		h = hashing.Step(h, b)
	}
	return h
}
