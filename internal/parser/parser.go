package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dvr2plex-go/internal/catalog"
	"dvr2plex-go/internal/dictionary"
	"dvr2plex-go/internal/tokenizer"
)

// Parser turns recording paths into file dictionaries.
type Parser struct {
	tokenizer *tokenizer.Tokenizer
	logger    logrus.FieldLogger
	now       func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithClock replaces the clock used to bound plausible years.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// New creates a Parser using tok to split names.
func New(tok *tokenizer.Tokenizer, opts ...Option) *Parser {
	if tok == nil {
		tok = tokenizer.New(tokenizer.Uniform)
	}
	p := &Parser{
		tokenizer: tok,
		logger:    logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tokenizer returns the tokenizer in use.
func (p *Parser) Tokenizer() *tokenizer.Tokenizer {
	return p.tokenizer
}

// SplitPath breaks path into its directory, base name and extension. The
// extension keeps its leading period and is only taken from the last path
// element.
func SplitPath(path string) (dir, base, ext string) {
	name := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		dir, name = path[:i], path[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name, ext = name[:i], name[i:]
	}
	return dir, name, ext
}

// ParsePath records Source, Path, Basename and Extension for path in dict,
// then parses the base name. It returns the tokens the name produced.
func (p *Parser) ParsePath(dict *dictionary.Dictionary, path string, series *catalog.Catalog) []tokenizer.Token {
	dict.Add(dictionary.KeySource, path)

	dir, base, ext := SplitPath(path)
	if ext != "" {
		dict.Add(dictionary.KeyExtension, ext)
	}
	if strings.Contains(path, "/") {
		dict.Add(dictionary.KeyPath, dir)
	}
	dict.Add(dictionary.KeyBasename, base)

	return p.ParseName(dict, base, series)
}

// ParseName tokenizes name and stores everything it can decode in dict. The
// first run of plain text is the series, resolved against series when it is
// non-nil; later runs are the episode title.
func (p *Parser) ParseName(dict *dictionary.Dictionary, name string, series *catalog.Catalog) []tokenizer.Token {
	tokens := p.tokenizer.Tokenize(name)

	seenSeries := false
	for _, tok := range tokens {
		p.logger.WithFields(logrus.Fields{
			"kind":    tok.Kind.String(),
			"pattern": tok.Pattern,
		}).Debugf("token %q", tok.Text)

		if tok.Kind == tokenizer.NoMatch {
			if seenSeries {
				dict.Add(dictionary.KeyTitle, tok.Text)
			} else {
				p.storeSeries(dict, tok.Text, series)
				seenSeries = true
			}
			continue
		}
		p.storeToken(dict, tok)
	}
	return tokens
}

func (p *Parser) storeSeries(dict *dictionary.Dictionary, run string, series *catalog.Catalog) {
	m, ok := series.Lookup(run)
	if !ok {
		p.logger.WithField("series", run).Debug("no catalog match, using name as is")
		dict.Add(dictionary.KeySeries, run)
		dict.Add(dictionary.KeyDestSeries, run)
		return
	}

	p.logger.WithFields(logrus.Fields{
		"series":      m.Series,
		"destination": m.Canonical,
	}).Debug("catalog match")
	dict.Add(dictionary.KeySeries, m.Series)
	dict.Add(dictionary.KeyDestSeries, m.Canonical)
	if m.Remainder != "" {
		dict.Add(dictionary.KeyTitle, m.Remainder)
	}
}

func (p *Parser) storeToken(dict *dictionary.Dictionary, tok tokenizer.Token) {
	switch tok.Kind {
	case tokenizer.SeasonEpisode, tokenizer.SeasonCrossEpisode:
		nums := digitRuns(tok.Text)
		if len(nums) < 2 {
			return
		}
		AddSeasonEpisode(dict, nums[0], nums[1])

	case tokenizer.AbsoluteEpisode:
		nums := digitRuns(tok.Text)
		if len(nums) < 1 {
			return
		}
		season, episode := SplitAbsolute(nums[0])
		AddSeasonEpisode(dict, season, episode)
		if episode == 0 {
			// E100, E1000: no real episode number, file it with the specials
			dict.Add(dictionary.KeySeasonFolder, SeasonFolder(0))
		}

	case tokenizer.FirstAired:
		dict.Add(dictionary.KeyFirstAired, tok.Text)

	case tokenizer.DateRecorded:
		dict.Add(dictionary.KeyDateRecorded, tok.Text)

	case tokenizer.Year:
		nums := digitRuns(tok.Text)
		if len(nums) < 1 {
			return
		}
		year := nums[0]
		if !p.plausibleYear(year) {
			p.logger.WithField("year", year).Debug("year out of range, ignored")
			return
		}
		dict.Add(dictionary.KeyYear, strconv.Itoa(year))

	case tokenizer.Country:
		dict.Add(dictionary.KeyCountry, strings.ToUpper(strings.Trim(tok.Text, "()[]{}")))

	case tokenizer.Dash:
		// only separates runs
	}
}

func (p *Parser) plausibleYear(year int) bool {
	return year > 1890 && year <= p.now().Year()+1
}

// AddSeasonEpisode stores a zero-padded season and episode plus the season
// folder name. Season 0 goes to "Specials".
func AddSeasonEpisode(dict *dictionary.Dictionary, season, episode int) {
	dict.Add(dictionary.KeySeason, fmt.Sprintf("%02d", season))
	dict.Add(dictionary.KeySeasonFolder, SeasonFolder(season))
	dict.Add(dictionary.KeyEpisode, fmt.Sprintf("%02d", episode))
}

// SeasonFolder returns the folder name Plex expects for a season.
func SeasonFolder(season int) string {
	if season == 0 {
		return "Specials"
	}
	return fmt.Sprintf("Season %02d", season)
}

// SplitAbsolute splits an absolute episode number into season and episode.
// The last two digits are normally the episode, but when that would leave a
// season ending in zero the last three are used, so 1203 is 12/03 and 1005
// stays in season 1.
func SplitAbsolute(n int) (season, episode int) {
	divisor := 100
	if (n/divisor)%10 == 0 {
		divisor *= 10
	}
	return n / divisor, n % divisor
}

// digitRuns returns every maximal run of ASCII digits in s as an integer.
func digitRuns(s string) []int {
	var (
		out []int
		n   int
		in  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			n = n*10 + int(c-'0')
			in = true
			continue
		}
		if in {
			out = append(out, n)
			n, in = 0, false
		}
	}
	if in {
		out = append(out, n)
	}
	return out
}
