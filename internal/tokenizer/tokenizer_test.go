package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type want struct {
	kind Kind
	text string
}

func kinds(tokens []Token) []want {
	out := make([]want, len(tokens))
	for i, t := range tokens {
		out[i] = want{t.Kind, t.Text}
	}
	return out
}

func TestTokenizeUniform(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{
			"season episode",
			"Show Name S01E02 Pilot",
			[]want{{NoMatch, "Show Name"}, {SeasonEpisode, "S01E02"}, {NoMatch, "Pilot"}},
		},
		{
			"period separated",
			"The.Show.s1e5.720p",
			[]want{{NoMatch, "The Show"}, {SeasonEpisode, "s1e5"}, {NoMatch, "720p"}},
		},
		{
			"cross notation with dash runs",
			"Show - 1x05 - Title",
			[]want{{NoMatch, "Show"}, {SeasonCrossEpisode, "1x05"}, {NoMatch, "Title"}},
		},
		{
			"absolute episode",
			"Show E1203",
			[]want{{NoMatch, "Show"}, {AbsoluteEpisode, "E1203"}},
		},
		{
			"four digit season",
			"Show_S2019E07",
			[]want{{NoMatch, "Show"}, {SeasonEpisode, "S2019E07"}},
		},
		{
			"first aired",
			"Show 2021-09-14 Title",
			[]want{{NoMatch, "Show"}, {FirstAired, "2021-09-14"}, {NoMatch, "Title"}},
		},
		{
			"date recorded",
			"Show S01E01 2021-09-14-1530",
			[]want{{NoMatch, "Show"}, {SeasonEpisode, "S01E01"}, {DateRecorded, "2021-09-14-1530"}},
		},
		{
			"alternate date recorded",
			"Show 1530 20210914",
			[]want{{NoMatch, "Show"}, {DateRecorded, "1530 20210914"}},
		},
		{
			"unabsorbed digits become text",
			"Show 2019 S01E01",
			[]want{{NoMatch, "Show 2019"}, {SeasonEpisode, "S01E01"}},
		},
		{
			"date needs dashes",
			"Show 2021 09 14",
			[]want{{NoMatch, "Show 2021 09 14"}},
		},
		{
			"year is absorbed and kept",
			"Show (2019) S01E01",
			[]want{{NoMatch, "Show (2019)"}, {Year, "(2019)"}, {SeasonEpisode, "S01E01"}},
		},
		{
			"country then year",
			"Show [UK] (2019) 1x01",
			[]want{{NoMatch, "Show [UK] (2019)"}, {Country, "[UK]"}, {Year, "(2019)"}, {SeasonCrossEpisode, "1x01"}},
		},
		{
			"ampersand stays text",
			"Will & Grace S01E01",
			[]want{{NoMatch, "Will & Grace"}, {SeasonEpisode, "S01E01"}},
		},
	}

	tok := New(Uniform)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(tok.Tokenize(tt.input)))
		})
	}
}

func TestDateMergeUpgrade(t *testing.T) {
	tok := New(Uniform)

	tokens := tok.Tokenize("2021-09-14")
	require.Len(t, tokens, 1)
	assert.Equal(t, FirstAired, tokens[0].Kind)
	assert.Equal(t, "2021-09-14", tokens[0].Text)
	assert.Equal(t, "yyyy-mm-dd", tokens[0].Pattern)

	tokens = tok.Tokenize("2021-09-14-1530")
	require.Len(t, tokens, 1)
	assert.Equal(t, DateRecorded, tokens[0].Kind)
	assert.Equal(t, "2021-09-14-1530", tokens[0].Text)
	assert.Equal(t, "yyyy-mm-dd-hhmm", tokens[0].Pattern)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 15, tokens[0].End)
}

func TestTokenSpans(t *testing.T) {
	name := "Show.Name S01E02"
	tokens := New(Uniform).Tokenize(name)
	require.Len(t, tokens, 2)

	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 9, tokens[0].End)
	assert.Equal(t, byte(' '), tokens[0].Sep)
	assert.Equal(t, "S01E02", name[tokens[1].Start:tokens[1].End])
	assert.Equal(t, byte(0), tokens[1].Sep)
}

func TestTokenizeHistogram(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{
			"period separator",
			"Show.Name.S01E02",
			[]want{{NoMatch, "Show Name"}, {SeasonEpisode, "S01E02"}},
		},
		{
			"acronym kept whole",
			"S.W.A.T. 2017 S01E01",
			[]want{{NoMatch, "S.W.A.T. 2017"}, {SeasonEpisode, "S01E01"}},
		},
		{
			"whole date token",
			"Show_Name_2021-09-14",
			[]want{{NoMatch, "Show Name"}, {FirstAired, "2021-09-14"}},
		},
		{
			"spaced dashes split runs",
			"Show Name - S01E02 - Pilot",
			[]want{{NoMatch, "Show Name"}, {Dash, "-"}, {SeasonEpisode, "S01E02"}, {Dash, "-"}, {NoMatch, "Pilot"}},
		},
		{
			"dash between title words",
			"Show Name - Pilot Part 1",
			[]want{{NoMatch, "Show Name"}, {Dash, "-"}, {NoMatch, "Pilot Part 1"}},
		},
		{
			"dash separator",
			"Show-Name-S01E02",
			[]want{{NoMatch, "Show Name"}, {SeasonEpisode, "S01E02"}},
		},
	}

	tok := New(Histogram)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(tok.Tokenize(tt.input)))
		})
	}
}

func TestHistogramSeparator(t *testing.T) {
	tests := []struct {
		input string
		want  byte
	}{
		{"Show Name S01E01", ' '},
		{"Show.Name.S01E01", '.'},
		{"Show_Name_S01E01", '_'},
		{"Show-Name-S01E01", '-'},
		{"S.W.A.T. S01E01", ' '},
		{"", ' '},
	}
	for _, tt := range tests {
		if got := HistogramSeparator(tt.input); got != tt.want {
			t.Errorf("HistogramSeparator(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestRecognizeVerifiesShape(t *testing.T) {
	for _, p := range Patterns() {
		assert.Nil(t, recognize(p.Hash, []byte("not a pattern")), p.Name)
		assert.Same(t, p, recognize(p.Hash, p.shape), p.Name)
	}
}

func TestPatternHashesDistinct(t *testing.T) {
	seen := make(map[uint64]string)
	for _, p := range Patterns() {
		if other, ok := seen[uint64(p.Hash)]; ok {
			t.Errorf("Pattern %s collides with %s", p.Name, other)
		}
		seen[uint64(p.Hash)] = p.Name
	}
}

func TestTokenizeDegenerateInput(t *testing.T) {
	tok := New(Uniform)
	for _, input := range []string{"", "---", "...", "{", "(", "S", "&", " - "} {
		assert.NotPanics(t, func() { tok.Tokenize(input) }, input)
	}
	assert.Empty(t, tok.Tokenize(" - . _ "))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("Histogram")
	require.NoError(t, err)
	assert.Equal(t, Histogram, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Uniform, p)

	_, err = ParsePolicy("regex")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "SeasonEpisode", SeasonEpisode.String())
	assert.Equal(t, "Unknown", Kind(99).String())
	assert.True(t, FirstAired.Structural())
	assert.False(t, FourDigits.Structural())
	assert.False(t, Dash.Structural())
	assert.Equal(t, "Dash", Dash.String())
}
