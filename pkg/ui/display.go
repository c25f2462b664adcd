package ui

import (
	"fmt"
	"strings"

	"dvr2plex-go/internal/dictionary"
	"dvr2plex-go/internal/tokenizer"
)

// kindColors gives every structural token kind its own color
var kindColors = map[tokenizer.Kind]string{
	tokenizer.NoMatch:            "",
	tokenizer.SeasonEpisode:      Green,
	tokenizer.SeasonCrossEpisode: Green,
	tokenizer.AbsoluteEpisode:    Green,
	tokenizer.Year:               Yellow,
	tokenizer.Country:            Magenta,
	tokenizer.FirstAired:         Cyan,
	tokenizer.DateRecorded:       Cyan,
}

// KindColor returns the color used for tokens of kind k
func KindColor(k tokenizer.Kind) string {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return BrightBlack
}

// HighlightName returns name with every token colored by its kind.
// Separators between tokens are left as they are.
func HighlightName(name string, tokens []tokenizer.Token) string {
	var out strings.Builder
	pos := 0
	for _, tok := range tokens {
		if tok.Start < pos || tok.End > len(name) || tok.Start > tok.End {
			continue
		}
		out.WriteString(name[pos:tok.Start])
		out.WriteString(Colorize(name[tok.Start:tok.End], KindColor(tok.Kind)))
		pos = tok.End
	}
	out.WriteString(name[pos:])
	return out.String()
}

// FormatTokens renders the token stream one token per line
func FormatTokens(tokens []tokenizer.Token) string {
	var out strings.Builder
	for i, tok := range tokens {
		kind := fmt.Sprintf("%-18s", tok.Kind)
		pattern := tok.Pattern
		if pattern == "" {
			pattern = "-"
		}
		fmt.Fprintf(&out, "%2d  %s %-16s %q\n", i, Colorize(kind, KindColor(tok.Kind)), pattern, tok.Text)
	}
	return out.String()
}

// FormatDictionary lists the entries of dict, newest first. Entries hidden
// by a newer value for the same keyword are dimmed.
func FormatDictionary(dict *dictionary.Dictionary) string {
	var out strings.Builder
	seen := make(map[string]bool)
	for _, p := range dict.Params() {
		name := dictionary.KeywordName(p.Hash)
		line := fmt.Sprintf("%-14s %s", name, p.Value)
		if seen[name] {
			line = DimText(line + " (shadowed)")
		} else {
			line = BoldText(fmt.Sprintf("%-14s", name)) + " " + p.Value
		}
		seen[name] = true
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

// Explanation is everything shown for one explained path
type Explanation struct {
	Source   string
	Basename string
	Tokens   []tokenizer.Token
	Dict     *dictionary.Dictionary
	Output   string
	Err      error
}

// Render draws the explanation as a set of boxes
func (e *Explanation) Render(width int) string {
	var out strings.Builder
	out.WriteString(CreateBox(e.Source, HighlightName(e.Basename, e.Tokens), width))
	out.WriteString("\n")
	out.WriteString(CreateBox("tokens", strings.TrimRight(FormatTokens(e.Tokens), "\n"), width))
	out.WriteString("\n")
	out.WriteString(CreateBox("parameters", strings.TrimRight(FormatDictionary(e.Dict), "\n"), width))
	out.WriteString("\n")
	switch {
	case e.Err != nil:
		out.WriteString(Error("✗ " + e.Err.Error()))
	case e.Output != "":
		out.WriteString(Success("→ ") + e.Output)
	}
	out.WriteString("\n")
	return out.String()
}

// FormatSeriesList lists catalog names, marking match when it is one of them
func FormatSeriesList(names []string, match string) string {
	var out strings.Builder
	for _, name := range names {
		if name == match {
			out.WriteString(Success("* " + name))
		} else {
			out.WriteString("  " + name)
		}
		out.WriteString("\n")
	}
	return out.String()
}
