package ui

import (
	"errors"
	"strings"
	"testing"

	"dvr2plex-go/internal/dictionary"
	"dvr2plex-go/internal/tokenizer"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := IsColorEnabled()
	SetColorEnabled(enabled)
	t.Cleanup(func() { SetColorEnabled(prev) })
}

func TestColorize(t *testing.T) {
	withColor(t, false)
	if got := Success("ok"); got != "ok" {
		t.Errorf("Expected plain text without color, got %q", got)
	}

	withColor(t, true)
	if got := Success("ok"); got != Green+"ok"+Reset {
		t.Errorf("Expected green text, got %q", got)
	}
	if got := Colorize("plain", ""); got != "plain" {
		t.Errorf("Expected empty color to leave text alone, got %q", got)
	}
}

func TestStripAnsiCodes(t *testing.T) {
	withColor(t, true)
	if got := stripAnsiCodes(Error("bad") + " " + Highlight("news")); got != "bad news" {
		t.Errorf("Unexpected stripped text %q", got)
	}
	if got := visibleLen(Warning("ünï")); got != 3 {
		t.Errorf("Expected 3 visible runes, got %d", got)
	}
}

func TestCreateBox(t *testing.T) {
	withColor(t, false)
	box := CreateBox("title", "line one\nline two", 20)
	lines := strings.Split(box, "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d:\n%s", len(lines), box)
	}
	for _, line := range lines {
		if n := visibleLen(line); n != 20 {
			t.Errorf("Expected width 20, got %d for %q", n, line)
		}
	}
	if !strings.Contains(lines[0], " title ") {
		t.Errorf("Expected title in top border, got %q", lines[0])
	}
}

func TestHighlightName(t *testing.T) {
	name := "Castle S01E02"
	tokens := tokenizer.New(tokenizer.Uniform).Tokenize(name)

	withColor(t, false)
	if got := HighlightName(name, tokens); got != name {
		t.Errorf("Expected name unchanged without color, got %q", got)
	}

	withColor(t, true)
	got := HighlightName(name, tokens)
	if !strings.Contains(got, Green+"S01E02"+Reset) {
		t.Errorf("Expected episode marker in green, got %q", got)
	}
	if stripAnsiCodes(got) != name {
		t.Errorf("Expected highlighting to keep the text, got %q", stripAnsiCodes(got))
	}
}

func TestFormatTokens(t *testing.T) {
	withColor(t, false)
	tokens := tokenizer.New(tokenizer.Uniform).Tokenize("Castle (2009) S01E02")
	out := FormatTokens(tokens)
	for _, want := range []string{"NoMatch", "SeasonEpisode", "SnnEnn", `"S01E02"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in token listing:\n%s", want, out)
		}
	}
}

func TestFormatDictionary(t *testing.T) {
	withColor(t, false)
	dict := dictionary.New("File")
	dict.AddKey(dictionary.Title, "first")
	dict.AddKey(dictionary.Title, "second")
	dict.AddKey(dictionary.Season, "01")

	out := FormatDictionary(dict)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Season") || !strings.Contains(lines[1], "second") {
		t.Errorf("Expected newest entries first:\n%s", out)
	}
	if !strings.Contains(lines[2], "first (shadowed)") {
		t.Errorf("Expected older Title to be marked shadowed:\n%s", out)
	}
}

func TestExplanationRender(t *testing.T) {
	withColor(t, false)
	dict := dictionary.New("File")
	dict.AddKey(dictionary.Series, "Castle")

	e := &Explanation{
		Source:   "/rec/Castle S01E02.mpg",
		Basename: "Castle S01E02",
		Tokens:   tokenizer.New(tokenizer.Uniform).Tokenize("Castle S01E02"),
		Dict:     dict,
		Output:   "/tv/Castle/Season 01",
	}
	out := e.Render(60)
	if !strings.Contains(out, "→ /tv/Castle/Season 01") {
		t.Errorf("Expected rendered output, got:\n%s", out)
	}

	e.Err = errors.New("no template defined")
	if out := e.Render(60); !strings.Contains(out, "✗ no template defined") {
		t.Errorf("Expected error line, got:\n%s", out)
	}
}

func TestFormatSeriesList(t *testing.T) {
	withColor(t, false)
	out := FormatSeriesList([]string{"Castle", "Firefly"}, "Firefly")
	if out != "  Castle\n* Firefly\n" {
		t.Errorf("Unexpected list %q", out)
	}
}
