package tokenizer

import (
	"fmt"
	"strings"

	"dvr2plex-go/internal/hashing"
)

// Policy selects how word boundaries are found.
type Policy int

const (
	// Uniform splits on every separator byte and rebuilds dates from
	// their digit runs.
	Uniform Policy = iota
	// Histogram picks the single most frequent separator in the name and
	// splits on that byte only.
	Histogram
)

func (p Policy) String() string {
	switch p {
	case Uniform:
		return "uniform"
	case Histogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a configuration value into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uniform":
		return Uniform, nil
	case "histogram":
		return Histogram, nil
	default:
		return Uniform, fmt.Errorf("unknown tokenizer policy %q (expected uniform or histogram)", s)
	}
}

// Token is a span of the name with its classification.
type Token struct {
	// Start and End are byte offsets into the name. For merged tokens they
	// cover every member.
	Start, End int
	Hash       hashing.Hash
	Kind       Kind
	// Pattern is the name of the recognised shape, empty for plain text.
	Pattern string
	// Sep is the first separator byte after the token, 0 at end of name.
	Sep byte
	// Text is the token's value. For runs of plain text the members are
	// joined with single spaces.
	Text string
}

func (t Token) String() string {
	if t.Pattern != "" {
		return fmt.Sprintf("%s[%s] %q", t.Kind, t.Pattern, t.Text)
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Tokenizer splits names into classified tokens.
type Tokenizer struct {
	policy Policy
}

// New creates a tokenizer using the given boundary policy.
func New(policy Policy) *Tokenizer {
	return &Tokenizer{policy: policy}
}

// Policy returns the boundary policy in use.
func (t *Tokenizer) Policy() Policy {
	return t.policy
}

// Tokenize splits name, recognises each token, then merges multi-token
// dates and runs of plain text.
func (t *Tokenizer) Tokenize(name string) []Token {
	cls := uniformClassifier
	if t.policy == Histogram {
		cls = histogramClassifier(HistogramSeparator(name))
	}
	tokens := scan(name, cls)
	tokens = mergeDates(name, tokens)
	return mergeRuns(tokens)
}

// scan makes the single classification pass. A run of separators closes
// at most one token.
func scan(name string, cls classifier) []Token {
	var (
		tokens []Token
		shape  []byte
		start  int
	)

	closeToken := func(end int, sep byte) {
		if end > start {
			h := hashShape(shape)
			tok := Token{Start: start, End: end, Hash: h, Sep: sep, Text: name[start:end]}
			if p := recognize(h, shape); p != nil {
				tok.Kind = p.Kind
				tok.Pattern = p.Name
			}
			tokens = append(tokens, tok)
		}
		shape = shape[:0]
	}

	for i := 0; i < len(name); i++ {
		c := cls(name[i])
		if c == hashing.Separator {
			closeToken(i, name[i])
			start = i + 1
			continue
		}
		shape = appendShape(shape, c)
	}
	closeToken(len(name), 0)
	return tokens
}

// gap returns the bytes between two adjacent tokens.
func gap(name string, a, b Token) string {
	return name[a.End:b.Start]
}

// merged builds a token covering tokens[from..to] of name, re-hashed as a whole.
func merged(name string, first, last Token, kind Kind) Token {
	text := name[first.Start:last.End]
	tok := Token{
		Start: first.Start,
		End:   last.End,
		Hash:  hashShape(classifyShape(text, dashClassifier)),
		Kind:  kind,
		Sep:   last.Sep,
		Text:  text,
	}
	for _, p := range patterns {
		if p.Kind == kind && p.Hash == tok.Hash {
			tok.Pattern = p.Name
			break
		}
	}
	if tok.Pattern == "" && kind == DateRecorded {
		tok.Pattern = "hhmm-yyyymmdd"
	}
	return tok
}

// mergeDates rebuilds yyyy-mm-dd and yyyy-mm-dd-hhmm from digit runs joined
// by single dashes, and hhmm-yyyymmdd from a four-digit run followed by an
// eight-digit run. Digit runs left over become plain text.
func mergeDates(name string, tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	dashed := func(i, j int) bool {
		return j < len(tokens) && gap(name, tokens[i], tokens[j]) == "-"
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == FourDigits {
			if dashed(i, i+1) && dashed(i+1, i+2) &&
				tokens[i+1].Kind == TwoDigits && tokens[i+2].Kind == TwoDigits {
				last, kind := i+2, FirstAired
				if dashed(i+2, i+3) && tokens[i+3].Kind == FourDigits {
					last, kind = i+3, DateRecorded
				}
				out = append(out, merged(name, tok, tokens[last], kind))
				i = last
				continue
			}
			if i+1 < len(tokens) && tokens[i+1].Kind == EightDigits {
				out = append(out, merged(name, tok, tokens[i+1], DateRecorded))
				i++
				continue
			}
		}
		if tok.Kind.intermediate() {
			tok.Kind = NoMatch
			tok.Pattern = ""
		}
		out = append(out, tok)
	}
	return out
}

// mergeRuns joins adjacent plain-text tokens into one run. A run directly
// followed by Year or Country tokens takes their text as a suffix; those
// tokens stay in the stream so they are still decoded.
func mergeRuns(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if tok.Kind != NoMatch {
			out = append(out, tok)
			i++
			continue
		}

		run := tok
		run.Hash = 0
		j := i + 1
		for ; j < len(tokens) && tokens[j].Kind == NoMatch; j++ {
			run.Text += " " + tokens[j].Text
			run.End = tokens[j].End
			run.Sep = tokens[j].Sep
		}
		for k := j; k < len(tokens) && (tokens[k].Kind == Year || tokens[k].Kind == Country); k++ {
			run.Text += " " + tokens[k].Text
			run.End = tokens[k].End
			run.Sep = tokens[k].Sep
		}
		out = append(out, run)
		i = j
	}
	return out
}
