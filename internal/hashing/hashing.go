package hashing

// Hash is the rolling hash of a byte run under one of the classification
// tables. It is not cryptographic; collisions are possible.
type Hash uint64

// Class is the canonical category a raw byte maps to. Values below 256 are
// literal (already case-folded) byte codes; the rest are structural.
type Class uint16

const (
	// Digit is the single code every digit collapses to under the pattern table.
	Digit Class = '0'
	// LeftBracket is the code '(', '[' and '{' fold to.
	LeftBracket Class = '('
	// RightBracket is the code ')', ']' and '}' fold to.
	RightBracket Class = ')'

	// Ignore marks bytes that never contribute to a hash.
	Ignore Class = 0x100 + iota
	// Separator marks word boundaries. Separators never contribute to a hash.
	Separator
	// Ampersand is hashed as if "and" had been written.
	Ampersand
)

// IsLiteral reports whether c is a byte code that is fed to the hash.
func (c Class) IsLiteral() bool {
	return c < 0x100
}

// Table maps every byte value to its Class.
type Table [256]Class

// Pattern is used to recognise token shapes. All digits are equivalent,
// letters are case-folded, and separators split tokens.
var Pattern = buildTable(patternRules)

// Keyword is used for series names and parameter keywords. Digits keep their
// identity and more punctuation is ignored, since it is inconsistently typed.
var Keyword = buildTable(keywordRules)

type tableRules struct {
	foldDigits bool
	separators string
	ignored    string
}

var patternRules = tableRules{
	foldDigits: true,
	separators: " ._-\t",
	ignored:    "!'?",
}

// Periods are separators so "S.W.A.T.", "S.W.A.T" and "SWAT" hash alike.
// Apostrophes, '?', '!' and ':' are often dropped ("Marvels", "Emergency").
var keywordRules = tableRules{
	separators: " ._-",
	ignored:    "\t\n\r!'?:",
}

func buildTable(rules tableRules) Table {
	var t Table
	for i := range t {
		b := byte(i)
		switch {
		case b >= 'A' && b <= 'Z':
			t[i] = Class(b - 'A' + 'a')
		case b >= '0' && b <= '9' && rules.foldDigits:
			t[i] = Digit
		default:
			t[i] = Class(b)
		}
	}
	for _, b := range []byte("([{") {
		t[b] = LeftBracket
	}
	for _, b := range []byte(")]}") {
		t[b] = RightBracket
	}
	for i := 0; i < len(rules.separators); i++ {
		t[rules.separators[i]] = Separator
	}
	for i := 0; i < len(rules.ignored); i++ {
		t[rules.ignored[i]] = Ignore
	}
	t['&'] = Ampersand
	return t
}

// Classify returns the class of b.
func (t *Table) Classify(b byte) Class {
	return t[b]
}

// Step advances h by one classified byte code.
func Step(h Hash, code byte) Hash {
	return h ^ (h*43 + Hash(code))
}

// Add folds one class into h. Ignore and Separator leave h untouched.
func Add(h Hash, c Class) Hash {
	switch {
	case c == Ampersand:
		h = Step(h, 'a')
		h = Step(h, 'n')
		h = Step(h, 'd')
	case c.IsLiteral():
		h = Step(h, byte(c))
	}
	return h
}

// Sum hashes s under t.
func (t *Table) Sum(s string) Hash {
	var h Hash
	for i := 0; i < len(s); i++ {
		h = Add(h, t[s[i]])
	}
	return h
}

// Key hashes a keyword or series name under the Keyword table.
func Key(s string) Hash {
	return Keyword.Sum(s)
}

// Hasher accumulates a hash one byte at a time while reporting each byte's
// class, for callers that react to separators or brackets mid-scan.
type Hasher struct {
	table *Table
	sum   Hash
	fed   int
}

// NewHasher returns a Hasher over t.
func NewHasher(t *Table) *Hasher {
	return &Hasher{table: t}
}

// Feed classifies b, folds it into the running hash and returns its class.
func (h *Hasher) Feed(b byte) Class {
	c := h.table[b]
	if c == Ampersand || c.IsLiteral() {
		h.sum = Add(h.sum, c)
		h.fed++
	}
	return c
}

// Sum returns the hash accumulated so far.
func (h *Hasher) Sum() Hash {
	return h.sum
}

// Empty reports whether nothing has contributed to the hash yet.
func (h *Hasher) Empty() bool {
	return h.fed == 0
}

// Reset clears the running hash.
func (h *Hasher) Reset() {
	h.sum = 0
	h.fed = 0
}
