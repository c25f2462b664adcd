package tokenizer

// separatorCandidates in order of preference when counts tie.
var separatorCandidates = []byte{' ', '.', '_', '-'}

// HistogramSeparator picks the word separator of name: whichever of space,
// period, underscore or dash occurs most often. Periods inside acronyms such
// as "S.W.A.T." are not counted.
func HistogramSeparator(name string) byte {
	var histogram [256]int
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' && isAcronymPeriod(name, i) {
			continue
		}
		histogram[c]++
	}

	sep := separatorCandidates[0]
	for _, c := range separatorCandidates[1:] {
		if histogram[c] > histogram[sep] {
			sep = c
		}
	}
	return sep
}

// isAcronymPeriod reports whether the period at i is followed by a single
// printable byte and another period.
func isAcronymPeriod(name string, i int) bool {
	if i+2 >= len(name) {
		return false
	}
	next := name[i+1]
	return next > ' ' && next < 0x7f && name[i+2] == '.'
}
