package vsv

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// Sampling limits for content sniffing
const (
	// SampleSize is the number of leading bytes inspected when guessing a separator or header
	SampleSize = 10000
	// MaxSampleLines is the maximum number of lines used for the consistency check
	MaxSampleLines = 10
	// suffixLength is the number of trailing filename characters used as the extension
	suffixLength = 3
)

// Byte values the scanner reacts to
const (
	newlineByte        = '\n'
	carriageReturnByte = '\r'
	quoteByte          = '"'
)

// Separator is the single byte that splits a line into fields.
// The zero value is SeparatorUndetermined.
type Separator byte

const (
	// SeparatorUndetermined means neither the filename nor the content identified a separator
	SeparatorUndetermined Separator = 0
	// SeparatorComma is ','
	SeparatorComma Separator = ','
	// SeparatorTab is '\t'
	SeparatorTab Separator = '\t'
	// SeparatorPipe is '|'
	SeparatorPipe Separator = '|'
)

// undeterminedSentinel is how an undetermined separator is rendered in every encoding
const undeterminedSentinel = "-1"

// suffixToSeparator maps a 3 character filename suffix to its separator.
// Matching is case-sensitive.
var suffixToSeparator = map[string]Separator{
	"csv": SeparatorComma,
	"tsv": SeparatorTab,
	"psv": SeparatorPipe,
}

// IsDetermined reports whether s is one of the supported separators
func (s Separator) IsDetermined() bool {
	switch s {
	case SeparatorComma, SeparatorTab, SeparatorPipe:
		return true
	default:
		return false
	}
}

// String returns the separator as a display character, or "-1" when undetermined
func (s Separator) String() string {
	if !s.IsDetermined() {
		return undeterminedSentinel
	}
	return string(rune(s))
}

// Hex returns the two digit lowercase hex value of the separator byte
// (e.g. "2c" for comma), or "-1" when undetermined.
func (s Separator) Hex() string {
	if !s.IsDetermined() {
		return undeterminedSentinel
	}
	return hex.EncodeToString([]byte{byte(s)})
}

// Escaped returns the separator with tab rendered as the escape `\t`.
// Comma and pipe are returned as-is, and "-1" when undetermined.
func (s Separator) Escaped() string {
	if s == SeparatorTab {
		return `\t`
	}
	return s.String()
}

// Rune returns the separator as a rune, suitable for csv.Reader.Comma.
func (s Separator) Rune() rune {
	return rune(s)
}

// ParseSeparator converts any encoding produced by String, Hex or Escaped back to a Separator.
// The sentinel "-1" returns SeparatorUndetermined with ErrUndeterminedSeparator.
func ParseSeparator(value string) (Separator, error) {
	if value == undeterminedSentinel {
		return SeparatorUndetermined, ErrUndeterminedSeparator
	}
	if value == `\t` {
		return SeparatorTab, nil
	}
	if len(value) == 1 {
		if s := Separator(value[0]); s.IsDetermined() {
			return s, nil
		}
	}
	if len(value) == 2 {
		if b, err := hex.DecodeString(strings.ToLower(value)); err == nil {
			if s := Separator(b[0]); s.IsDetermined() {
				return s, nil
			}
		}
	}
	return SeparatorUndetermined, fmt.Errorf("%w: unknown separator %q", ErrInvalidData, value)
}

// candidate is one separator under consideration together with the number of
// times it occurs on each analyzed line.
type candidate struct {
	separator Separator
	counts    []int
}

// newCandidates returns the fixed candidate set, each with lines zeroed slots
func newCandidates(lines int) [3]candidate {
	return [3]candidate{
		{separator: SeparatorComma, counts: make([]int, lines)},
		{separator: SeparatorTab, counts: make([]int, lines)},
		{separator: SeparatorPipe, counts: make([]int, lines)},
	}
}

// consistent reports whether the candidate occurs the same nonzero number of times on every line
func (c candidate) consistent() bool {
	if len(c.counts) == 0 {
		return false
	}
	lowest, highest := c.counts[0], c.counts[0]
	for _, n := range c.counts[1:] {
		lowest = min(lowest, n)
		highest = max(highest, n)
	}
	return highest != 0 && lowest == highest
}

// quoteState is the scanner state for double-quoted fields.
// There is no escaping and no nesting: every quote byte flips the state.
type quoteState int

const (
	outsideQuotes quoteState = iota
	insideQuotes
)

// next returns the state after consuming b
func (q quoteState) next(b byte) quoteState {
	if b != quoteByte {
		return q
	}
	if q == insideQuotes {
		return outsideQuotes
	}
	return insideQuotes
}

// sample returns at most the first SampleSize bytes of data
func sample(data []byte) []byte {
	if len(data) > SampleSize {
		return data[:SampleSize]
	}
	return data
}

// separatorFromSuffix looks up the last three characters of filename
func separatorFromSuffix(filename string) (Separator, bool) {
	if len(filename) < suffixLength {
		return SeparatorUndetermined, false
	}
	s, ok := suffixToSeparator[filename[len(filename)-suffixLength:]]
	return s, ok
}

// DetectSeparator returns the field separator for a file.
// A csv, tsv or psv suffix wins without looking at the content; otherwise the
// first SampleSize bytes of data are sniffed with DetectSeparatorFromContent.
func DetectSeparator(filename string, data []byte) (Separator, error) {
	if s, ok := separatorFromSuffix(filename); ok {
		return s, nil
	}
	return DetectSeparatorFromContent(data)
}

// DetectSeparatorFromContent guesses the separator as the only candidate that
// occurs the same nonzero number of times on each of the first
// min(newlines, MaxSampleLines) lines. Bytes between double quotes are ignored.
// It returns SeparatorUndetermined and ErrUndeterminedSeparator when no
// newline is present or when zero or several candidates qualify.
func DetectSeparatorFromContent(data []byte) (Separator, error) {
	d := sample(data)

	lines := min(bytes.Count(d, []byte{newlineByte}), MaxSampleLines)
	if lines == 0 {
		return SeparatorUndetermined, ErrUndeterminedSeparator
	}

	candidates := newCandidates(lines)
	state := outsideQuotes
	line := 0

scan:
	for _, b := range d {
		state = state.next(b)
		if state == insideQuotes {
			continue
		}
		switch b {
		case newlineByte:
			line++
			if line == lines {
				break scan
			}
		default:
			for i := range candidates {
				if candidates[i].separator == Separator(b) {
					candidates[i].counts[line]++
				}
			}
		}
	}

	found := SeparatorUndetermined
	possible := 0
	for _, c := range candidates {
		if c.consistent() {
			found = c.separator
			possible++
		}
	}
	if possible != 1 {
		return SeparatorUndetermined, ErrUndeterminedSeparator
	}
	return found, nil
}
