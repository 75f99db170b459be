package vsv

import (
	"bytes"
)

// Character set of a numeric-like field
const (
	firstDigitChar = '0'
	lastDigitChar  = '9'
	minusChar      = '-'
	dotChar        = '.'
)

// DefaultMaxNumericFields is how many numeric-like fields a header line may contain
const DefaultMaxNumericFields = 1

// HeaderRule holds the tunables of the header heuristic.
type HeaderRule struct {
	// MaxNumericFields is the largest number of numeric-like fields a line may
	// have and still be treated as a header.
	MaxNumericFields int
}

// DefaultHeaderRule returns the rule used by HasHeader
func DefaultHeaderRule() HeaderRule {
	return HeaderRule{MaxNumericFields: DefaultMaxNumericFields}
}

// WithMaxNumericFields returns a copy of the rule with a different numeric field limit.
// Negative values are treated as zero.
func (r HeaderRule) WithMaxNumericFields(n int) HeaderRule {
	r.MaxNumericFields = max(n, 0)
	return r
}

// HasHeader reports whether the first line of data looks like a header row,
// using DefaultHeaderRule.
func HasHeader(data []byte, sep Separator) bool {
	return DefaultHeaderRule().HasHeader(data, sep)
}

// HasHeader reports whether the first line of data looks like a header row.
//
// Only the first line of the first SampleSize bytes is examined. It is split on
// sep without honoring quotes. The line is not a header when two fields are
// identical or when more than MaxNumericFields fields are numeric-like.
// Header detection is advisory and never fails; an undetermined separator or
// an empty first line yields false.
func (r HeaderRule) HasHeader(data []byte, sep Separator) bool {
	if !sep.IsDetermined() {
		return false
	}

	line := firstLine(sample(data))
	if len(line) == 0 {
		return false
	}

	fields := bytes.Split(line, []byte{byte(sep)})

	seen := make(map[string]struct{}, len(fields))
	numeric := 0
	for _, f := range fields {
		if _, dup := seen[string(f)]; dup {
			return false
		}
		seen[string(f)] = struct{}{}

		if isNumericLike(f) {
			numeric++
		}
	}
	return numeric <= r.MaxNumericFields
}

// firstLine returns the bytes before the first newline, without a trailing carriage return
func firstLine(d []byte) []byte {
	if i := bytes.IndexByte(d, newlineByte); i >= 0 {
		d = d[:i]
	}
	return bytes.TrimSuffix(d, []byte{carriageReturnByte})
}

// isNumericLike reports whether field has no byte outside digits, '-' and '.'.
// An empty field is numeric-like.
func isNumericLike(field []byte) bool {
	for _, b := range field {
		if (b < firstDigitChar || b > lastDigitChar) && b != minusChar && b != dotChar {
			return false
		}
	}
	return true
}
