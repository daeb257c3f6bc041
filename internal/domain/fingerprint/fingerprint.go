// Package fingerprint turns raw text into sparse term-frequency vectors and
// scores them against each other with cosine similarity.
package fingerprint

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CJK Unified Ideographs range kept verbatim by the tokenizer.
const (
	cjkFirst = '一'
	cjkLast  = '龥'
)

// Whitespace differs from unicode.IsSpace for two runes: a byte order mark
// separates tokens, NEL is stripped like punctuation.
const (
	zeroWidthNoBreak = '\uFEFF'
	nextLine         = '\u0085'
)

// Fingerprint maps a normalized token to its occurrence count.
type Fingerprint map[string]int

// Generate builds the fingerprint of text.
// The text is lowercased, every rune that is not a CJK ideograph, an ASCII word
// character or whitespace is dropped, and the remainder is split on whitespace.
// Tokens shorter than two runes are discarded.
func Generate(text string) Fingerprint {
	// cases.Caser is stateful, one per call.
	lower := cases.Lower(language.Und).String(text)

	fp := make(Fingerprint)
	for _, tok := range strings.Fields(strings.Map(keepRune, lower)) {
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		fp[tok]++
	}
	return fp
}

func keepRune(r rune) rune {
	switch {
	case r >= cjkFirst && r <= cjkLast:
		return r
	case isASCIIWord(r):
		return r
	case r == zeroWidthNoBreak:
		return ' '
	case r == nextLine:
		return -1
	case unicode.IsSpace(r):
		return r
	default:
		return -1
	}
}

func isASCIIWord(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// Similarity returns the cosine similarity of a and b in [0, 1].
// Disjoint vocabularies (including an empty side) score 0.
func Similarity(a, b Fingerprint) float64 {
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}

	var dot float64
	shared := 0
	for tok, n := range small {
		if m, ok := large[tok]; ok {
			dot += float64(n) * float64(m)
			shared++
		}
	}
	if shared == 0 {
		return 0
	}

	score := dot / math.Sqrt(a.sumSquares()*b.sumSquares())
	if score > 1 {
		return 1
	}
	return score
}

func (f Fingerprint) sumSquares() float64 {
	var sum float64
	for _, n := range f {
		sum += float64(n) * float64(n)
	}
	return sum
}

// Clone returns an independent copy of f.
func (f Fingerprint) Clone() Fingerprint {
	if f == nil {
		return nil
	}
	c := make(Fingerprint, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// Equal reports whether f and other hold the same tokens and counts.
func (f Fingerprint) Equal(other Fingerprint) bool {
	if len(f) != len(other) {
		return false
	}
	for k, v := range f {
		if w, ok := other[k]; !ok || w != v {
			return false
		}
	}
	return true
}
