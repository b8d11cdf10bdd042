// Package matcher decides whether a free-text guess names the secret.
package matcher

import (
	"math"
	"strings"

	"github.com/xrash/smetrics"
)

// Threshold is the rounded similarity a guess has to exceed to be accepted.
const Threshold = 95

// Similarity returns a 0..100 score for two strings after case folding.
// The distance counts insertions and deletions of runes only (a substitution
// costs two), normalized by the combined length, so the score is symmetric
// and comparable across strings of different lengths. Whitespace counts like
// any other character.
func Similarity(a, b string) float64 {
	ra := []rune(fold(a))
	rb := []rune(fold(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 100 * float64(total-distance(ra, rb)) / float64(total)
}

// Ratio is Similarity rounded half away from zero.
func Ratio(a, b string) int {
	return int(math.Round(Similarity(a, b)))
}

// IsMatch reports whether candidate is close enough to secret.
func IsMatch(candidate, secret string) bool {
	if candidate == "" {
		return false
	}
	return Ratio(candidate, secret) > Threshold
}

func fold(s string) string {
	return strings.ToLower(s)
}

// distance is the indel distance between two rune slices. Runes are mapped
// onto one byte each so smetrics compares whole characters; alphabets too
// large for that take the slice path.
func distance(a, b []rune) int {
	symbols := make(map[rune]byte, 64)
	for _, r := range append(append(make([]rune, 0, len(a)+len(b)), a...), b...) {
		if _, ok := symbols[r]; ok {
			continue
		}
		if len(symbols) > math.MaxUint8 {
			return runeDistance(a, b)
		}
		symbols[r] = byte(len(symbols))
	}
	return smetrics.WagnerFischer(encode(a, symbols), encode(b, symbols), 1, 1, 2)
}

func encode(rs []rune, symbols map[rune]byte) string {
	buf := make([]byte, len(rs))
	for i, r := range rs {
		buf[i] = symbols[r]
	}
	return string(buf)
}

func runeDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1]
			} else {
				cur[j] = min(prev[j], cur[j-1]) + 1
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
