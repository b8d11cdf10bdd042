package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 100.0, Similarity("Tidal Wave", "tidal wave"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Xyz", "xyz"},
		{"tidel wave", "Tidal Wave"},
		{"bloodbath", "Bloodlust"},
		{"a", "abcdef"},
		{"Überwelt", "uberwelt"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity_OneSubstitutionCostsTwo(t *testing.T) {
	// 20 characters total, distance 2
	assert.InDelta(t, 90.0, Similarity("tidel wave", "tidal wave"), 1e-9)
}

func TestSimilarity_CountsRunesNotBytes(t *testing.T) {
	// 6 runes total, distance 2
	assert.InDelta(t, 200.0/3, Similarity("äbc", "abc"), 1e-9)
	assert.Equal(t, 100.0, Similarity("Ärger Über", "ärger über"))
}

func TestSimilarity_LargeAlphabet(t *testing.T) {
	var sb strings.Builder
	for r := rune(0x4E00); r < 0x4E00+300; r++ {
		sb.WriteRune(r)
	}
	long := sb.String()
	short := string([]rune(long)[:299])

	assert.Equal(t, 100.0, Similarity(long, long))
	assert.InDelta(t, 100*598.0/599, Similarity(long, short), 1e-9)
}

func TestRatio_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 95, Ratio("tidal wave!", "Tidal Wave"))
	// 3 characters total, distance 1: 66.67
	assert.Equal(t, 67, Ratio("ab", "a"))
	// 4 characters total, distance 2: 50
	assert.Equal(t, 50, Ratio("ab", "ac"))
}

func TestIsMatch_CaseFolding(t *testing.T) {
	assert.True(t, IsMatch("Xyz", "xyz"))
	assert.True(t, IsMatch("xyz", "Xyz"))
	assert.Equal(t, IsMatch("XYZ", "xyz"), IsMatch("xyz", "XYZ"))
}

func TestIsMatch_RejectsAtRoundedBoundary(t *testing.T) {
	// 21 characters total, distance 1: 95.24 rounds to 95
	assert.InDelta(t, 95.238, Similarity("tidal wave!", "Tidal Wave"), 1e-3)
	assert.False(t, IsMatch("tidal wave!", "Tidal Wave"))
}

func TestIsMatch_TrailingPunctuationOnLongName(t *testing.T) {
	// 53 characters total, distance 1: 98.1
	assert.True(t, IsMatch("the nightmare of bloodbath!", "The Nightmare of Bloodbath"))
}

func TestIsMatch_WhitespaceIsNotTrimmed(t *testing.T) {
	assert.False(t, IsMatch("  tidal wave ", "Tidal Wave"))
	assert.True(t, IsMatch("the nightmare of bloodbath ", "The Nightmare of Bloodbath"))
}

func TestIsMatch_LongSecretToleratesTypo(t *testing.T) {
	assert.True(t, IsMatch("the nightmare of bloodbath", "The Nightmare of Bloodbathh"))
}

func TestIsMatch_RejectsUnrelated(t *testing.T) {
	assert.False(t, IsMatch("hello", "Tidal Wave"))
	assert.False(t, IsMatch("tidal", "Tidal Wave"))
}

func TestIsMatch_RejectsSingleSubstitutionOnShortName(t *testing.T) {
	assert.False(t, IsMatch("tidel wave", "Tidal Wave"))
}

func TestIsMatch_EmptyCandidate(t *testing.T) {
	assert.False(t, IsMatch("", "Tidal Wave"))
	assert.False(t, IsMatch("   ", ""))
}
