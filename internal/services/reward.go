package services

const (
	DefaultMinBasePoints = 3
	DefaultMaxBasePoints = 8
	// multiplier step of 0.30 expressed in tenths
	multiplierStepTenths = 3
)

// Multiplier is 1 + 0.30 * streakIndex.
func Multiplier(streakIndex int) float64 {
	return 1 + float64(multiplierStepTenths*streakIndex)/10
}

// FinalPoints is floor(base * Multiplier(streakIndex)), computed in integers
// so that float rounding never shaves a point off.
func FinalPoints(base, streakIndex int) int {
	if base <= 0 || streakIndex < 0 {
		return max(base, 0)
	}
	return base * (10 + multiplierStepTenths*streakIndex) / 10
}
