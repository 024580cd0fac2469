package srs

// Quality rates how well a question was recalled, from 0 (blackout) to 5
// (perfect). Answers below QualityPass count as failures.
type Quality int

const (
	QualityBlackout  Quality = 0
	QualityIncorrect Quality = 1
	QualityFamiliar  Quality = 2
	QualityPass      Quality = 3
	QualityCorrect   Quality = 4
	QualityPerfect   Quality = 5
)

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= QualityPass
}

// QualityFromCorrectness maps a right/wrong answer onto the quality scale.
// Only 1, 3 and 4 are produced here; the scheduler accepts the full range.
func QualityFromCorrectness(correct, hesitation bool) Quality {
	switch {
	case !correct:
		return QualityIncorrect
	case hesitation:
		return QualityPass
	default:
		return QualityCorrect
	}
}
