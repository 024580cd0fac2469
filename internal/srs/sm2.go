package srs

import (
	"math"
	"time"
)

// CalculateNextReview applies one answer of the given quality to card and
// returns the updated card. A nil card is a first exposure and starts from
// the defaults; its QuestionIndex is left for the caller to set.
//
// EF' = max(1.3, EF + (0.1 - (5-q) * (0.08 + (5-q)*0.02)))
//
// Intervals never exceed MaxInterval days.
func CalculateNextReview(card *ReviewCard, quality Quality, now time.Time) ReviewCard {
	next := newCard(now)
	if card != nil {
		next = *card
	}

	if quality.Passed() {
		switch next.Repetitions {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 6
		default:
			next.Interval = growInterval(next.Interval, next.EaseFactor)
		}
		next.Repetitions++
	} else {
		next.Repetitions = 0
		next.Interval = 1
	}

	q := float64(5 - quality)
	next.EaseFactor = math.Max(MinEaseFactor, next.EaseFactor+(0.1-q*(0.08+q*0.02)))

	ts := TimestampOf(now)
	next.NextReviewDate = ts + Timestamp(int64(next.Interval)*dayMillis)
	next.LastAnsweredCorrect = quality.Passed()
	next.LastReviewDate = ts

	return next
}

// growInterval multiplies interval by ease, clamped to [1, MaxInterval]
// before converting back to an int.
func growInterval(interval int, ease float64) int {
	days := math.Round(float64(interval) * ease)
	switch {
	case math.IsNaN(days) || days < 1:
		return 1
	case days > MaxInterval:
		return MaxInterval
	default:
		return int(days)
	}
}
