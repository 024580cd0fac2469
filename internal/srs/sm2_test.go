package srs

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestCalculateNextReviewFirstExposure(t *testing.T) {
	card := CalculateNextReview(nil, QualityCorrect, epoch)

	assert.Equal(t, 0, card.QuestionIndex)
	assert.Equal(t, 1, card.Interval)
	assert.Equal(t, 1, card.Repetitions)
	assert.InDelta(t, InitialEaseFactor, card.EaseFactor, 1e-9)
	assert.True(t, card.LastAnsweredCorrect)
	assert.Equal(t, TimestampOf(epoch), card.LastReviewDate)
	assert.Equal(t, TimestampOf(epoch.Add(24*time.Hour)), card.NextReviewDate)
}

func TestCalculateNextReviewSuccessStreak(t *testing.T) {
	var card *ReviewCard
	now := epoch
	var intervals, reps []int
	for i := 0; i < 3; i++ {
		next := CalculateNextReview(card, QualityCorrect, now)
		intervals = append(intervals, next.Interval)
		reps = append(reps, next.Repetitions)
		card = &next
		now = next.NextReviewDate.Time()
	}

	assert.Equal(t, []int{1, 6, int(math.Round(6 * InitialEaseFactor))}, intervals)
	assert.Equal(t, []int{1, 2, 3}, reps)
}

func TestCalculateNextReviewFailureResetsStreak(t *testing.T) {
	card := ReviewCard{
		QuestionIndex:       7,
		EaseFactor:          2.8,
		Interval:            42,
		Repetitions:         6,
		LastAnsweredCorrect: true,
	}

	next := CalculateNextReview(&card, QualityIncorrect, epoch)

	assert.Equal(t, 7, next.QuestionIndex)
	assert.Equal(t, 0, next.Repetitions)
	assert.Equal(t, 1, next.Interval)
	assert.False(t, next.LastAnsweredCorrect)
	assert.InDelta(t, 2.8-0.54, next.EaseFactor, 1e-9)
	assert.Equal(t, TimestampOf(epoch)+Timestamp(dayMillis), next.NextReviewDate)

	assert.Equal(t, 6, card.Repetitions, "input card must not be modified")
}

func TestCalculateNextReviewEaseFloor(t *testing.T) {
	var card *ReviewCard
	for i := 0; i < 20; i++ {
		next := CalculateNextReview(card, QualityBlackout, epoch)
		require.GreaterOrEqual(t, next.EaseFactor, MinEaseFactor)
		require.Equal(t, 1, next.Interval)
		require.Equal(t, 0, next.Repetitions)
		card = &next
	}
	assert.Equal(t, MinEaseFactor, card.EaseFactor)
}

func TestCalculateNextReviewEaseAdjustment(t *testing.T) {
	testCases := []struct {
		quality Quality
		want    float64
	}{
		{QualityBlackout, 1.7},
		{QualityIncorrect, 1.96},
		{QualityFamiliar, 2.18},
		{QualityPass, 2.36},
		{QualityCorrect, 2.5},
		{QualityPerfect, 2.6},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("quality %d", tc.quality), func(t *testing.T) {
			card := CalculateNextReview(nil, tc.quality, epoch)
			assert.InDelta(t, tc.want, card.EaseFactor, 1e-9)
			assert.Equal(t, tc.quality.Passed(), card.LastAnsweredCorrect)
		})
	}
}

func TestCalculateNextReviewEaseNeverBelowFloor(t *testing.T) {
	for q := QualityBlackout; q <= QualityPerfect; q++ {
		card := ReviewCard{EaseFactor: MinEaseFactor, Interval: 10, Repetitions: 4}
		next := CalculateNextReview(&card, q, epoch)
		assert.GreaterOrEqual(t, next.EaseFactor, MinEaseFactor, "quality %d", q)
	}
}

func TestCalculateNextReviewUsesPriorEaseForInterval(t *testing.T) {
	card := ReviewCard{EaseFactor: 2.0, Interval: 10, Repetitions: 3}

	next := CalculateNextReview(&card, QualityPass, epoch)

	assert.Equal(t, 20, next.Interval)
	assert.Equal(t, 4, next.Repetitions)
	assert.InDelta(t, 1.86, next.EaseFactor, 1e-9)
}

func TestCalculateNextReviewIntervalIsCapped(t *testing.T) {
	var card *ReviewCard
	for i := 1; i <= 40; i++ {
		next := CalculateNextReview(card, QualityPerfect, epoch)
		require.Greater(t, next.NextReviewDate, TimestampOf(epoch), "answer %d", i)
		require.LessOrEqual(t, next.Interval, MaxInterval, "answer %d", i)
		require.False(t, next.IsDue(epoch), "answer %d", i)
		card = &next
	}
	assert.Equal(t, MaxInterval, card.Interval)
	assert.Equal(t, TimestampOf(epoch)+Timestamp(int64(MaxInterval)*dayMillis), card.NextReviewDate)
}

func TestGrowInterval(t *testing.T) {
	testCases := []struct {
		name     string
		interval int
		ease     float64
		want     int
	}{
		{"grows", 6, 2.5, 15},
		{"rounds", 7, 1.3, 9},
		{"zero ease", 10, 0, 1},
		{"zero interval", 0, 2.5, 1},
		{"clamped", 30000, 2.5, MaxInterval},
		{"huge", math.MaxInt, 2.5, MaxInterval},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, growInterval(tc.interval, tc.ease))
		})
	}
}
