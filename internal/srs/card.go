// Package srs implements the per-question spaced-repetition memory model:
// a simplified SM-2 scheduler, the persisted review state and the read-only
// views a practice session pulls from.
package srs

import "time"

const (
	// InitialEaseFactor is the ease factor of a card that has never been answered.
	InitialEaseFactor = 2.5
	// MinEaseFactor is the floor the ease factor is clamped to.
	MinEaseFactor = 1.3
	// MaxInterval caps the review interval, in days.
	MaxInterval = 36500
	// DefaultHistoryLimit bounds the review history log.
	DefaultHistoryLimit = 1000

	dayMillis = int64(24 * time.Hour / time.Millisecond)
)

// Timestamp is a point in time in milliseconds since the Unix epoch.
type Timestamp int64

// TimestampOf converts t to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts ts back to a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// ReviewCard holds the review state of a single question.
type ReviewCard struct {
	QuestionIndex       int       `json:"questionIndex"`
	EaseFactor          float64   `json:"easeFactor"`
	Interval            int       `json:"interval"` // days
	Repetitions         int       `json:"repetitions"`
	NextReviewDate      Timestamp `json:"nextReviewDate"`
	LastAnsweredCorrect bool      `json:"lastAnsweredCorrect"`
	LastReviewDate      Timestamp `json:"lastReviewDate"`
}

// IsDue reports whether the card is due at now.
func (c ReviewCard) IsDue(now time.Time) bool {
	return c.NextReviewDate <= TimestampOf(now)
}

// IsMastered reports whether the card has a streak of at least three
// successful answers and was answered correctly last time.
func (c ReviewCard) IsMastered() bool {
	return c.Repetitions >= 3 && c.LastAnsweredCorrect
}

// IsLearning reports whether the card has a streak of one or two successes.
func (c ReviewCard) IsLearning() bool {
	return c.Repetitions > 0 && c.Repetitions < 3
}

// ReviewHistoryEntry records one answer. Entries are never modified.
type ReviewHistoryEntry struct {
	QuestionIndex int       `json:"questionIndex"`
	Timestamp     Timestamp `json:"timestamp"`
	Correct       bool      `json:"correct"`
}

// Data is the whole persisted review state.
type Data struct {
	Cards         map[int]ReviewCard   `json:"cards"`
	ReviewHistory []ReviewHistoryEntry `json:"reviewHistory"`
}

// NewData returns an empty aggregate.
func NewData() Data {
	return Data{
		Cards:         map[int]ReviewCard{},
		ReviewHistory: []ReviewHistoryEntry{},
	}
}

func newCard(now time.Time) ReviewCard {
	ts := TimestampOf(now)
	return ReviewCard{
		EaseFactor:     InitialEaseFactor,
		NextReviewDate: ts,
		LastReviewDate: ts,
	}
}
