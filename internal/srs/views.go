package srs

import (
	"cmp"
	"slices"
	"time"
)

// Stats summarises an aggregate. Mastered and Learning are disjoint;
// Struggling and DueNow overlap with both.
type Stats struct {
	TotalReviewed int `json:"totalReviewed"`
	Mastered      int `json:"mastered"`
	Learning      int `json:"learning"`
	Struggling    int `json:"struggling"`
	DueNow        int `json:"dueNow"`
}

// cards returns the cards of data ordered by question index, the base order
// every view sorts stably on top of.
func cards(data Data) []ReviewCard {
	out := make([]ReviewCard, 0, len(data.Cards))
	for _, c := range data.Cards {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b ReviewCard) int {
		return cmp.Compare(a.QuestionIndex, b.QuestionIndex)
	})
	return out
}

// DueCards returns the cards due at now, soonest due first.
func DueCards(data Data, now time.Time) []ReviewCard {
	due := slices.DeleteFunc(cards(data), func(c ReviewCard) bool {
		return !c.IsDue(now)
	})
	slices.SortStableFunc(due, func(a, b ReviewCard) int {
		return cmp.Compare(a.NextReviewDate, b.NextReviewDate)
	})
	return due
}

// FailedCards returns the cards whose last answer was wrong, most recently
// failed first.
func FailedCards(data Data) []ReviewCard {
	failed := slices.DeleteFunc(cards(data), func(c ReviewCard) bool {
		return c.LastAnsweredCorrect
	})
	slices.SortStableFunc(failed, func(a, b ReviewCard) int {
		return cmp.Compare(b.LastReviewDate, a.LastReviewDate)
	})
	return failed
}

// CardsNeedingReview returns the practice queue: every failed card and every
// due card, failed ones first, then by next review date.
func CardsNeedingReview(data Data, now time.Time) []ReviewCard {
	queue := slices.DeleteFunc(cards(data), func(c ReviewCard) bool {
		return c.LastAnsweredCorrect && !c.IsDue(now)
	})
	slices.SortStableFunc(queue, func(a, b ReviewCard) int {
		if a.LastAnsweredCorrect != b.LastAnsweredCorrect {
			if !a.LastAnsweredCorrect {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.NextReviewDate, b.NextReviewDate)
	})
	return queue
}

// ComputeStats counts the cards of data by learning state.
func ComputeStats(data Data, now time.Time) Stats {
	stats := Stats{TotalReviewed: len(data.Cards)}
	for _, c := range data.Cards {
		if c.IsMastered() {
			stats.Mastered++
		}
		if c.IsLearning() {
			stats.Learning++
		}
		if !c.LastAnsweredCorrect {
			stats.Struggling++
		}
		if c.IsDue(now) {
			stats.DueNow++
		}
	}
	return stats
}
