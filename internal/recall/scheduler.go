// Package recall implements the per-card exponential-backoff schedule for
// recall flashcards.
package recall

import (
	"math"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/textdiff"
)

const (
	// deadlineCoefficient is the exponent applied to the correct-point count
	// when pushing the review deadline out after a correct answer.
	deadlineCoefficient = 3.2
	// correctPointPenalty is subtracted from the correct-point count on a miss.
	correctPointPenalty = 5
	// correctThreshold is the similarity at or above which an answer counts
	// as correct.
	correctThreshold = 90
)

// Apply grades userAnswer against the card's answer and returns the card's
// next state. The input card is never mutated.
func Apply(card domain.RecallCard, userAnswer string) domain.RecallCard {
	if textdiff.Similarity(userAnswer, card.Answer) >= correctThreshold {
		return applyCorrect(card)
	}
	return applyIncorrect(card)
}

// applyCorrect increments the correct-point count and pushes the deadline out
// by point^3.2 minutes, so successive correct answers compound super-linearly.
func applyCorrect(card domain.RecallCard) domain.RecallCard {
	next := card
	next.CorrectPoint = card.CorrectPoint + 1
	backoff := math.Pow(float64(next.CorrectPoint), deadlineCoefficient)
	next.ReviewDeadline = card.ReviewDeadline.Add(time.Duration(backoff * float64(time.Minute)))
	return next
}

// applyIncorrect docks the correct-point count, flooring at zero, and leaves
// the deadline alone.
func applyIncorrect(card domain.RecallCard) domain.RecallCard {
	next := card
	next.CorrectPoint = card.CorrectPoint - correctPointPenalty
	if next.CorrectPoint < 0 {
		next.CorrectPoint = 0
	}
	return next
}

// NewCards builds one fresh card per generated conversation line. The learner
// is prompted with the native-language line and recalls the studied-language
// one. New cards are immediately due.
func NewCards(ownerID uuid.UUID, lines []domain.GeneratedLine, now time.Time) []domain.RecallCard {
	cards := make([]domain.RecallCard, 0, len(lines))
	for _, line := range lines {
		cards = append(cards, domain.RecallCard{
			ID:             uuid.New(),
			OwnerID:        ownerID,
			Question:       line.Translation,
			Answer:         line.Text,
			CorrectPoint:   0,
			ReviewDeadline: now,
		})
	}
	return cards
}
