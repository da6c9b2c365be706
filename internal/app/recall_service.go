package app

import (
	"context"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/recall"
	"lingua-study-service/internal/textdiff"
)

// RecallService drives the flashcard drill: hand out the most overdue card,
// grade the answer, and persist the card's next state.
type RecallService struct {
	cards RecallCardRepository
}

func NewRecallService(cards RecallCardRepository) *RecallService {
	return &RecallService{cards: cards}
}

// RecallReview is the outcome of answering one recall card.
type RecallReview struct {
	Card       domain.RecallCard `json:"card"`
	Correct    bool              `json:"correct"`
	Similarity float64           `json:"similarity"`
}

// NextCard returns the user's most overdue card.
func (s *RecallService) NextCard(ctx context.Context, userID uuid.UUID) (domain.RecallCard, error) {
	return s.cards.GetMostOverdue(ctx, userID)
}

// SubmitAnswer grades an answer against the card and stores the card's next
// state. The prior card value is discarded; the returned review carries the
// updated one.
func (s *RecallService) SubmitAnswer(ctx context.Context, userID, cardID uuid.UUID, answerText string) (RecallReview, error) {
	card, err := s.cards.GetByIDAndUser(ctx, cardID, userID)
	if err != nil {
		return RecallReview{}, err
	}

	next := recall.Apply(card, answerText)
	if err := s.cards.UpdateAll(ctx, []domain.RecallCard{next}); err != nil {
		return RecallReview{}, err
	}
	return RecallReview{
		Card:       next,
		Correct:    next.CorrectPoint > card.CorrectPoint,
		Similarity: textdiff.Similarity(answerText, card.Answer),
	}, nil
}
