package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
)

// RecallCardRepository is an in-memory implementation of app.RecallCardRepository.
type RecallCardRepository struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]domain.RecallCard
}

func NewRecallCardRepository() *RecallCardRepository {
	return &RecallCardRepository{
		cards: make(map[uuid.UUID]domain.RecallCard),
	}
}

func (r *RecallCardRepository) GetAllByUser(_ context.Context, userID uuid.UUID) ([]domain.RecallCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.RecallCard
	for _, card := range r.cards {
		if card.OwnerID == userID {
			out = append(out, card)
		}
	}
	return out, nil
}

func (r *RecallCardRepository) GetByIDAndUser(_ context.Context, cardID, userID uuid.UUID) (domain.RecallCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	card, ok := r.cards[cardID]
	if !ok || card.OwnerID != userID {
		return domain.RecallCard{}, domain.ErrRecallCardNotFound
	}
	return card, nil
}

// GetMostOverdue returns the user's card with the earliest review deadline.
func (r *RecallCardRepository) GetMostOverdue(_ context.Context, userID uuid.UUID) (domain.RecallCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var (
		best  domain.RecallCard
		found bool
	)
	for _, card := range r.cards {
		if card.OwnerID != userID {
			continue
		}
		if !found || card.ReviewDeadline.Before(best.ReviewDeadline) {
			best = card
			found = true
		}
	}
	if !found {
		return domain.RecallCard{}, domain.ErrRecallCardNotFound
	}
	return best, nil
}

// CreateAll stores the batch as a unit; the map insert cannot partially fail.
func (r *RecallCardRepository) CreateAll(_ context.Context, cards []domain.RecallCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, card := range cards {
		r.cards[card.ID] = card
	}
	return nil
}

func (r *RecallCardRepository) UpdateAll(_ context.Context, cards []domain.RecallCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, card := range cards {
		if _, ok := r.cards[card.ID]; !ok {
			return domain.ErrRecallCardNotFound
		}
	}
	for _, card := range cards {
		r.cards[card.ID] = card
	}
	return nil
}
