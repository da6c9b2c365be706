package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
)

// UserAnswerRepository is an in-memory implementation of app.UserAnswerRepository.
type UserAnswerRepository struct {
	mu      sync.RWMutex
	answers []domain.UserAnswer
}

func NewUserAnswerRepository() *UserAnswerRepository {
	return &UserAnswerRepository{}
}

func (r *UserAnswerRepository) GetAllByUser(_ context.Context, userID uuid.UUID) ([]domain.UserAnswer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.UserAnswer
	for _, answer := range r.answers {
		if answer.OwnerID == userID {
			out = append(out, answer)
		}
	}
	sortByAnsweredAt(out)
	return out, nil
}

func (r *UserAnswerRepository) GetAllByUserAndQuiz(_ context.Context, userID, quizID uuid.UUID) ([]domain.UserAnswer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.UserAnswer
	for _, answer := range r.answers {
		if answer.OwnerID == userID && answer.QuizID == quizID {
			out = append(out, answer)
		}
	}
	sortByAnsweredAt(out)
	return out, nil
}

func (r *UserAnswerRepository) Create(_ context.Context, answer domain.UserAnswer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, answer)
	return nil
}

// sortByAnsweredAt orders oldest first, the order score histories are consumed in.
func sortByAnsweredAt(answers []domain.UserAnswer) {
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].AnsweredAt.Before(answers[j].AnsweredAt)
	})
}
