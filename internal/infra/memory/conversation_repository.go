package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/evaluation"
)

// ConversationRepository is an in-memory implementation of app.ConversationRepository.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]domain.Conversation
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[uuid.UUID]domain.Conversation),
	}
}

// GetAllByUser returns the user's conversations, highest display order first.
func (r *ConversationRepository) GetAllByUser(_ context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Conversation
	for _, conversation := range r.conversations {
		if conversation.OwnerID == userID {
			out = append(out, conversation)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Order > out[j].Order
	})
	return out, nil
}

func (r *ConversationRepository) Get(_ context.Context, conversationID, userID uuid.UUID) (domain.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conversation, ok := r.conversations[conversationID]
	if !ok || conversation.OwnerID != userID {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return conversation, nil
}

func (r *ConversationRepository) Create(_ context.Context, conversation domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conversation.ID] = conversation
	return nil
}

// TestResultRepository is an in-memory implementation of app.TestResultRepository.
type TestResultRepository struct {
	mu      sync.RWMutex
	results map[uuid.UUID][]evaluation.TestResult
}

func NewTestResultRepository() *TestResultRepository {
	return &TestResultRepository{
		results: make(map[uuid.UUID][]evaluation.TestResult),
	}
}

func (r *TestResultRepository) Latest(_ context.Context, conversationID uuid.UUID) (evaluation.TestResult, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := r.results[conversationID]
	if len(results) == 0 {
		return evaluation.TestResult{}, false, nil
	}
	latest := results[0]
	for _, result := range results[1:] {
		if result.TestNumber > latest.TestNumber {
			latest = result
		}
	}
	return latest, true, nil
}

func (r *TestResultRepository) Save(_ context.Context, result evaluation.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.ConversationID] = append(r.results[result.ConversationID], result)
	return nil
}
