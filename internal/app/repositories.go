package app

import (
	"context"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/evaluation"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Quiz, error)
	GetAll(ctx context.Context) ([]domain.Quiz, error)
	GetAllByType(ctx context.Context, quizTypeID uuid.UUID) ([]domain.Quiz, error)
}

// QuizTypeRepository lists the quiz categories.
type QuizTypeRepository interface {
	GetAll(ctx context.Context) ([]domain.QuizType, error)
}

// UserAnswerRepository stores graded quiz answers. GetAllByUserAndQuiz
// returns answers ordered oldest first, which is the order the review
// scheduler consumes score histories in.
type UserAnswerRepository interface {
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAnswer, error)
	GetAllByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]domain.UserAnswer, error)
	Create(ctx context.Context, answer domain.UserAnswer) error
}

// ReviewScheduleRepository stores one schedule per (owner, quiz) pair.
// Get returns domain.ErrScheduleNotFound when no schedule exists yet.
type ReviewScheduleRepository interface {
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.ReviewSchedule, error)
	Get(ctx context.Context, userID, quizID uuid.UUID) (domain.ReviewSchedule, error)
	Create(ctx context.Context, schedule domain.ReviewSchedule) error
	Update(ctx context.Context, schedule domain.ReviewSchedule) error
}

// RecallCardRepository stores recall flashcards. CreateAll and UpdateAll are
// applied atomically so a partial failure never leaves a mix of updated and
// stale cards.
type RecallCardRepository interface {
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.RecallCard, error)
	GetByIDAndUser(ctx context.Context, cardID, userID uuid.UUID) (domain.RecallCard, error)
	GetMostOverdue(ctx context.Context, userID uuid.UUID) (domain.RecallCard, error)
	CreateAll(ctx context.Context, cards []domain.RecallCard) error
	UpdateAll(ctx context.Context, cards []domain.RecallCard) error
}

// ConversationRepository stores reference conversations. GetAllByUser returns
// conversations ordered by their display order, newest ordering first.
type ConversationRepository interface {
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	Get(ctx context.Context, conversationID, userID uuid.UUID) (domain.Conversation, error)
	Create(ctx context.Context, conversation domain.Conversation) error
}

// TestResultRepository persists graded test submissions per conversation.
type TestResultRepository interface {
	// Latest returns the most recent result for the conversation; ok is
	// false when the conversation has never been tested.
	Latest(ctx context.Context, conversationID uuid.UUID) (result evaluation.TestResult, ok bool, err error)
	Save(ctx context.Context, result evaluation.TestResult) error
}

// ConversationGenerator is the AI collaborator that produces example
// conversations. Its output is treated as plain structured text.
type ConversationGenerator interface {
	Generate(ctx context.Context, userPhrase string) (domain.GeneratedConversation, error)
}

// AnswerEvaluator is the AI collaborator that grades a free-form quiz answer.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, question, modelAnswer, userAnswer string) (domain.AIEvaluation, error)
}
