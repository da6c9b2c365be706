package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/evaluation"
	"lingua-study-service/internal/recall"
	"lingua-study-service/internal/textdiff"
)

// PracticeService contains the conversation-track use cases: registering
// AI-generated conversations and grading recall tests against them.
type PracticeService struct {
	conversations ConversationRepository
	results       TestResultRepository
	cards         RecallCardRepository
	generator     ConversationGenerator
	now           func() time.Time
}

func NewPracticeService(conversations ConversationRepository, results TestResultRepository, cards RecallCardRepository, generator ConversationGenerator) *PracticeService {
	return NewPracticeServiceWithClock(conversations, results, cards, generator, time.Now)
}

// NewPracticeServiceWithClock allows deterministic timestamps in tests.
func NewPracticeServiceWithClock(conversations ConversationRepository, results TestResultRepository, cards RecallCardRepository, generator ConversationGenerator, now func() time.Time) *PracticeService {
	return &PracticeService{
		conversations: conversations,
		results:       results,
		cards:         cards,
		generator:     generator,
		now:           now,
	}
}

// RegisterConversation asks the generator for a conversation around the
// user's phrase, stores it, and seeds one recall card per line. New cards
// start at zero points and are immediately due.
func (s *PracticeService) RegisterConversation(ctx context.Context, userID uuid.UUID, userPhrase string) (domain.Conversation, error) {
	existing, err := s.conversations.GetAllByUser(ctx, userID)
	if err != nil {
		return domain.Conversation{}, err
	}
	order := 0
	if len(existing) > 0 {
		order = existing[0].Order + 1
	}

	generated, err := s.generator.Generate(ctx, userPhrase)
	if err != nil {
		return domain.Conversation{}, err
	}

	now := s.now()
	conversation := domain.Conversation{
		ID:        uuid.New(),
		OwnerID:   userID,
		Title:     generated.Title,
		Order:     order,
		CreatedAt: now,
	}
	for i, line := range generated.Lines {
		conversation.Messages = append(conversation.Messages, domain.Message{
			ConversationID: conversation.ID,
			Order:          i + 1,
			Speaker:        i % 2,
			Text:           line.Text,
			Translation:    line.Translation,
			CreatedAt:      now,
		})
	}

	if err := s.conversations.Create(ctx, conversation); err != nil {
		return domain.Conversation{}, err
	}
	if err := s.cards.CreateAll(ctx, recall.NewCards(userID, generated.Lines, now)); err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

// Conversations lists the user's conversations, display order first.
func (s *PracticeService) Conversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	return s.conversations.GetAllByUser(ctx, userID)
}

// Conversation loads one conversation with its messages.
func (s *PracticeService) Conversation(ctx context.Context, conversationID, userID uuid.UUID) (domain.Conversation, error) {
	return s.conversations.Get(ctx, conversationID, userID)
}

// MessageTestResult is the per-message view of a graded test, with the user
// and reference lines annotated for display.
type MessageTestResult struct {
	Order         int      `json:"order"`
	UserAnswer    string   `json:"userAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
	Score         float64  `json:"score"`
	LastScore     *float64 `json:"lastScore,omitempty"`
}

// TestSummary is the outcome of one recall test submission.
type TestSummary struct {
	OverallScore     int                 `json:"overallScore"`
	IsPassing        bool                `json:"isPassing"`
	LastOverallScore *int                `json:"lastOverallScore,omitempty"`
	Results          []MessageTestResult `json:"results"`
}

// SubmitTest grades one test submission against the referenced conversation
// and persists the result. answers must carry exactly one entry per
// conversation message, in message order; a mismatch is rejected with
// domain.ErrAnswerCountMismatch before anything is graded.
func (s *PracticeService) SubmitTest(ctx context.Context, userID, conversationID uuid.UUID, answers []string) (TestSummary, error) {
	conversation, err := s.conversations.Get(ctx, conversationID, userID)
	if err != nil {
		return TestSummary{}, err
	}
	if len(conversation.Messages) != len(answers) {
		return TestSummary{}, domain.ErrAnswerCountMismatch
	}

	last, hasLast, err := s.results.Latest(ctx, conversationID)
	if err != nil {
		return TestSummary{}, err
	}
	testNumber := 1
	if hasLast {
		testNumber = last.TestNumber + 1
	}

	pairs := make([]evaluation.AnswerPair, 0, len(conversation.Messages))
	for _, message := range conversation.Messages {
		pairs = append(pairs, evaluation.AnswerPair{
			Order:         message.Order,
			UserAnswer:    answers[message.Order-1],
			CorrectAnswer: message.Text,
		})
	}

	result, err := evaluation.New(conversationID, testNumber, pairs, s.now())
	if err != nil {
		return TestSummary{}, err
	}
	if err := s.results.Save(ctx, result); err != nil {
		return TestSummary{}, err
	}

	summary := TestSummary{
		OverallScore: result.OverallScore(),
		IsPassing:    result.IsPassing(),
	}
	if hasLast {
		lastOverall := last.OverallScore()
		summary.LastOverallScore = &lastOverall
	}
	for _, score := range result.Scores {
		userTokens := textdiff.Tokenize(score.UserAnswer)
		correctTokens := textdiff.Tokenize(score.CorrectAnswer)
		markedUser, markedCorrect := textdiff.Annotate(textdiff.Opcodes(userTokens, correctTokens), userTokens, correctTokens)

		item := MessageTestResult{
			Order:         score.Order,
			UserAnswer:    markedUser,
			CorrectAnswer: markedCorrect,
			IsCorrect:     score.IsCorrect,
			Score:         score.Score,
		}
		if hasLast && score.Order-1 < len(last.Scores) {
			lastScore := last.Scores[score.Order-1].Score
			item.LastScore = &lastScore
		}
		summary.Results = append(summary.Results, item)
	}
	return summary, nil
}
