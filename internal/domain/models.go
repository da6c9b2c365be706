package domain

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty grades how hard a quiz is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Quiz is a free-text question with a model answer. Read-only input to the engine.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Question    string     `json:"question"`
	ModelAnswer string     `json:"modelAnswer"`
	QuizTypeID  uuid.UUID  `json:"quizTypeId"`
	Difficulty  Difficulty `json:"difficulty"`
}

// QuizType is a category quizzes are grouped under.
type QuizType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// AIEvaluation is the graded feedback attached to a user answer.
type AIEvaluation struct {
	Score       int    `json:"score"`
	Feedback    string `json:"feedback"`
	ModelAnswer string `json:"modelAnswer"`
}

// UserAnswer is one recorded free-text answer to a quiz.
type UserAnswer struct {
	ID         uuid.UUID    `json:"id"`
	OwnerID    uuid.UUID    `json:"ownerId"`
	QuizID     uuid.UUID    `json:"quizId"`
	AnswerText string       `json:"answerText"`
	Evaluation AIEvaluation `json:"evaluation"`
	AnsweredAt time.Time    `json:"answeredAt"`
}

// ReviewSchedule records when a quiz is next due for a user.
// One per (owner, quiz) pair; the deadline is recomputed, never appended.
type ReviewSchedule struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"ownerId"`
	QuizID         uuid.UUID `json:"quizId"`
	ReviewDeadline time.Time `json:"reviewDeadline"`
}

// RecallCard is a question/answer flashcard with its own exponential-backoff
// review deadline. Treated as an immutable value: every state change returns
// a new card with the identity fields (ID, OwnerID, Question, Answer) intact.
type RecallCard struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"ownerId"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	CorrectPoint   int       `json:"correctPoint"`
	ReviewDeadline time.Time `json:"reviewDeadline"`
}

// Message is one line of a reference conversation.
type Message struct {
	ConversationID uuid.UUID `json:"conversationId"`
	Order          int       `json:"order"` // 1-based position within the conversation
	Speaker        int       `json:"speaker"`
	Text           string    `json:"text"`        // line in the studied language
	Translation    string    `json:"translation"` // line in the learner's native language
	CreatedAt      time.Time `json:"createdAt"`
}

// Conversation is a reference dialogue a learner practices against.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// GeneratedLine is one line pair produced by the conversation generator.
type GeneratedLine struct {
	Text        string `json:"text"`
	Translation string `json:"translation"`
}

// GeneratedConversation is the structured output of the AI collaborator.
type GeneratedConversation struct {
	Title string          `json:"title"`
	Lines []GeneratedLine `json:"lines"`
}
