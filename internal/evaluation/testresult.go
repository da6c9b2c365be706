// Package evaluation aggregates per-message similarity scores for one test
// submission into an overall result and pass/fail verdict.
package evaluation

import (
	"math"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/textdiff"
)

const (
	// CorrectThreshold marks a single message correct.
	CorrectThreshold = 90
	// PassingThreshold marks a whole submission as passing.
	PassingThreshold = 80
)

// MessageScore is the graded outcome for one message of a submission.
type MessageScore struct {
	Order         int     `json:"order"` // 1-based, matches the conversation's message ordering
	Score         float64 `json:"score"`
	IsCorrect     bool    `json:"isCorrect"`
	UserAnswer    string  `json:"userAnswer"`
	CorrectAnswer string  `json:"correctAnswer"`
}

// AnswerPair is one (user answer, reference answer) input to the factory.
type AnswerPair struct {
	Order         int
	UserAnswer    string
	CorrectAnswer string
}

// TestResult is the immutable record of one graded test submission.
// A resubmission creates a new TestResult with TestNumber+1.
type TestResult struct {
	ConversationID uuid.UUID      `json:"conversationId"`
	TestNumber     int            `json:"testNumber"`
	Scores         []MessageScore `json:"scores"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// NewMessageScore grades a single answer against its reference text.
func NewMessageScore(order int, userAnswer, correctAnswer string) MessageScore {
	score := textdiff.Similarity(userAnswer, correctAnswer)
	return MessageScore{
		Order:         order,
		Score:         score,
		IsCorrect:     score >= CorrectThreshold,
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
	}
}

// New grades a batch of answers into a TestResult, preserving input order.
// An empty batch is rejected with domain.ErrNoAnswers before any scoring.
func New(conversationID uuid.UUID, testNumber int, pairs []AnswerPair, now time.Time) (TestResult, error) {
	if len(pairs) == 0 {
		return TestResult{}, domain.ErrNoAnswers
	}
	scores := make([]MessageScore, 0, len(pairs))
	for _, p := range pairs {
		scores = append(scores, NewMessageScore(p.Order, p.UserAnswer, p.CorrectAnswer))
	}
	return TestResult{
		ConversationID: conversationID,
		TestNumber:     testNumber,
		Scores:         scores,
		CreatedAt:      now,
	}, nil
}

// OverallScore is the rounded mean of all message scores.
// Derived at read time; never stored redundantly.
func (r TestResult) OverallScore() int {
	if len(r.Scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range r.Scores {
		sum += s.Score
	}
	return int(math.Round(sum / float64(len(r.Scores))))
}

// IsPassing reports whether the submission reaches the passing threshold.
func (r TestResult) IsPassing() bool {
	return r.OverallScore() >= PassingThreshold
}
