package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"lingua-study-service/internal/evaluation"
)

type testResultRow struct {
	bun.BaseModel `bun:"table:test_results"`

	ConversationID uuid.UUID `bun:"conversation_id,pk,type:uuid"`
	TestNumber     int       `bun:"test_number,pk"`
	CreatedAt      time.Time `bun:"created_at"`
}

type messageScoreRow struct {
	bun.BaseModel `bun:"table:test_message_scores"`

	ConversationID uuid.UUID `bun:"conversation_id,pk,type:uuid"`
	TestNumber     int       `bun:"test_number,pk"`
	MessageOrder   int       `bun:"message_order,pk"`
	Score          float64   `bun:"score"`
	IsCorrect      bool      `bun:"is_correct"`
	UserAnswer     string    `bun:"user_answer"`
	CorrectAnswer  string    `bun:"correct_answer"`
}

// TestResultRepository persists graded test submissions. A result and its
// per-message scores are written in one transaction.
type TestResultRepository struct {
	db *bun.DB
}

func NewTestResultRepository(db *bun.DB) *TestResultRepository {
	return &TestResultRepository{db: db}
}

func (r *TestResultRepository) Latest(ctx context.Context, conversationID uuid.UUID) (evaluation.TestResult, bool, error) {
	var row testResultRow
	err := r.db.NewSelect().Model(&row).
		Where("conversation_id = ?", conversationID).
		Order("test_number DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return evaluation.TestResult{}, false, nil
	}
	if err != nil {
		return evaluation.TestResult{}, false, fmt.Errorf("select latest test result: %w", err)
	}

	var scoreRows []messageScoreRow
	err = r.db.NewSelect().Model(&scoreRows).
		Where("conversation_id = ?", conversationID).
		Where("test_number = ?", row.TestNumber).
		Order("message_order ASC").
		Scan(ctx)
	if err != nil {
		return evaluation.TestResult{}, false, fmt.Errorf("select test message scores: %w", err)
	}

	scores := make([]evaluation.MessageScore, 0, len(scoreRows))
	for _, s := range scoreRows {
		scores = append(scores, evaluation.MessageScore{
			Order:         s.MessageOrder,
			Score:         s.Score,
			IsCorrect:     s.IsCorrect,
			UserAnswer:    s.UserAnswer,
			CorrectAnswer: s.CorrectAnswer,
		})
	}
	return evaluation.TestResult{
		ConversationID: row.ConversationID,
		TestNumber:     row.TestNumber,
		Scores:         scores,
		CreatedAt:      row.CreatedAt,
	}, true, nil
}

func (r *TestResultRepository) Save(ctx context.Context, result evaluation.TestResult) error {
	resultRow := testResultRow{
		ConversationID: result.ConversationID,
		TestNumber:     result.TestNumber,
		CreatedAt:      result.CreatedAt,
	}
	scoreRows := make([]messageScoreRow, 0, len(result.Scores))
	for _, s := range result.Scores {
		scoreRows = append(scoreRows, messageScoreRow{
			ConversationID: result.ConversationID,
			TestNumber:     result.TestNumber,
			MessageOrder:   s.Order,
			Score:          s.Score,
			IsCorrect:      s.IsCorrect,
			UserAnswer:     s.UserAnswer,
			CorrectAnswer:  s.CorrectAnswer,
		})
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&resultRow).Exec(ctx); err != nil {
			return fmt.Errorf("insert test result: %w", err)
		}
		if len(scoreRows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&scoreRows).Exec(ctx); err != nil {
			return fmt.Errorf("insert test message scores: %w", err)
		}
		return nil
	})
}
