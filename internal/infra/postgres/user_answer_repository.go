package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"lingua-study-service/internal/domain"
)

type userAnswerRow struct {
	bun.BaseModel `bun:"table:user_answers"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID     uuid.UUID `bun:"owner_id,type:uuid"`
	QuizID      uuid.UUID `bun:"quiz_id,type:uuid"`
	AnswerText  string    `bun:"answer_text"`
	Score       int       `bun:"score"`
	Feedback    string    `bun:"feedback"`
	ModelAnswer string    `bun:"model_answer"`
	AnsweredAt  time.Time `bun:"answered_at"`
}

func (r userAnswerRow) toDomain() domain.UserAnswer {
	return domain.UserAnswer{
		ID:         r.ID,
		OwnerID:    r.OwnerID,
		QuizID:     r.QuizID,
		AnswerText: r.AnswerText,
		Evaluation: domain.AIEvaluation{
			Score:       r.Score,
			Feedback:    r.Feedback,
			ModelAnswer: r.ModelAnswer,
		},
		AnsweredAt: r.AnsweredAt,
	}
}

// UserAnswerRepository is the bun-backed implementation of app.UserAnswerRepository.
type UserAnswerRepository struct {
	db *bun.DB
}

func NewUserAnswerRepository(db *bun.DB) *UserAnswerRepository {
	return &UserAnswerRepository{db: db}
}

func (r *UserAnswerRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAnswer, error) {
	var rows []userAnswerRow
	err := r.db.NewSelect().Model(&rows).
		Where("owner_id = ?", userID).
		Order("answered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select user answers: %w", err)
	}
	return toUserAnswers(rows), nil
}

func (r *UserAnswerRepository) GetAllByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]domain.UserAnswer, error) {
	var rows []userAnswerRow
	err := r.db.NewSelect().Model(&rows).
		Where("owner_id = ?", userID).
		Where("quiz_id = ?", quizID).
		Order("answered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select quiz answers: %w", err)
	}
	return toUserAnswers(rows), nil
}

func (r *UserAnswerRepository) Create(ctx context.Context, answer domain.UserAnswer) error {
	row := userAnswerRow{
		ID:          answer.ID,
		OwnerID:     answer.OwnerID,
		QuizID:      answer.QuizID,
		AnswerText:  answer.AnswerText,
		Score:       answer.Evaluation.Score,
		Feedback:    answer.Evaluation.Feedback,
		ModelAnswer: answer.Evaluation.ModelAnswer,
		AnsweredAt:  answer.AnsweredAt,
	}
	if _, err := r.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("insert user answer: %w", err)
	}
	return nil
}

func toUserAnswers(rows []userAnswerRow) []domain.UserAnswer {
	answers := make([]domain.UserAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, row.toDomain())
	}
	return answers
}
