package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"lingua-study-service/internal/domain"
)

// QuizLoader loads quiz content from Postgres. Quizzes are seeded by
// migrations and read-only at runtime, so reads go through a plain pool
// rather than the bun write path.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, id uuid.UUID) (domain.Quiz, error) {
	var quiz domain.Quiz
	err := l.pool.QueryRow(ctx,
		`SELECT id, question, model_answer, quiz_type_id, difficulty FROM quizzes WHERE id=$1`, id).
		Scan(&quiz.ID, &quiz.Question, &quiz.ModelAnswer, &quiz.QuizTypeID, &quiz.Difficulty)
	if err == pgx.ErrNoRows {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return quiz, nil
}

func (l *QuizLoader) LoadAll(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, question, model_answer, quiz_type_id, difficulty FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.Question, &quiz.ModelAnswer, &quiz.QuizTypeID, &quiz.Difficulty); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

// QuizTypeRepository reads the quiz category lookup table.
type QuizTypeRepository struct {
	pool *pgxpool.Pool
}

func NewQuizTypeRepository(pool *pgxpool.Pool) *QuizTypeRepository {
	return &QuizTypeRepository{pool: pool}
}

func (r *QuizTypeRepository) GetAll(ctx context.Context) ([]domain.QuizType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM quiz_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load quiz types: %w", err)
	}
	defer rows.Close()

	var types []domain.QuizType
	for rows.Next() {
		var quizType domain.QuizType
		if err := rows.Scan(&quizType.ID, &quizType.Name, &quizType.Description); err != nil {
			return nil, fmt.Errorf("scan quiz type: %w", err)
		}
		types = append(types, quizType)
	}
	return types, rows.Err()
}
