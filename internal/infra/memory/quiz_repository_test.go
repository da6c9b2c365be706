package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	quiz := sampleQuiz()
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[uuid.UUID]domain.Quiz{quiz.ID: quiz}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetByID(context.Background(), quiz.ID); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetByID(context.Background(), quiz.ID); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryCachesList(t *testing.T) {
	quiz := sampleQuiz()
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[uuid.UUID]domain.Quiz{quiz.ID: quiz}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	all, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 quiz, got %d", len(all))
	}

	if _, err := repo.GetAll(context.Background()); err != nil {
		t.Fatalf("get all 2: %v", err)
	}
	if loader.listCalls != 1 {
		t.Fatalf("expected cache hit, list calls %d", loader.listCalls)
	}

	filtered, err := repo.GetAllByType(context.Background(), quiz.QuizTypeID)
	if err != nil {
		t.Fatalf("get by type: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 quiz of type, got %d", len(filtered))
	}
}

func TestQuizRepositoryMiss(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewStaticQuizLoader(nil)}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetByID(context.Background(), uuid.New()); err != domain.ErrQuizNotFound {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	calls     int
	listCalls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, id uuid.UUID) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, id)
}

func (l *countingLoader) LoadAll(ctx context.Context) ([]domain.Quiz, error) {
	l.listCalls++
	return l.QuizLoader.LoadAll(ctx)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:          uuid.New(),
		Question:    "「お疲れ様です」を英語で言うと？",
		ModelAnswer: "Thank you for your hard work.",
		QuizTypeID:  uuid.New(),
		Difficulty:  domain.DifficultyNormal,
	}
}
