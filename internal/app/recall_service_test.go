package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/app"
	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/infra/memory"
)

func seedCards(t *testing.T, repo *memory.RecallCardRepository, cards ...domain.RecallCard) {
	t.Helper()
	if err := repo.CreateAll(context.Background(), cards); err != nil {
		t.Fatalf("seed cards: %v", err)
	}
}

func TestNextCardPicksMostOverdue(t *testing.T) {
	ctx := context.Background()
	cards := memory.NewRecallCardRepository()
	service := app.NewRecallService(cards)
	userID := uuid.New()

	newer := domain.RecallCard{
		ID: uuid.New(), OwnerID: userID,
		Question: "ありがとう", Answer: "Thank you.",
		ReviewDeadline: testNow.Add(-time.Hour),
	}
	older := domain.RecallCard{
		ID: uuid.New(), OwnerID: userID,
		Question: "おはよう", Answer: "Good morning.",
		ReviewDeadline: testNow.Add(-48 * time.Hour),
	}
	seedCards(t, cards, newer, older)

	card, err := service.NextCard(ctx, userID)
	if err != nil {
		t.Fatalf("next card failed: %v", err)
	}
	if card.ID != older.ID {
		t.Fatalf("expected the card with the earliest deadline, got %s", card.ID)
	}
}

func TestNextCardNoCards(t *testing.T) {
	service := app.NewRecallService(memory.NewRecallCardRepository())

	_, err := service.NextCard(context.Background(), uuid.New())
	if err != domain.ErrRecallCardNotFound {
		t.Fatalf("expected card not found, got %v", err)
	}
}

func TestSubmitAnswerCorrect(t *testing.T) {
	ctx := context.Background()
	cards := memory.NewRecallCardRepository()
	service := app.NewRecallService(cards)
	userID := uuid.New()

	card := domain.RecallCard{
		ID: uuid.New(), OwnerID: userID,
		Question: "また明日ね。", Answer: "See you tomorrow.",
		CorrectPoint:   2,
		ReviewDeadline: testNow,
	}
	seedCards(t, cards, card)

	review, err := service.SubmitAnswer(ctx, userID, card.ID, "See you tomorrow.")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !review.Correct {
		t.Fatalf("expected an exact answer to count as correct")
	}
	if review.Card.CorrectPoint != 3 {
		t.Fatalf("expected point 3, got %d", review.Card.CorrectPoint)
	}
	if review.Similarity != 100 {
		t.Fatalf("expected similarity 100, got %v", review.Similarity)
	}

	stored, err := cards.GetByIDAndUser(ctx, card.ID, userID)
	if err != nil {
		t.Fatalf("reload card: %v", err)
	}
	if stored.CorrectPoint != 3 {
		t.Fatalf("expected the update persisted, got point %d", stored.CorrectPoint)
	}
}

func TestSubmitAnswerIncorrect(t *testing.T) {
	ctx := context.Background()
	cards := memory.NewRecallCardRepository()
	service := app.NewRecallService(cards)
	userID := uuid.New()

	card := domain.RecallCard{
		ID: uuid.New(), OwnerID: userID,
		Question: "また明日ね。", Answer: "See you tomorrow.",
		CorrectPoint:   3,
		ReviewDeadline: testNow,
	}
	seedCards(t, cards, card)

	review, err := service.SubmitAnswer(ctx, userID, card.ID, "Good night.")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if review.Correct {
		t.Fatalf("expected a wrong answer to count as incorrect")
	}
	if review.Card.CorrectPoint != 0 {
		t.Fatalf("expected points docked to 0, got %d", review.Card.CorrectPoint)
	}
	if !review.Card.ReviewDeadline.Equal(testNow) {
		t.Fatalf("expected the deadline untouched on a miss")
	}
}

func TestSubmitAnswerWrongUser(t *testing.T) {
	ctx := context.Background()
	cards := memory.NewRecallCardRepository()
	service := app.NewRecallService(cards)

	card := domain.RecallCard{
		ID: uuid.New(), OwnerID: uuid.New(),
		Question: "また明日ね。", Answer: "See you tomorrow.",
		ReviewDeadline: testNow,
	}
	seedCards(t, cards, card)

	_, err := service.SubmitAnswer(ctx, uuid.New(), card.ID, "See you tomorrow.")
	if err != domain.ErrRecallCardNotFound {
		t.Fatalf("expected card not found for another user, got %v", err)
	}
}
