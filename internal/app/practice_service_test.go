package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"lingua-study-service/internal/app"
	"lingua-study-service/internal/domain"
	"lingua-study-service/internal/infra/memory"
)

func sampleGenerated() domain.GeneratedConversation {
	return domain.GeneratedConversation{
		Title: "Ordering coffee",
		Lines: []domain.GeneratedLine{
			{Text: "Hi, could I get a latte, please?", Translation: "こんにちは、ラテをお願いできますか。"},
			{Text: "Sure, what size would you like?", Translation: "かしこまりました、サイズはいかがなさいますか。"},
			{Text: "A medium, to go.", Translation: "ミディアムで、持ち帰りでお願いします。"},
		},
	}
}

type practiceFixture struct {
	service *app.PracticeService
	cards   *memory.RecallCardRepository
}

func newPracticeFixture(t *testing.T) *practiceFixture {
	t.Helper()
	cards := memory.NewRecallCardRepository()
	service := app.NewPracticeServiceWithClock(
		memory.NewConversationRepository(),
		memory.NewTestResultRepository(),
		cards,
		memory.NewStaticConversationGenerator(sampleGenerated()),
		func() time.Time { return testNow },
	)
	return &practiceFixture{service: service, cards: cards}
}

func TestRegisterConversation(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)
	userID := uuid.New()

	conversation, err := fx.service.RegisterConversation(ctx, userID, "could I get")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if conversation.Title != "Ordering coffee" {
		t.Fatalf("unexpected title %q", conversation.Title)
	}
	if conversation.Order != 0 {
		t.Fatalf("expected first conversation at order 0, got %d", conversation.Order)
	}
	if len(conversation.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conversation.Messages))
	}
	for i, message := range conversation.Messages {
		if message.Order != i+1 {
			t.Fatalf("expected message order %d, got %d", i+1, message.Order)
		}
		if message.Speaker != i%2 {
			t.Fatalf("expected speakers to alternate, got %d at %d", message.Speaker, i)
		}
	}

	// One recall card per line, prompting with the native-language side.
	cards, err := fx.cards.GetAllByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 recall cards, got %d", len(cards))
	}
	for _, card := range cards {
		if !strings.Contains(card.Question, "。") {
			t.Fatalf("expected Japanese prompt, got %q", card.Question)
		}
		if card.CorrectPoint != 0 || !card.ReviewDeadline.Equal(testNow) {
			t.Fatalf("expected fresh card immediately due, got %+v", card)
		}
	}

	second, err := fx.service.RegisterConversation(ctx, userID, "another phrase")
	if err != nil {
		t.Fatalf("second register failed: %v", err)
	}
	if second.Order != 1 {
		t.Fatalf("expected second conversation at order 1, got %d", second.Order)
	}
}

func TestConversationsNewestFirst(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)
	userID := uuid.New()

	first, _ := fx.service.RegisterConversation(ctx, userID, "one")
	second, _ := fx.service.RegisterConversation(ctx, userID, "two")

	conversations, err := fx.service.Conversations(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}
	if conversations[0].ID != second.ID || conversations[1].ID != first.ID {
		t.Fatalf("expected newest first ordering")
	}
}

func TestSubmitTest(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)
	userID := uuid.New()

	conversation, err := fx.service.RegisterConversation(ctx, userID, "could I get")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	answers := []string{
		"Hi, could I get a latte, please?",
		"Sure, what size would you like?",
		"A medium, to go.",
	}
	summary, err := fx.service.SubmitTest(ctx, userID, conversation.ID, answers)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if summary.OverallScore != 100 || !summary.IsPassing {
		t.Fatalf("expected perfect pass, got %+v", summary)
	}
	if summary.LastOverallScore != nil {
		t.Fatalf("first test should carry no previous score")
	}
	if len(summary.Results) != 3 {
		t.Fatalf("expected 3 per-message results, got %d", len(summary.Results))
	}
	for _, result := range summary.Results {
		if !result.IsCorrect {
			t.Fatalf("expected exact answers to be correct, got %+v", result)
		}
		if result.LastScore != nil {
			t.Fatalf("first test should carry no previous per-message score")
		}
	}
}

func TestSubmitTestTracksPreviousResult(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)
	userID := uuid.New()

	conversation, err := fx.service.RegisterConversation(ctx, userID, "could I get")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	poor := []string{"no idea", "not sure", "something"}
	if _, err := fx.service.SubmitTest(ctx, userID, conversation.ID, poor); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	perfect := []string{
		"Hi, could I get a latte, please?",
		"Sure, what size would you like?",
		"A medium, to go.",
	}
	summary, err := fx.service.SubmitTest(ctx, userID, conversation.ID, perfect)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if summary.LastOverallScore == nil {
		t.Fatalf("expected the previous overall score to be reported")
	}
	if *summary.LastOverallScore >= summary.OverallScore {
		t.Fatalf("expected improvement over %d, got %d", *summary.LastOverallScore, summary.OverallScore)
	}
	for _, result := range summary.Results {
		if result.LastScore == nil {
			t.Fatalf("expected per-message previous scores on a retake")
		}
	}
}

func TestSubmitTestAnnotatesDiffs(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)
	userID := uuid.New()

	conversation, err := fx.service.RegisterConversation(ctx, userID, "could I get")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	answers := []string{
		"Hi, could I get a coffee, please?", // latte -> coffee
		"Sure, what size would you like?",
		"A medium, to go.",
	}
	summary, err := fx.service.SubmitTest(ctx, userID, conversation.ID, answers)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	first := summary.Results[0]
	if !strings.Contains(first.UserAnswer, "<del>coffee</del>") {
		t.Fatalf("expected the wrong token struck through, got %q", first.UserAnswer)
	}
	if !strings.Contains(first.CorrectAnswer, `<span style="color:red">latte</span>`) {
		t.Fatalf("expected the missing token emphasized, got %q", first.CorrectAnswer)
	}
}

func TestSubmitTestAnswerCountMismatch(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)
	userID := uuid.New()

	conversation, err := fx.service.RegisterConversation(ctx, userID, "could I get")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err = fx.service.SubmitTest(ctx, userID, conversation.ID, []string{"only one"})
	if err != domain.ErrAnswerCountMismatch {
		t.Fatalf("expected answer count mismatch, got %v", err)
	}
}

func TestSubmitTestUnknownConversation(t *testing.T) {
	ctx := context.Background()
	fx := newPracticeFixture(t)

	_, err := fx.service.SubmitTest(ctx, uuid.New(), uuid.New(), nil)
	if err != domain.ErrConversationNotFound {
		t.Fatalf("expected conversation not found, got %v", err)
	}
}
